package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// missingIDOffset moves past any id the run could have created.
const missingIDOffset = 1_000_000

const expectedOperations = 5

type row = map[string]any

type messageBody struct {
	Message string         `json:"message"`
	Result  map[string]any `json:"result"`
}

// state is threaded through the CRUD chain.
type state struct {
	client  *HTTPClient
	body    map[string]any
	updated map[string]any
	id      int64
}

func (s *state) path() string { return "/pokemons/" + strconv.FormatInt(s.id, 10) }

func checkHealth(ctx context.Context, s *state) error {
	resp, err := s.client.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	return resp.expect(http.StatusOK, nil)
}

func checkCreate(ctx context.Context, s *state) error {
	raw, _ := json.Marshal(s.body)
	resp, err := s.client.do(ctx, http.MethodPost, "/pokemons", raw)
	if err != nil {
		return err
	}
	var got messageBody
	if err := resp.expect(http.StatusOK, &got); err != nil {
		return err
	}
	if got.Message != "Create pokemon success" {
		return fmt.Errorf("message %q", got.Message)
	}
	if err := sameFields(s.body, got.Result); err != nil {
		return fmt.Errorf("result does not echo the body: %w", err)
	}
	return nil
}

// checkListContains finds the created row; the highest matching id wins.
func checkListContains(ctx context.Context, s *state) error {
	resp, err := s.client.do(ctx, http.MethodGet, "/pokemons", nil)
	if err != nil {
		return err
	}
	var rows []row
	if err := resp.expect(http.StatusOK, &rows); err != nil {
		return err
	}

	for _, r := range rows {
		if sameFields(s.body, r) != nil {
			continue
		}
		id, ok := r["id"].(float64)
		if ok && int64(id) > s.id {
			s.id = int64(id)
		}
	}
	if s.id == 0 {
		return fmt.Errorf("created pokemon not found among %d rows", len(rows))
	}
	return nil
}

func checkGet(ctx context.Context, s *state) error {
	return getMatches(ctx, s, s.body)
}

func checkUpdate(ctx context.Context, s *state) error {
	s.updated = mutate(s.body)
	raw, _ := json.Marshal(s.updated)
	resp, err := s.client.do(ctx, http.MethodPut, s.path(), raw)
	if err != nil {
		return err
	}
	var got messageBody
	if err := resp.expect(http.StatusOK, &got); err != nil {
		return err
	}
	if got.Message != "Update Pokemon success" {
		return fmt.Errorf("message %q", got.Message)
	}
	return nil
}

func checkGetReflectsUpdate(ctx context.Context, s *state) error {
	return getMatches(ctx, s, s.updated)
}

func checkDelete(ctx context.Context, s *state) error {
	resp, err := s.client.do(ctx, http.MethodDelete, s.path(), nil)
	if err != nil {
		return err
	}
	var got messageBody
	if err := resp.expect(http.StatusOK, &got); err != nil {
		return err
	}
	if got.Message != "Pokemon Deleted" {
		return fmt.Errorf("message %q", got.Message)
	}
	return nil
}

func checkGone(ctx context.Context, s *state) error {
	resp, err := s.client.do(ctx, http.MethodGet, s.path(), nil)
	if err != nil {
		return err
	}
	var got messageBody
	if err := resp.expect(http.StatusNotFound, &got); err != nil {
		return err
	}
	if got.Message != "Pokemon not found." {
		return fmt.Errorf("message %q", got.Message)
	}
	return nil
}

// checkMissingID verifies PUT and DELETE on an absent id still answer 200.
func checkMissingID(ctx context.Context, s *state) error {
	path := "/pokemons/" + strconv.FormatInt(s.id+missingIDOffset, 10)
	raw, _ := json.Marshal(s.body)

	resp, err := s.client.do(ctx, http.MethodPut, path, raw)
	if err != nil {
		return err
	}
	if err := resp.expect(http.StatusOK, nil); err != nil {
		return fmt.Errorf("PUT: %w", err)
	}

	resp, err = s.client.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if err := resp.expect(http.StatusOK, nil); err != nil {
		return fmt.Errorf("DELETE: %w", err)
	}
	return nil
}

func checkDocs(ctx context.Context, s *state) error {
	resp, err := s.client.do(ctx, http.MethodGet, "/api-docs/openapi.json", nil)
	if err != nil {
		return err
	}
	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := resp.expect(http.StatusOK, &doc); err != nil {
		return err
	}
	var ops []string
	for path, item := range doc.Paths {
		for method := range item {
			ops = append(ops, strings.ToUpper(method)+" "+path)
		}
	}
	if len(ops) != expectedOperations {
		return fmt.Errorf("documented %d operations, want %d: %v", len(ops), expectedOperations, ops)
	}
	return nil
}

func getMatches(ctx context.Context, s *state, want map[string]any) error {
	resp, err := s.client.do(ctx, http.MethodGet, s.path(), nil)
	if err != nil {
		return err
	}
	var rows []row
	if err := resp.expect(http.StatusOK, &rows); err != nil {
		return err
	}
	if len(rows) != 1 {
		return fmt.Errorf("got %d rows, want 1", len(rows))
	}
	return sameFields(want, rows[0])
}

// mutate derives an update body that differs from body in every field.
func mutate(body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for k, v := range body {
		switch t := v.(type) {
		case string:
			out[k] = t + " (updated)"
		case float64:
			out[k] = t + 1
		case bool:
			out[k] = !t
		default:
			out[k] = v
		}
	}
	return out
}

// sameFields reports the first key of want whose value differs in got.
func sameFields(want, got map[string]any) error {
	for k, w := range want {
		g, ok := got[k]
		if !ok {
			return fmt.Errorf("missing %q", k)
		}
		if !sameValue(w, g) {
			return fmt.Errorf("%q is %v, want %v", k, g, w)
		}
	}
	return nil
}

// sameValue treats booleans and their 0/1 storage form as equal.
func sameValue(want, got any) bool {
	if b, ok := want.(bool); ok {
		if n, isNum := got.(float64); isNum {
			return (n != 0) == b
		}
	}
	return fmt.Sprint(want) == fmt.Sprint(got)
}
