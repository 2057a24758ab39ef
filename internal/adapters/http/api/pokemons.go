package api

import (
	"errors"
	"net/http"

	"github.com/okian/pokeapi/internal/domain/model"
	"github.com/okian/pokeapi/pkg/logger"
)

type createResponse struct {
	Message string       `json:"message"`
	Result  model.Fields `json:"result"`
}

type updateResponse struct {
	Message string       `json:"message"`
	Result  model.Result `json:"result"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleList handles GET /pokemons.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.deps.List(r.Context())
	if err != nil {
		s.fail(w, r, msgListFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rows))
}

// handleGet handles GET /pokemons/{id}.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, msgGetFailed, err)
		return
	}
	rows, err := s.deps.Get(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: msgNotFound})
		return
	}
	if err != nil {
		s.fail(w, r, msgGetFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rows))
}

// handleCreate handles POST /pokemons. The response echoes the accepted body.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	fields, err := model.ParseFields(r.Body, s.deps.Columns())
	if err != nil {
		s.fail(w, r, msgCreateFailed, err)
		return
	}
	if _, err := s.deps.Create(r.Context(), fields); err != nil {
		s.fail(w, r, msgCreateFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Message: msgCreated, Result: fields})
}

// handleUpdate handles PUT /pokemons/{id}.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, msgUpdateFailed, err)
		return
	}
	fields, err := model.ParseFields(r.Body, s.deps.Columns())
	if err != nil {
		s.fail(w, r, msgUpdateFailed, err)
		return
	}
	res, err := s.deps.Update(r.Context(), id, fields)
	if err != nil {
		s.fail(w, r, msgUpdateFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Message: msgUpdated, Result: res})
}

// handleDelete handles DELETE /pokemons/{id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, msgDeleteFailed, err)
		return
	}
	if _, err := s.deps.Delete(r.Context(), id); err != nil {
		s.fail(w, r, msgDeleteFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgDeleted})
}

// fail writes the error response for err. message is used for store failures;
// request problems get a generic message instead.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusBadRequest:
		message = msgInvalid
	case http.StatusRequestEntityTooLarge:
		message = msgTooLarge
	}

	fields := []logger.Field{
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.Int("status", status),
		logger.Error(err),
	}
	if id := GetRequestID(r.Context()); id != "" {
		fields = append(fields, logger.String("request_id", id))
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), message, fields...)
	} else {
		s.logger.Warn(r.Context(), message, fields...)
	}

	writeJSON(w, status, failure{Message: message, Error: describe(err)})
}

func nonNil(rows []model.Record) []model.Record {
	if rows == nil {
		return []model.Record{}
	}
	return rows
}
