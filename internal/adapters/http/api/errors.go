package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/okian/pokeapi/internal/domain/model"
)

// Response messages.
const (
	msgListFailed   = "Error occurred while retrieving pokemons."
	msgGetFailed    = "Error occurred while retrieving pokemon by id."
	msgCreateFailed = "Error occurred while create new pokemon."
	msgUpdateFailed = "Error occurred while updating pokemon."
	msgDeleteFailed = "Error occurred while deleting pokemon."
	msgNotFound     = "Pokemon not found."
	msgInvalid      = "Invalid request."
	msgTooLarge     = "Request body too large."
	msgPanic        = "Internal server error."

	msgCreated = "Create pokemon success"
	msgUpdated = "Update Pokemon success"
	msgDeleted = "Pokemon Deleted"
)

// failure is the body of every non-2xx pokemon response.
type failure struct {
	Message string       `json:"message"`
	Error   *errorDetail `json:"error,omitempty"`
}

// errorDetail is the client-facing view of an underlying error.
type errorDetail struct {
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	SQLState string `json:"sqlState,omitempty"`
}

// describe extracts driver codes where the error carries them.
func describe(err error) *errorDetail {
	if err == nil {
		return nil
	}
	d := &errorDetail{Message: err.Error()}

	var storeErr *model.StoreError
	if errors.As(err, &storeErr) {
		d.Message = storeErr.Err.Error()
	}

	var pgErr *pgconn.PgError
	var liteErr sqlite3.Error
	switch {
	case errors.As(err, &pgErr):
		d.Message = pgErr.Message
		d.SQLState = pgErr.Code
	case errors.As(err, &liteErr):
		d.Message = liteErr.Error()
		d.Code = strconv.Itoa(int(liteErr.ExtendedCode))
	}
	return d
}

// statusFor maps an operation error to its HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case model.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
