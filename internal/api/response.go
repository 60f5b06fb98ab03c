package api

import (
	"encoding/json"
	"net/http"

	"github.com/jmgilman/nodeenv/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as an errors.ErrorResponse with a status derived
// from its code.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(errors.GetCode(err)), errors.ToJSON(err))
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.CodeInvalidInput, errors.CodeInvalidConfig:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func invalidInput(message, param string) error {
	return errors.WithContext(errors.New(errors.CodeInvalidInput, message), "param", param)
}
