package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/logging"
	"larpilot/backoffice/internal/models/dtos"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, initTime time.Time, message string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
	}

	writeJSON(w, code, response)
}

// RespondAppError maps err to its HTTP status. Errors without an app code
// are logged and answered with a generic 500.
func RespondAppError(w http.ResponseWriter, initTime time.Time, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logging.Error("Request failed", "error", err.Error())
	}
	RespondError(w, initTime, apperr.MessageOf(err), status)
}

func RespondPermissionDenied(w http.ResponseWriter, initTime time.Time, required string) {
	RespondError(w, initTime, fmt.Sprintf("%s: %s required", constants.MsgPermissionDenied, required), http.StatusForbidden)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
