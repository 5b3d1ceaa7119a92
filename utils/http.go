package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Error   int                    `json:"error"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes {"success": true} merged with fields
func WriteSuccess(w http.ResponseWriter, status int, fields map[string]interface{}) error {
	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	return WriteJSON(w, status, body)
}

// WriteOK writes a 200 OK success response
func WriteOK(w http.ResponseWriter, fields map[string]interface{}) error {
	return WriteSuccess(w, http.StatusOK, fields)
}

// WriteBadRequest writes a 400 Bad Request response with error details
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) error {
	if message == "" {
		message = "bad request"
	}
	return WriteError(w, http.StatusBadRequest, message, details)
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "resource not found"
	}
	return WriteError(w, http.StatusNotFound, message, nil)
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed response
func WriteMethodNotAllowed(w http.ResponseWriter) error {
	return WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
}

// WriteUnprocessable writes a 422 Unprocessable Entity response
func WriteUnprocessable(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "unprocessable"
	}
	return WriteError(w, http.StatusUnprocessableEntity, message, nil)
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "internal server error"
	}
	return WriteError(w, http.StatusInternalServerError, message, nil)
}

// WriteError writes an error response whose code is derived from the status
func WriteError(w http.ResponseWriter, status int, message string, details map[string]interface{}) error {
	return WriteErrorCode(w, status, errorCode(status), message, details)
}

// WriteErrorCode writes an error response with an explicit machine readable code
func WriteErrorCode(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) error {
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Code:    code,
		Message: message,
		Details: details,
	})
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}
