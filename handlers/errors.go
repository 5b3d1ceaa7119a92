package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// HandleRepositoryError maps repository errors to HTTP responses
func HandleRepositoryError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var writeErr error
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		writeErr = utils.WriteNotFound(w, "")

	case errors.Is(err, repositories.ErrConflict):
		writeErr = utils.WriteUnprocessable(w, "resource already exists")

	case errors.Is(err, repositories.ErrReferenced):
		writeErr = utils.WriteUnprocessable(w, "resource is referenced by or references another resource")

	default:
		// driver errors stay in the log
		logger.Error("repository error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "")
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// HandleValidationError handles errors from decoding and validating request bodies
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, "Validation failed", details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}

// idParam reads the {id} route parameter; ok is false unless it is a positive integer
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageParam reads the ?page query parameter, defaulting to 1
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, errors.New("page must be a positive integer")
	}
	return page, nil
}

func subject(claims *auth.Claims) string {
	if claims == nil {
		return ""
	}
	return claims.Subject
}
