package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// getPathID parses a positive integer path parameter.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", domain.ErrInvalidID)
	}
	return id, nil
}

// requireIdentity returns the authenticated identity, writing a 401 when the
// request did not pass through the auth gate.
func requireIdentity(w http.ResponseWriter, r *http.Request, log *slog.Logger) (domain.Identity, bool) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		log.Warn("identity not found in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return domain.Identity{}, false
	}
	return identity, true
}

// identityAndPathID combines requireIdentity and getPathID, writing the
// error response when either fails.
func identityAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (domain.Identity, int64, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	identity, ok := requireIdentity(w, r, log)
	if !ok {
		return domain.Identity{}, 0, false
	}

	id, err := getPathID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return domain.Identity{}, 0, false
	}

	return identity, id, true
}

type normalizer interface {
	normalize()
}

// decodeAndValidate decodes the body into req, applies field aliases and
// runs tag validation. It writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		if !errors.Is(err, shared.ErrEmptyBody) {
			err = domain.NewValidationError("body", "must be valid JSON", err)
		}
		HandleAPIError(w, r, err, "")
		return false
	}

	if n, ok := req.(normalizer); ok {
		n.normalize()
	}

	if err := shared.ValidateStruct(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
