package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils/response"
)

// requireSession writes 401 and returns false when the request carries no
// register session.
func requireSession(w http.ResponseWriter, r *http.Request) (models.Session, *slog.Logger, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		logger.Warn("Request without a register session")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return models.Session{}, logger, false
	}

	return session, logger, true
}
