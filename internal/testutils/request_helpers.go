package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
)

// TestSession is the cashier session attached by CreateTestRequestWithContext.
var TestSession = models.Session{
	UserID:         7,
	Username:       "awa.diop",
	Role:           "CASHIER",
	CashRegisterID: 3,
	Token:          "test-token",
}

func CreateTestRequestWithContext(method, target string, body io.Reader, session models.Session, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	return req.WithContext(middleware.WithSession(req.Context(), session))
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(middleware.WithLogger(req.Context(), logger))
}
