package service

import (
	stdErrors "errors"
	"net/http"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
)

// upstreamError maps a back-office failure to the register-facing error. An
// expired cashier token surfaces as 401 so the register can re-authenticate.
func upstreamError(message string, err error) *errors.AppError {
	var apiErr *backoffice.APIError

	if stdErrors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return errors.UnauthorizedError("Back-office session expired").WithError(err)
		case http.StatusForbidden:
			return errors.ForbiddenError("Operation not permitted by the back-office").WithError(err)
		}
	}

	return errors.ThirdPartyError(message).WithError(err)
}
