package webhook

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes sent back to the platform, prefixed by the numeric status.
const (
	TextCodeOK                  = "OK"
	TextCodeBadRequest          = "BAD_REQUEST"
	TextCodeUnauthorized        = "UNAUTHORIZED"
	TextCodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

// Rejection errors. Each carries the HTTP status and text code of the
// response it maps to. The two 401 errors share a category, so tell them
// apart by identity.
var (
	ErrInputMissing = goerrors.New("webhook: origin, signature and body are required", goerrors.CategoryBadInput).
			WithCode(http.StatusInternalServerError).
			WithTextCode(TextCodeInternalServerError)

	ErrOriginRejected = goerrors.New("webhook: origin address is not allow-listed", goerrors.CategoryAuth).
				WithCode(http.StatusUnauthorized).
				WithTextCode(TextCodeUnauthorized)

	ErrSignatureRejected = goerrors.New("webhook: signature mismatch", goerrors.CategoryAuth).
				WithCode(http.StatusUnauthorized).
				WithTextCode(TextCodeUnauthorized)

	ErrParseFailure = goerrors.New("webhook: body is not a webhook envelope", goerrors.CategoryBadInput).
			WithCode(http.StatusBadRequest).
			WithTextCode(TextCodeBadRequest)
)

// ErrMissingSecret is returned by New when the config has no secret.
var ErrMissingSecret = errors.New("webhook: secret is required")

// rejection converts a stage error into the response the platform receives.
// Errors that are not one of the rejection sentinels are treated as input errors.
func rejection(err error) Result {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		rich = ErrInputMissing
	}
	return Result{
		Rejected:   true,
		StatusCode: rich.Code,
		Body:       statusBody(rich.Code, rich.TextCode),
		Err:        err,
	}
}
