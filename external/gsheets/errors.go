package gsheets

import (
	"errors"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/sheet"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// mapError turns service rejections into *sheet.AccessError. A failed
// token exchange is reported as expired credentials.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return crerr.Wrap(&sheet.AccessError{Code: apiErr.Code, Message: apiErr.Message, Err: err}, op)
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		message := retrieveErr.ErrorDescription
		if message == "" {
			message = retrieveErr.ErrorCode
		}
		return crerr.Wrap(&sheet.AccessError{Code: http.StatusUnauthorized, Message: message, Err: err}, op)
	}

	return crerr.Wrap(err, op)
}
