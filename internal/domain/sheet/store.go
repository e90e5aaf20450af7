package sheet

import (
	"context"
	"errors"
	"fmt"
)

// CodeExpiredCredentials is the rejection code for an expired access token.
const CodeExpiredCredentials = 401

// Store is the worksheet transport used by the diff-sync engine.
type Store interface {
	// ReadRange returns every cell of rows fromRow..toRow across all columns.
	ReadRange(ctx context.Context, fromRow, toRow int) ([]Cell, error)
	// WriteCells writes the cells as user-entered values in one batch.
	WriteCells(ctx context.Context, cells []Cell) error
	RefreshCredentials(ctx context.Context) error
}

// AccessError is a structured rejection returned by the worksheet service.
type AccessError struct {
	Code    int
	Message string
	Err     error
}

func (e *AccessError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sheet access rejected: code=%d", e.Code)
	}
	return fmt.Sprintf("sheet access rejected: code=%d: %s", e.Code, e.Message)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func (e *AccessError) CredentialsExpired() bool {
	return e.Code == CodeExpiredCredentials
}

// AsAccessError extracts an AccessError from err's chain.
func AsAccessError(err error) (*AccessError, bool) {
	var accessErr *AccessError
	if errors.As(err, &accessErr) {
		return accessErr, true
	}
	return nil, false
}
