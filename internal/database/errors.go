package database

import (
	"errors"
	"fmt"
	"strings"
)

// Failure codes reported to API clients.
const (
	CodeInvalidSymbol        = "INVALID_SYMBOL"
	CodeInvalidPurchasePrice = "INVALID_PURCHASE_PRICE"
	CodeInvalidCategory      = "INVALID_CATEGORY"
	CodeInvalidPositionType  = "INVALID_POSITION_TYPE"
	CodePositionExists       = "POSITION_EXISTS"
)

// ErrPositionExists signals a unique-constraint collision on a position's
// symbol or slug.
var ErrPositionExists = errors.New("position with this symbol already exists")

// ErrPositionNotFound signals that no position matched the given slug.
var ErrPositionNotFound = errors.New("position not found")

// ValidationError reports an invalid create/update field before any I/O.
// Allowed carries the permitted value set for enumerated fields.
type ValidationError struct {
	Code    string
	Message string
	Allowed []string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("%s (allowed: %s)", e.Message, strings.Join(e.Allowed, ", "))
	}
	return e.Message
}
