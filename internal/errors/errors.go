// Package errors provides error handling for widl.
//
// This package re-exports github.com/cockroachdb/errors so the rest of the
// compiler wraps and inspects errors through one import:
//
//	if err := render(); err != nil {
//	    return errors.Wrapf(err, "rendering %s", name)
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint       = crdb.WithHint
	WithHintf      = crdb.WithHintf
	WithDetail     = crdb.WithDetail
	WithDetailf    = crdb.WithDetailf
	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Error inspection
var (
	Is        = crdb.Is
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors shared by the compiler stages.
var (
	// ErrInvalidConfig indicates a malformed configuration document.
	ErrInvalidConfig = New("invalid configuration")

	// ErrUnknownLanguage indicates an output requested a backend that does not exist.
	ErrUnknownLanguage = New("unknown language")
)

// IsInvalidConfig checks if an error is or wraps ErrInvalidConfig.
func IsInvalidConfig(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}
