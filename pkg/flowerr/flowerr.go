// Package flowerr defines the structured failure record shared by every
// component of the engine. It is transport-agnostic: controllers attach a
// category and the failing unit, callers branch on categories with errors.As
// or the helpers below, and the reporter fans the same value out to
// observers.
package flowerr

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category classifies a failure by the operation that produced it, not by
// the underlying SDK type. The per-format detail lives in the Unit field.
type Category string

const (
	CategoryConsent        Category = "consent"
	CategoryLoad           Category = "load_failure"
	CategoryShow           Category = "show_failure"
	CategoryInitialization Category = "sdk_initialization_failure"
	CategoryUnknown        Category = "unknown"
)

// Valid reports whether the category is one of the supported enum values.
func (c Category) Valid() bool {
	switch c {
	case CategoryConsent, CategoryLoad, CategoryShow, CategoryInitialization, CategoryUnknown:
		return true
	}
	return false
}

// Error is an immutable failure record. Construct it with New or Wrap and
// never mutate it afterwards; the reporter and any number of subscribers may
// hold references concurrently.
type Error struct {
	// ID uniquely identifies this occurrence for correlation in logs.
	ID string
	// Category is the taxonomy bucket, never empty.
	Category Category
	// Code carries the SDK's numeric error code when one exists, else zero.
	Code int
	// Message is a human-readable description.
	Message string
	// Unit names the format and ad unit involved, e.g. "interstitial:ca-app-pub-…".
	// Empty for failures with no unit context (consent, initialization).
	Unit string
	// Err is the wrapped cause, if any.
	Err error
	// At is the creation timestamp.
	At time.Time
}

// New creates a failure record with the given category, code, and message.
func New(category Category, code int, msg string) *Error {
	return &Error{
		ID:       uuid.New().String(),
		Category: category,
		Code:     code,
		Message:  msg,
		At:       time.Now(),
	}
}

// Wrap creates a failure record around an existing cause. When the cause is
// already a *Error its category and code are preserved and only the message
// is layered on.
func Wrap(err error, category Category, code int, msg string) *Error {
	var existing *Error
	if errors.As(err, &existing) {
		category = existing.Category
		if code == 0 {
			code = existing.Code
		}
	}
	return &Error{
		ID:       uuid.New().String(),
		Category: category,
		Code:     code,
		Message:  msg,
		Err:      err,
		At:       time.Now(),
	}
}

// WithUnit returns a copy carrying the format-unit identifier. The receiver
// is not modified.
func (e *Error) WithUnit(unit string) *Error {
	clone := *e
	clone.Unit = unit
	return &clone
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	default:
		return string(e.Category)
	}
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// Is matches two flow errors by category, enabling
// errors.Is(err, &flowerr.Error{Category: CategoryLoad}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Category == t.Category
}

// HasCategory reports whether err is (or wraps) a flow error of the given
// category.
func HasCategory(err error, category Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}
	return false
}

// CategoryOf returns the category of err, or CategoryUnknown when err is not
// a flow error.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryUnknown
}
