package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindValidation
	KindInvariantViolation
	KindUpstreamUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindInvariantViolation:
		return "INVARIANT_VIOLATION"
	case KindUpstreamUnavailable:
		return "UPSTREAM_UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Error is returned by every service operation that fails for a domain
// reason. Two errors are the same (for errors.Is) when their codes match.
type Error struct {
	Kind    ErrorKind
	Code    string
	Field   string
	ID      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrProductNotFound     = &Error{Kind: KindNotFound, Code: "ProductNotFound", Message: "product not found"}
	ErrCartItemNotFound    = &Error{Kind: KindNotFound, Code: "CartItemNotFound", Message: "cart item not found"}
	ErrInvalidProduct      = &Error{Kind: KindValidation, Code: "InvalidProduct", Message: "product base price must be positive"}
	ErrInvalidPrice        = &Error{Kind: KindValidation, Code: "InvalidPrice", Message: "price must be a positive number"}
	ErrInvalidQuantity     = &Error{Kind: KindValidation, Code: "InvalidQuantity", Message: "quantity must be at least 1"}
	ErrInvalidReview       = &Error{Kind: KindValidation, Code: "InvalidReview", Message: "review is invalid"}
	ErrInvalidRequest      = &Error{Kind: KindValidation, Code: "InvalidRequest", Message: "request is invalid"}
	ErrInvalidSort         = &Error{Kind: KindValidation, Code: "InvalidSort", Message: "sort must be one of price-asc, price-desc, rating-asc, rating-desc"}
	ErrCartEmpty           = &Error{Kind: KindValidation, Code: "CartEmpty", Message: "your cart is empty"}
	ErrAlreadyInCampaign   = &Error{Kind: KindInvariantViolation, Code: "AlreadyInCampaign", Message: "product is already part of a campaign"}
	ErrInvalidDiscount     = &Error{Kind: KindInvariantViolation, Code: "InvalidDiscount", Message: "campaign price must be lower than the base price"}
	ErrDuplicateCartLine   = &Error{Kind: KindInvariantViolation, Code: "DuplicateCartLine", Message: "product already has a cart line"}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable, Code: "UpstreamUnavailable", Message: "persistence layer unavailable"}
)

// newError copies a sentinel and attaches the offending field, id and cause.
func newError(base *Error, field, id string, cause error) *Error {
	return &Error{
		Kind:    base.Kind,
		Code:    base.Code,
		Field:   field,
		ID:      id,
		Message: base.Message,
		Err:     cause,
	}
}

func newErrorf(base *Error, field, id, format string, args ...interface{}) *Error {
	e := newError(base, field, id, nil)
	e.Message = fmt.Sprintf(format, args...)
	return e
}

func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// upstream turns a persistence failure into UpstreamUnavailable. Domain errors
// pass through untouched.
func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return newError(ErrUpstreamUnavailable, "", "", fmt.Errorf("%s: %w", op, err))
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicateKey reports a unique index violation. Dialects that do not
// translate errors are matched on their message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// Invalid builds a request-level error from a sentinel, for callers outside
// the package such as HTTP handlers.
func Invalid(base *Error, field, message string) *Error {
	e := newError(base, field, "", nil)
	if message != "" {
		e.Message = message
	}
	return e
}
