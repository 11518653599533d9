// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikidata

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/entity-collector/internal/httputil"
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindHTTPStatus
	KindDecode
	KindAPI
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http-status"
	case KindDecode:
		return "decode"
	case KindAPI:
		return "api"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that fails. Callers use errors.As
// to branch on Kind.
type Error struct {
	Kind ErrorKind
	// IDs are the identifiers the failed request asked for.
	IDs []string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error for %v: %v", e.Kind, e.IDs, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindUnknown
}

// classify wraps a GetJSON failure in an *Error with the matching kind.
func classify(err error, ids []string) *Error {
	kind := KindTransport
	var se *httputil.StatusError
	switch {
	case errors.As(err, &se):
		kind = KindHTTPStatus
	case errors.Is(err, httputil.ErrDecode):
		kind = KindDecode
	}
	return &Error{Kind: kind, IDs: ids, Err: err}
}
