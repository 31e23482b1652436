package query

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle position of a cached read.
type Status int

const (
	// StatusIdle means no request has been issued for the key.
	StatusIdle Status = iota
	// StatusLoading means a request is in flight.
	StatusLoading
	// StatusSuccess means the last request returned data.
	StatusSuccess
	// StatusError means the last request failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is the tri-state view of one cached read. HasData distinguishes a
// successful zero value (an empty list) from no data at all.
type State[T any] struct {
	UpdatedAt time.Time
	Data      T
	Err       error
	Status    Status
	HasData   bool
}

// IsLoading reports whether a request is in flight.
func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }

// IsSuccess reports whether the last request succeeded.
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }

// IsError reports whether the last request failed.
func (s State[T]) IsError() bool { return s.Status == StatusError }

// Key identifies a query: its logical name plus its parameters.
type Key string

// NewKey builds a stable key from a name and parameters.
// NewKey("trending", 20) == "trending:20"; NewKey("categories") == "categories".
func NewKey(name string, params ...any) Key {
	if len(params) == 0 {
		return Key(name)
	}
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, name)
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return Key(strings.Join(parts, ":"))
}

// Fetcher performs the read for a key.
type Fetcher[T any] func(ctx context.Context) (T, error)
