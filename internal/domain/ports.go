package domain

import (
	"context"
	"net/url"
	"time"
)

// UpstreamCall is one request to the supplier. Body is already encoded JSON.
type UpstreamCall struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      []byte
	Tags      Tags
}

// UpstreamReply carries the raw supplier answer; Body is the full text as read
// off the wire, before any parsing.
type UpstreamReply struct {
	Status     int
	StatusText string
	Body       []byte
}

func (r UpstreamReply) OK() bool { return r.Status >= 200 && r.Status < 300 }

type Supplier interface {
	Do(ctx context.Context, call UpstreamCall) (UpstreamReply, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// UpstreamFailure is the diagnostic record of a supplier call that did not
// produce a usable answer.
type UpstreamFailure struct {
	Operation     string
	Status        int
	SessionID     string
	CorrelationID string
	Detail        string
	At            time.Time
}

type FailureJournal interface {
	LogFailure(ctx context.Context, f UpstreamFailure) error
	RecentFailures(ctx context.Context, operation string, limit int) ([]UpstreamFailure, error)
}
