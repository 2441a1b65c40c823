package domain

import "github.com/google/uuid"

// Tags identify one upstream call for tracing on the supplier side.
// A fresh pair is generated for every proxied call.
type Tags struct {
	SessionID     string
	CorrelationID string
}

func NewTags() Tags {
	return Tags{SessionID: uuid.NewString(), CorrelationID: uuid.NewString()}
}
