package domain

import (
	"context"
	"time"
)

// Resolution statuses carried on pipeline output.
const (
	StatusResolved        = "resolved"
	StatusValidationError = "validation_error"
	StatusNoResults       = "no_results"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// GeocodeRequest is the payload of a batch geocoding message.
type GeocodeRequest struct {
	ID          string `json:"id"`
	Address     string `json:"address" validate:"required,max=512"`
	CountryCode string `json:"country_code,omitempty" validate:"omitempty,len=2,alpha"`
}

// ResolutionEvent is the outcome of one GeocodeRequest.
type ResolutionEvent struct {
	ID          string          `json:"id"`
	Address     string          `json:"address"`
	Status      string          `json:"status"`
	Location    *LocationResult `json:"location,omitempty"`
	Error       string          `json:"error,omitempty"`
	Suggestion  string          `json:"suggestion,omitempty"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
