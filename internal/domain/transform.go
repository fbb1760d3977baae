package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ParseRequest decodes a RawEvent into a GeocodeRequest. A missing id falls
// back to the message key.
func ParseRequest(raw RawEvent) (GeocodeRequest, error) {
	var req GeocodeRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return GeocodeRequest{}, fmt.Errorf("parse geocode request: %w", err)
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	return req, nil
}

// NewResolutionEvent records the outcome of resolving req. Only validation and
// no-results failures are outcomes; callers must not pass other errors.
func NewResolutionEvent(req GeocodeRequest, result LocationResult, err error) ResolutionEvent {
	evt := ResolutionEvent{
		ID:          req.ID,
		Address:     req.Address,
		ProcessedAt: clock.Now().UTC(),
	}

	switch ErrorKindOf(err) {
	case KindValidation:
		evt.Status = StatusValidationError
		evt.Error = err.Error()
		var verr *ValidationError
		if errors.As(err, &verr) {
			evt.Suggestion = verr.Suggestion
		}
	case KindNoResults:
		evt.Status = StatusNoResults
		evt.Error = err.Error()
	default:
		evt.Status = StatusResolved
		evt.Location = &result
	}
	return evt
}

// SerializeResolution marshals a ResolutionEvent into an OutputEvent keyed by
// request id.
func SerializeResolution(evt ResolutionEvent) (OutputEvent, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize resolution event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(evt.ID),
		Value: data,
		Headers: map[string]string{
			"status":       evt.Status,
			"processed_at": evt.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
