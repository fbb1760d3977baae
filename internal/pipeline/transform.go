package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddressResolver resolves a single address.
type AddressResolver interface {
	Resolve(ctx context.Context, address, countryCode string) (domain.LocationResult, error)
}

// GeocodeTransformer implements Transformer by resolving each request's
// address and emitting its ResolutionEvent.
type GeocodeTransformer struct {
	resolver AddressResolver
	validate *validator.Validate
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewTransformer creates a GeocodeTransformer.
func NewTransformer(resolver AddressResolver, metrics *observability.Metrics, logger *zap.Logger) *GeocodeTransformer {
	return &GeocodeTransformer{
		resolver: resolver,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
		logger:   logger,
	}
}

// Transform decodes and validates the request, then resolves it. Validation
// and no-result outcomes become output events; provider failures are returned
// wrapped in ErrTransient.
func (t *GeocodeTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := t.validate.Struct(req); err != nil {
		return domain.OutputEvent{}, fmt.Errorf("invalid geocode request %s: %w", req.ID, err)
	}

	start := time.Now()
	result, err := t.resolver.Resolve(ctx, req.Address, req.CountryCode)
	t.metrics.ObserveResolution("pipeline", observability.ResolutionOutcome(err), time.Since(start).Seconds())
	if err != nil && domain.ErrorKindOf(err) == domain.KindNone {
		return domain.OutputEvent{}, fmt.Errorf("%w: resolve %s: %w", ErrTransient, req.ID, err)
	}

	evt := domain.NewResolutionEvent(req, result, err)
	t.logger.Debug("request resolved", zap.String("id", req.ID), zap.String("status", evt.Status))
	return domain.SerializeResolution(evt)
}
