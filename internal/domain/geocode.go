package domain

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Resolver turns a free-text address into a single location by querying the
// provider and selecting the best candidate.
type Resolver struct {
	provider GeocodingProvider
	selector *Selector
	logger   *zap.Logger
}

// NewResolver wires a provider to a selector.
func NewResolver(provider GeocodingProvider, selector *Selector, logger *zap.Logger) *Resolver {
	return &Resolver{provider: provider, selector: selector, logger: logger}
}

// Selector exposes the selector used for parsing and query decisions.
func (r *Resolver) Selector() *Selector {
	return r.selector
}

// Resolve geocodes address. countryCode may be empty. Failures to match are
// reported as *ValidationError or *NoResultsError; any other error comes from
// the provider.
func (r *Resolver) Resolve(ctx context.Context, address, countryCode string) (LocationResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return LocationResult{}, newValidationError("address is empty", "")
	}

	opts := r.selector.QueryOptionsFor(address, countryCode)
	candidates, err := r.provider.Query(ctx, address, opts)
	if err != nil {
		return LocationResult{}, fmt.Errorf("geocode query: %w", err)
	}
	if len(candidates) == 0 {
		r.logger.Info("provider returned no candidates",
			zap.String("address", address),
			zap.String("country_code", opts.CountryCode),
		)
		return LocationResult{}, &NoResultsError{Query: address}
	}

	best, err := r.selector.SelectBest(candidates, address)
	if err != nil {
		r.logger.Info("address not resolved",
			zap.String("address", address),
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		return LocationResult{}, err
	}

	r.logger.Debug("address resolved",
		zap.String("address", address),
		zap.String("formatted", best.Formatted),
		zap.Int("confidence", best.Confidence),
		zap.Int("candidates", len(candidates)),
	)
	return best.ToLocationResult(), nil
}
