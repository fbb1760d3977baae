package domain

import "context"

// GeocodingProvider runs a forward geocoding query and returns every
// candidate the provider produced, in provider order. An empty slice with a
// nil error means the provider found nothing.
type GeocodingProvider interface {
	Query(ctx context.Context, text string, opts QueryOptions) ([]Candidate, error)
}
