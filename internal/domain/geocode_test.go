package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- mock provider ---

type mockProvider struct {
	candidates []Candidate
	err        error
	calls      int
	lastText   string
	lastOpts   QueryOptions
}

func (m *mockProvider) Query(_ context.Context, text string, opts QueryOptions) ([]Candidate, error) {
	m.calls++
	m.lastText = text
	m.lastOpts = opts
	return m.candidates, m.err
}

func newTestResolver(p GeocodingProvider) *Resolver {
	return NewResolver(p, NewSelector(DefaultLocale()), zap.NewNop())
}

// --- tests ---

func TestResolver_Resolve(t *testing.T) {
	c := streetCandidate("Via Roma", "Firenze", "Firenze", "50123", 9)
	provider := &mockProvider{candidates: []Candidate{c}}

	result, err := newTestResolver(provider).Resolve(context.Background(), "  Via Roma 1, Firenze, 50123 ", "")
	require.NoError(t, err)

	assert.Equal(t, LocationResult{
		Latitude:   c.Geometry.Lat,
		Longitude:  c.Geometry.Lng,
		Address:    c.Formatted,
		Confidence: 9,
		Postcode:   "50123",
	}, result)
	assert.Equal(t, "Via Roma 1, Firenze, 50123", provider.lastText)
	assert.Equal(t, QueryOptions{CountryCode: "it", Language: "it", Limit: 5}, provider.lastOpts)
}

func TestResolver_CountryCodePassedThrough(t *testing.T) {
	provider := &mockProvider{}

	_, err := newTestResolver(provider).Resolve(context.Background(), "Rue de Rivoli, Paris", "FR")
	require.Error(t, err)
	assert.Equal(t, QueryOptions{CountryCode: "fr", Limit: 10}, provider.lastOpts)
}

func TestResolver_NoCandidates(t *testing.T) {
	provider := &mockProvider{}

	_, err := newTestResolver(provider).Resolve(context.Background(), "Via Inesistente, Firenze", "")
	assert.ErrorIs(t, err, ErrNoResults)
	var nerr *NoResultsError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "Via Inesistente, Firenze", nerr.Query)
}

func TestResolver_ProviderError(t *testing.T) {
	providerErr := errors.New("connection refused")
	provider := &mockProvider{err: providerErr}

	_, err := newTestResolver(provider).Resolve(context.Background(), "Via Roma, Firenze", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)
	assert.Equal(t, KindNone, ErrorKindOf(err))
}

func TestResolver_EmptyAddress(t *testing.T) {
	provider := &mockProvider{}

	_, err := newTestResolver(provider).Resolve(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, provider.calls, "provider should not be queried")
}

func TestResolver_SelectionError(t *testing.T) {
	provider := &mockProvider{candidates: []Candidate{
		streetCandidate("Via Roma", "Monterotondo Marittimo", "Grosseto", "58025", 9),
	}}

	_, err := newTestResolver(provider).Resolve(context.Background(), "Via Roma, Monterotondo", "")
	assert.ErrorIs(t, err, ErrValidation)
}
