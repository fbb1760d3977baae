//go:build opencage

package opencage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// These tests hit the real OpenCage API and require a valid OPENCAGE_API_KEY env var.
// Run with: go test -tags=opencage ./internal/adapter/opencage/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("OPENCAGE_API_KEY")
	if key == "" {
		t.Fatal("OPENCAGE_API_KEY must be set to run smoke tests")
	}
	return NewClient(key, "", 10*time.Second, observability.NewMetricsForTesting(), zap.NewNop())
}

func TestSmoke_Query(t *testing.T) {
	c := smokeClient(t)

	got, err := c.Query(context.Background(), "Piazza del Duomo, Milano", domain.QueryOptions{CountryCode: "it", Language: "it", Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.InDelta(t, 45.46, got[0].Geometry.Lat, 0.1, "lat should be near Milan")
	assert.InDelta(t, 9.19, got[0].Geometry.Lng, 0.1, "lng should be near Milan")
	assert.Equal(t, "it", got[0].Components.CountryCode)
}

func TestSmoke_Resolve(t *testing.T) {
	c := smokeClient(t)
	resolver := domain.NewResolver(c, domain.NewSelector(domain.DefaultLocale()), zap.NewNop())

	res, err := resolver.Resolve(context.Background(), "Via Torino, Milano", "")
	require.NoError(t, err)
	assert.Contains(t, res.Address, "Milano")
}

func TestSmoke_NonsenseQuery(t *testing.T) {
	c := smokeClient(t)

	// OpenCage may still return loose matches for nonsense, so only check
	// that the response is handled.
	_, err := c.Query(context.Background(), "XYZNONEXISTENT99", domain.QueryOptions{Limit: 1})
	require.NoError(t, err)
}

func TestSmoke_CachedProvider(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedProvider(c, 10, time.Minute, nil, observability.NewMetricsForTesting(), zap.NewNop())
	opts := domain.QueryOptions{CountryCode: "it", Limit: 5}

	r1, err := cached.Query(context.Background(), "Via Roma, Torino", opts)
	require.NoError(t, err)

	r2, err := cached.Query(context.Background(), "Via Roma, Torino", opts)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
