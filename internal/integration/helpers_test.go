//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/couchcryptid/weather-geocoder/internal/adapter/opencage"
	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	"go.uber.org/zap"
)

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("geocoder-test"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// fakeOpenCage serves canned OpenCage responses keyed by a substring of the
// query text. Unknown queries return no results.
func fakeOpenCage(t *testing.T, responses map[string][]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		results := []map[string]any{}
		for needle, rs := range responses {
			if strings.Contains(q, needle) {
				results = rs
				break
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results, "total_results": len(results)})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newResolver(baseURL string) *domain.Resolver {
	client := opencage.NewClient("test-key", baseURL, 0, observability.NewMetricsForTesting(), zap.NewNop())
	return domain.NewResolver(client, domain.NewSelector(domain.DefaultLocale()), zap.NewNop())
}

func ocResult(road, city, county, countyCode, postcode string, confidence int) map[string]any {
	return map[string]any{
		"confidence": confidence,
		"formatted":  road + ", " + postcode + " " + city + " " + countyCode + ", Italia",
		"geometry":   map[string]any{"lat": 45.0, "lng": 9.0},
		"components": map[string]any{
			"road":         road,
			"city":         city,
			"county":       county,
			"county_code":  countyCode,
			"postcode":     postcode,
			"country_code": "it",
		},
	}
}
