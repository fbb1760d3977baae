//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/weather-geocoder/internal/adapter/kafka"
	"github.com/couchcryptid/weather-geocoder/internal/config"
	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	"github.com/couchcryptid/weather-geocoder/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSourceTopic = "test-geocode-requests"
	testSinkTopic   = "test-geocode-results"
)

type resultMessage struct {
	Event   domain.ResolutionEvent
	Key     string
	Headers map[string]string
}

func readResult(ctx context.Context, t *testing.T, consumer *kafkago.Reader) resultMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var evt domain.ResolutionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &evt), "unmarshal sink message")
	return resultMessage{Event: evt, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 2 * time.Second,
	}
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

func publish(ctx context.Context, t *testing.T, broker string, msgs ...kafkago.Message) {
	t.Helper()
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, msgs...))
}

func request(t *testing.T, id, address string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(domain.GeocodeRequest{ID: id, Address: address})
	require.NoError(t, err)
	return kafkago.Message{Key: []byte(id), Value: payload}
}

// TestPipelineEndToEnd runs Reader → GeocodeTransformer → Writer against real
// Kafka and a fake OpenCage endpoint, covering each resolution status.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	oc := fakeOpenCage(t, map[string][]map[string]any{
		"via torino": {ocResult("Via Torino", "Milano", "Milano", "MI", "20123", 9)},
		"via roma": {
			ocResult("Via Roma", "Torino", "Torino", "TO", "10121", 9),
		},
	})
	resolver := newResolver(oc.URL)

	publish(ctx, t, broker,
		request(t, "ok", "Via Torino 5, Milano"),
		request(t, "wrong-city", "Via Roma 1, Milano"),
		request(t, "missing", "Strada Inesistente 99, Milano"),
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
	)

	cfg := testConfig(broker, "test-pipeline")
	reader := kafka.NewReader(cfg, zap.NewNop())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, zap.NewNop())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, pipeline.NewTransformer(resolver, metrics, zap.NewNop()), writer, zap.NewNop(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	received := map[string]resultMessage{}
	for len(received) < 3 {
		rm := readResult(ctx, t, consumer)
		received[rm.Key] = rm
	}

	// The poison pill is skipped, so nothing else arrives.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no message for the invalid payload")

	pipelineCancel()
	require.NoError(t, <-errCh)

	ok := received["ok"]
	assert.Equal(t, domain.StatusResolved, ok.Event.Status)
	assert.Equal(t, domain.StatusResolved, ok.Headers["status"])
	require.NotNil(t, ok.Event.Location)
	assert.Equal(t, "20123", ok.Event.Location.Postcode)
	_, err = time.Parse(time.RFC3339, ok.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	wrong := received["wrong-city"]
	assert.Equal(t, domain.StatusValidationError, wrong.Event.Status)
	assert.Contains(t, wrong.Event.Error, "VALIDATION_ERROR:")
	assert.Equal(t, "Torino", wrong.Event.Suggestion)

	missing := received["missing"]
	assert.Equal(t, domain.StatusNoResults, missing.Event.Status)
	assert.Equal(t, "NO_RESULTS: address not found", missing.Event.Error)
}

// TestKafkaReaderWriter verifies the adapter layer round-trips a message.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	msg := request(t, "req-1", "Via Roma 1, Torino")
	publish(ctx, t, broker, msg)

	cfg := testConfig(broker, "test-reader")
	reader := kafka.NewReader(cfg, zap.NewNop())
	t.Cleanup(func() { _ = reader.Close() })

	batch, err := reader.ExtractBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, msg.Key, raw.Key)
	assert.Equal(t, msg.Value, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	out, err := domain.SerializeResolution(domain.ResolutionEvent{
		ID:          "req-1",
		Address:     "Via Roma 1, Torino",
		Status:      domain.StatusNoResults,
		Error:       (&domain.NoResultsError{}).Error(),
		ProcessedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, zap.NewNop())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{out}))

	rm := readResult(ctx, t, sinkConsumer(t, broker))
	assert.Equal(t, "req-1", rm.Key)
	assert.Equal(t, domain.StatusNoResults, rm.Headers["status"])
	assert.Equal(t, domain.StatusNoResults, rm.Event.Status)
}
