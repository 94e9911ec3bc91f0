//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/adapter/csvsource"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/config"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTopic   = "test-nyc-collisions"
	fixturePath = "../adapter/csvsource/testdata/collisions.csv"
)

// exportedMessage holds a deserialized message read from the export topic.
type exportedMessage struct {
	Collision domain.Collision
	Key       string
	Headers   map[string]string
}

func readExported(ctx context.Context, t *testing.T, consumer *kafkago.Reader) exportedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from export topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var c domain.Collision
	require.NoError(t, json.Unmarshal(msg.Value, &c), "unmarshal export message")

	return exportedMessage{Collision: c, Key: string(msg.Key), Headers: headers}
}

// TestKafkaExport loads the fixture CSV and round-trips the cleaned
// collisions through Kafka.
func TestKafkaExport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	ds, err := csvsource.NewReader(discardLogger(), observability.NewMetricsForTesting()).Load(ctx, fixturePath, 100)
	require.NoError(t, err)
	require.Equal(t, 9, ds.Len())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, ds.Records))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := make(map[string]exportedMessage, ds.Len())
	for range ds.Len() {
		m := readExported(ctx, t, consumer)
		got[m.Key] = m
	}
	require.Len(t, got, ds.Len())

	first, ok := got["4001"]
	require.True(t, ok, "collision 4001 should be exported")
	assert.Equal(t, "MANHATTAN", first.Headers["borough"])
	assert.Equal(t, "2019-07-10T05:12:00Z", first.Headers["crash_time"])
	assert.Equal(t, "MAIN ST", first.Collision.OnStreet)
	require.NotNil(t, first.Collision.Injured.Pedestrians)
	assert.Equal(t, 3, *first.Collision.Injured.Pedestrians)

	for _, dropped := range []string{"4003", "4007", "4012"} {
		assert.NotContains(t, got, dropped, "rows without coordinates are not exported")
	}
}
