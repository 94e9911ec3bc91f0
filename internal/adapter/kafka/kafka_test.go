package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/config"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	crash := time.Date(2019, time.July, 10, 5, 12, 0, 0, time.UTC)
	three := 3
	c := domain.Collision{
		ID:        "4001",
		CrashTime: crash,
		Geo:       domain.Geo{Lat: 40.7503, Lon: -73.9967},
		Borough:   "MANHATTAN",
		OnStreet:  "MAIN ST",
		Injured:   domain.Injuries{Persons: &three, Pedestrians: &three},
		Raw:       []string{"ignored"},
	}

	msg, err := serializeToMessage(c)
	require.NoError(t, err)

	assert.Equal(t, []byte("4001"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "borough", msg.Headers[0].Key)
	assert.Equal(t, []byte("MANHATTAN"), msg.Headers[0].Value)
	assert.Equal(t, "crash_time", msg.Headers[1].Key)
	assert.Equal(t, []byte(crash.Format(time.RFC3339)), msg.Headers[1].Value)

	var got domain.Collision
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "MAIN ST", got.OnStreet)
	assert.True(t, crash.Equal(got.CrashTime))
	require.NotNil(t, got.Injured.Pedestrians)
	assert.Equal(t, 3, *got.Injured.Pedestrians)
	assert.Nil(t, got.Injured.Cyclists)
	assert.Nil(t, got.Raw)
	assert.NotContains(t, string(msg.Value), "ignored")
}

func TestMessageKey_WithoutID(t *testing.T) {
	c := domain.Collision{
		CrashTime: time.Date(2021, time.April, 14, 16, 18, 0, 0, time.UTC),
		Geo:       domain.Geo{Lat: 40.7128, Lon: -74.006},
	}
	assert.Equal(t, "2021-04-14T16:18:00|40.712800,-74.006000", string(messageKey(c)))
}

func TestWriter_LoadBatch_Empty(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "nyc-collisions"}, slog.Default())
	defer w.Close()

	require.NoError(t, w.LoadBatch(context.Background(), nil))
}
