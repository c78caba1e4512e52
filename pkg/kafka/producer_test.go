package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_Fields(t *testing.T) {
	type reviewData struct {
		Name   string `json:"name"`
		Rating int    `json:"rating"`
	}

	data := reviewData{Name: "Alice", Rating: 5}
	event, err := NewEvent("storefront.review.submitted", "sess-1", "session", "storefront", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "storefront.review.submitted", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "session", event.AggregateType)
	assert.Equal(t, "storefront", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var got reviewData
	require.NoError(t, json.Unmarshal(event.Data, &got))
	assert.Equal(t, data, got)
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("x", "agg", "t", "svc", make(chan int))
	require.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	original, err := NewEvent("storefront.cart.updated", "sess-2", "session", "storefront", []int{2234, 2235})
	require.NoError(t, err)
	original.WithCorrelationID("corr-abc").WithMetadata("premium", "true")

	raw, err := original.Marshal()
	require.NoError(t, err)

	var restored Event
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, "corr-abc", restored.CorrelationID)
	assert.Equal(t, "true", restored.Metadata["premium"])
	assert.JSONEq(t, string(original.Data), string(restored.Data))
}

func TestEvent_WithMetadata_NilMap(t *testing.T) {
	event := &Event{}
	assert.Same(t, event, event.WithMetadata("k", "v"))
	assert.Equal(t, "v", event.Metadata["k"])
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "storefront.review.submitted", Topic("review", "submitted"))
	assert.Equal(t, "storefront.cart.updated", Topic("cart", "updated"))
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"broker1:9092"})

	assert.Equal(t, []string{"broker1:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.False(t, cfg.Async)
}

func TestProducer_PublishUnreachableBroker(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"127.0.0.1:1"})
	cfg.WriteTimeout = 100 * time.Millisecond
	p := NewProducer(cfg, nil)
	t.Cleanup(func() { _ = p.Close() })

	event, err := NewEvent("storefront.test.failed", "sess-x", "session", "storefront", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	before := testutil.ToFloat64(producerPublishErrors.WithLabelValues("storefront.test.failed"))
	err = p.Publish(ctx, "storefront.test.failed", event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event to storefront.test.failed")
	assert.Equal(t, before+1, testutil.ToFloat64(producerPublishErrors.WithLabelValues("storefront.test.failed")))
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}
