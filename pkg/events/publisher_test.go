package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	ev := New("cart_updated", "9b2f0c6e-3c1a-4d2e-8f6b-1a2b3c4d5e6f", map[string]any{"total": 699})
	require.NoError(t, p.Publish(context.Background(), TopicCarts, ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicCarts, msg.Topic)
	assert.Equal(t, ev.Key, string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "cart_updated", string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "cart_updated", body["type"])
	assert.NotContains(t, body, "Key")
	assert.EqualValues(t, 699, body["data"].(map[string]any)["total"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{w: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), TopicProducts, New("product_created", "1", nil))
	require.ErrorContains(t, err, "broker down")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), TopicProducts, New("product_created", "1", nil)))
	require.NoError(t, r.Publish(context.Background(), TopicProducts, New("product_deleted", "1", nil)))

	assert.Equal(t, []string{"product_created", "product_deleted"}, r.Types(TopicProducts))
	assert.Empty(t, r.Types(TopicCarts))
}
