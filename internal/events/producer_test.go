package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_TrimsBrokers(t *testing.T) {
	_, err := NewProducer([]string{" ", ""})
	require.Error(t, err)

	p, err := NewProducer([]string{" kafka:9092 ", "kafka2:9092"})
	require.NoError(t, err)
	assert.Equal(t, "tcp", p.writer.Addr.Network())
	assert.Contains(t, p.writer.Addr.String(), "kafka:9092")
	require.NoError(t, p.Close())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var pub Publisher = &r

	require.NoError(t, pub.Publish(context.Background(), TopicOrder, "1", Event{"type": "order_created"}))
	msgs := r.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, TopicOrder, msgs[0].Topic)
	assert.Equal(t, "order_created", msgs[0].Event["type"])

	assert.NoError(t, Nop{}.Publish(context.Background(), TopicCart, "", nil))
}
