package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: TypeArchive, Body: []byte("rec-1")}))

	messages, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-messages:
		assert.Equal(t, TypeArchive, msg.Type)
		assert.Equal(t, "rec-1", string(msg.Body))
	case <-time.After(time.Second):
		t.Fatal("no message consumed")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := deserialize(serialize(Message{Type: TypeArchive, Body: []byte("id|with|pipes")}))
	assert.Equal(t, TypeArchive, msg.Type)
	assert.Equal(t, "id|with|pipes", string(msg.Body))
}
