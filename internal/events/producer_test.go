package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_EncodesEvent(t *testing.T) {
	ev := NewEvent("cart_item_created", 7, map[string]any{"quantity": 3})

	msg, err := Message(TopicCart, ev)
	require.NoError(t, err)

	assert.Equal(t, TopicCart, msg.Topic)
	assert.Equal(t, "7", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, "cart_item_created", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "cart_item_created", decoded["type"])
	assert.EqualValues(t, 7, decoded["entity_id"])
	assert.EqualValues(t, 3, decoded["data"].(map[string]any)["quantity"])
}

func TestMessage_UnencodableData(t *testing.T) {
	_, err := Message(TopicUsers, NewEvent("user_created", 1, make(chan int)))
	assert.Error(t, err)
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	assert.Error(t, err)

	p, err := NewProducer([]string{"kafka:9092"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), TopicUsers, NewEvent("user_created", 1, nil)))
	assert.NoError(t, p.Close())
}
