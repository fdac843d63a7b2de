package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func expiredEvent(account string) domain.OrderExpired {
	return domain.OrderExpired{
		BaseEvent: domain.BaseEvent{Timestamp: time.Date(2026, 3, 2, 10, 31, 0, 0, time.UTC), OrderID: "o-1", AccountID: account},
	}
}

func TestBroadcaster_RoutesByAccount(t *testing.T) {
	b := NewBroadcaster(nil)
	mine, cancelMine := b.Subscribe("a-1")
	other, cancelOther := b.Subscribe("a-2")
	defer cancelOther()

	require.NoError(t, b.Publish(context.Background(), expiredEvent("a-1")))

	select {
	case env := <-mine:
		require.Equal(t, "orders.order.expired", env.Type)
		require.Equal(t, "o-1", env.OrderID)
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}
	require.Empty(t, other)

	cancelMine()
	cancelMine()
	_, open := <-mine
	require.False(t, open)
	require.NoError(t, b.Publish(context.Background(), expiredEvent("a-1")))
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, cancel := b.Subscribe("a-1")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, b.Publish(context.Background(), expiredEvent("a-1")))
	}
	require.Len(t, ch, subscriberBuffer)
}

func TestSQSPublisher_SendsEnvelope(t *testing.T) {
	client := &fakeSQS{}
	p := NewSQSPublisher(client, "https://sqs.local/orders")

	require.NoError(t, p.Publish(context.Background(), expiredEvent("a-1")))
	require.Len(t, client.inputs, 1)

	input := client.inputs[0]
	require.Equal(t, "https://sqs.local/orders", *input.QueueUrl)
	require.Equal(t, "orders.order.expired", *input.MessageAttributes["event_type"].StringValue)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(*input.MessageBody), &body))
	require.Equal(t, "a-1", body["accountId"])
}

func TestFanout_JoinsErrors(t *testing.T) {
	failing := NewSQSPublisher(&fakeSQS{err: errors.New("throttled")}, "q")
	b := NewBroadcaster(nil)
	ch, cancel := b.Subscribe("a-1")
	defer cancel()

	err := Fanout{failing, b}.Publish(context.Background(), expiredEvent("a-1"))
	require.ErrorContains(t, err, "throttled")
	require.Len(t, ch, 1)
}
