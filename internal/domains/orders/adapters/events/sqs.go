package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	"github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	platformaws "github.com/Apurer/petcare-booking/internal/platform/aws"
)

var _ ports.EventPublisher = (*SQSPublisher)(nil)

// SQSPublisher sends each order event as one SQS message.
type SQSPublisher struct {
	client   platformaws.SQSAPI
	queueURL string
}

func NewSQSPublisher(client platformaws.SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL}
}

func (p *SQSPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, event := range events {
		envelope := NewEnvelope(event)
		body, err := json.Marshal(envelope)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal %s: %w", envelope.Type, err))
			continue
		}
		_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:    sdkaws.String(p.queueURL),
			MessageBody: sdkaws.String(string(body)),
			MessageAttributes: map[string]sqstypes.MessageAttributeValue{
				"event_type": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(envelope.Type)},
				"order_id":   {DataType: sdkaws.String("String"), StringValue: sdkaws.String(envelope.OrderID)},
				"account_id": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(envelope.AccountID)},
			},
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("send %s for order %s: %w", envelope.Type, envelope.OrderID, err))
		}
	}
	return errors.Join(errs...)
}
