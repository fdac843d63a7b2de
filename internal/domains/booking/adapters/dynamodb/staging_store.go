package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/shopspring/decimal"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	platformaws "github.com/Apurer/petcare-booking/internal/platform/aws"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// DefaultTTL is how long an untouched booking session survives.
const DefaultTTL = 24 * time.Hour

const keyAttribute = "session_id"

var _ ports.StagingStore = (*StagingStore)(nil)

// StagingStore keeps one DynamoDB item per booking session. The table's TTL
// attribute is expires_at; Load also ignores items DynamoDB has not reaped yet.
type StagingStore struct {
	client    platformaws.DynamoDBAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

func NewStagingStore(client platformaws.DynamoDBAPI, tableName string, ttl time.Duration) *StagingStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StagingStore{client: client, tableName: tableName, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source, primarily for tests.
func (s *StagingStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

type lineItemRecord struct {
	ProductID    string `dynamodbav:"product_id"`
	Name         string `dynamodbav:"name,omitempty"`
	SellingPrice string `dynamodbav:"selling_price"`
	Quantity     int    `dynamodbav:"quantity"`
}

type selectionRecord struct {
	Kind        string           `dynamodbav:"kind"`
	Items       []lineItemRecord `dynamodbav:"items"`
	FinalAmount string           `dynamodbav:"final_amount"`
}

type draftRecord struct {
	Date           string `dynamodbav:"date,omitempty"`
	Time           string `dynamodbav:"time,omitempty"`
	StaffMode      string `dynamodbav:"staff_mode,omitempty"`
	StaffID        string `dynamodbav:"staff_id,omitempty"`
	Note           string `dynamodbav:"note,omitempty"`
	Description    string `dynamodbav:"description,omitempty"`
	PendingOrderID string `dynamodbav:"pending_order_id,omitempty"`
}

type stagingRecord struct {
	SessionID        string           `dynamodbav:"session_id"`
	AccountID        string           `dynamodbav:"account_id"`
	CurrentSelection *selectionRecord `dynamodbav:"current_selection,omitempty"`
	BookingDraft     *draftRecord     `dynamodbav:"booking_draft,omitempty"`
	FinalAmount      string           `dynamodbav:"final_amount"`
	PendingPetID     string           `dynamodbav:"pending_pet_id,omitempty"`
	UpdatedAt        time.Time        `dynamodbav:"updated_at"`
	ExpiresAt        int64            `dynamodbav:"expires_at"`
}

func (s *StagingStore) Load(ctx context.Context, sessionID string) (*domain.Staging, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            sessionKey(sessionID),
		ConsistentRead: sdkaws.Bool(true),
	})
	if err != nil {
		return nil, classify("get booking session", err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: booking session %s", apperr.ErrNotFound, sessionID)
	}
	var record stagingRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal booking session: %w", err)
	}
	if record.ExpiresAt > 0 && !s.now().Before(time.Unix(record.ExpiresAt, 0)) {
		return nil, fmt.Errorf("%w: booking session %s expired", apperr.ErrNotFound, sessionID)
	}
	return toDomain(record)
}

func (s *StagingStore) Save(ctx context.Context, staging *domain.Staging) error {
	if staging == nil || staging.SessionID == "" {
		return errors.New("booking session id is required")
	}
	record := toRecord(staging)
	record.ExpiresAt = s.now().Add(s.ttl).Unix()
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal booking session: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item})
	if err != nil {
		return classify("put booking session", err)
	}
	return nil
}

func (s *StagingStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{TableName: &s.tableName, Key: sessionKey(sessionID)})
	if err != nil {
		return classify("delete booking session", err)
	}
	return nil
}

func sessionKey(sessionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttribute: &types.AttributeValueMemberS{Value: sessionID},
	}
}

// classify marks throttling and server faults as transient remote failures.
func classify(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded", "InternalServerError":
			return apperr.Remote("dynamodb "+op, err)
		case "ResourceNotFoundException":
			return fmt.Errorf("%s: table missing: %w", op, err)
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return apperr.Remote("dynamodb "+op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toRecord(staging *domain.Staging) stagingRecord {
	record := stagingRecord{
		SessionID:    staging.SessionID,
		AccountID:    staging.AccountID,
		FinalAmount:  staging.FinalAmount.String(),
		PendingPetID: staging.PendingPetID,
		UpdatedAt:    staging.UpdatedAt.UTC(),
	}
	if sel := staging.CurrentSelection; sel != nil {
		items := make([]lineItemRecord, 0, len(sel.Items))
		for _, item := range sel.Items {
			items = append(items, lineItemRecord{
				ProductID:    item.ProductID,
				Name:         item.Name,
				SellingPrice: item.SellingPrice.String(),
				Quantity:     item.Quantity,
			})
		}
		record.CurrentSelection = &selectionRecord{Kind: string(sel.Kind), Items: items, FinalAmount: sel.FinalAmount.String()}
	}
	if draft := staging.BookingDraft; draft != nil {
		record.BookingDraft = &draftRecord{
			Date:           draft.Date,
			Time:           draft.Time,
			StaffMode:      string(draft.StaffMode),
			StaffID:        draft.StaffID,
			Note:           draft.Note,
			Description:    draft.Description,
			PendingOrderID: draft.PendingOrderID,
		}
	}
	return record
}

func toDomain(record stagingRecord) (*domain.Staging, error) {
	finalAmount, err := parseAmount(record.FinalAmount)
	if err != nil {
		return nil, err
	}
	staging := &domain.Staging{
		SessionID:    record.SessionID,
		AccountID:    record.AccountID,
		FinalAmount:  finalAmount,
		PendingPetID: record.PendingPetID,
		UpdatedAt:    record.UpdatedAt,
	}
	if sel := record.CurrentSelection; sel != nil {
		items := make([]domain.LineItem, 0, len(sel.Items))
		for _, item := range sel.Items {
			price, err := parseAmount(item.SellingPrice)
			if err != nil {
				return nil, err
			}
			items = append(items, domain.LineItem{ProductID: item.ProductID, Name: item.Name, SellingPrice: price, Quantity: item.Quantity})
		}
		total, err := parseAmount(sel.FinalAmount)
		if err != nil {
			return nil, err
		}
		staging.CurrentSelection = &domain.Selection{Kind: domain.SelectionKind(sel.Kind), Items: items, FinalAmount: total}
	}
	if draft := record.BookingDraft; draft != nil {
		staging.BookingDraft = &domain.Draft{
			Date:           draft.Date,
			Time:           draft.Time,
			StaffMode:      domain.StaffMode(draft.StaffMode),
			StaffID:        draft.StaffID,
			Note:           draft.Note,
			Description:    draft.Description,
			PendingOrderID: draft.PendingOrderID,
		}
	}
	return staging, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored amount %q: %w", raw, err)
	}
	return amount, nil
}
