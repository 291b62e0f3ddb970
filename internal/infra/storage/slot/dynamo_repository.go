package slot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// dynamoItem формат элемента таблицы слотов; ключ партиции id
type dynamoItem struct {
	ID            string         `dynamodbav:"id"`
	Date          string         `dynamodbav:"date"`
	Time          string         `dynamodbav:"time"`
	Duration      dynamoDuration `dynamodbav:"duration"`
	Status        string         `dynamodbav:"status"`
	Booking       *bookingItem   `dynamodbav:"booking,omitempty"`
	ApprovalToken string         `dynamodbav:"approvalToken,omitempty"`
	CreatedAt     string         `dynamodbav:"createdAt,omitempty"`
	SchemaVersion int            `dynamodbav:"schemaVersion,omitempty"`
}

type bookingItem struct {
	Name              string  `dynamodbav:"name"`
	Email             string  `dynamodbav:"email"`
	Phone             string  `dynamodbav:"phone"`
	Message           *string `dynamodbav:"message,omitempty"`
	ContactPreference *string `dynamodbav:"contactPreference,omitempty"`
	ContactType       *string `dynamodbav:"contactType,omitempty"`
	RequestedAt       string  `dynamodbav:"requestedAt,omitempty"`
}

// dynamoDuration читает длительность, сохраненную как N или как S
type dynamoDuration int

func (d dynamoDuration) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: strconv.Itoa(int(d))}, nil
}

func (d *dynamoDuration) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = strings.TrimSpace(v.Value)
	case *types.AttributeValueMemberNULL:
		*d = 0
		return nil
	default:
		return fmt.Errorf("unsupported duration attribute %T", av)
	}
	if raw == "" {
		*d = 0
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("duration %q is not a number", raw)
	}
	*d = dynamoDuration(int(n))
	return nil
}

// DynamoRepository хранит слоты в таблице DynamoDB
type DynamoRepository struct {
	client    DynamoAPI
	tableName string
	logger    Logger
}

// NewDynamoRepository создает репозиторий слотов поверх DynamoDB
func NewDynamoRepository(client DynamoAPI, tableName string, logger Logger) *DynamoRepository {
	return &DynamoRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func (r *DynamoRepository) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// Get возвращает слот по ID
func (r *DynamoRepository) Get(ctx context.Context, id string) (*domain.Slot, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Get - id=%s: %v", ErrExecQuery, id, err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: id=%s", ErrSlotNotFound, id)
	}
	return decodeItem(out.Item)
}

// Put полностью перезаписывает слот
func (r *DynamoRepository) Put(ctx context.Context, s *domain.Slot) error {
	item, err := encodeItem(s)
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("%w: Put - id=%s: %v", ErrExecQuery, s.ID, err)
	}
	return nil
}

// PutIf перезаписывает слот с ConditionExpression на текущий статус (и токен).
// Для условия "open" учитываются старые записи со статусом declined или без статуса.
func (r *DynamoRepository) PutIf(ctx context.Context, s *domain.Slot, cond domain.SlotCondition) error {
	item, err := encodeItem(s)
	if err != nil {
		return err
	}

	expr := "attribute_exists(id) AND #status = :expected"
	values := map[string]types.AttributeValue{
		":expected": &types.AttributeValueMemberS{Value: string(cond.Status)},
	}
	if cond.Status == domain.SlotStatusOpen {
		expr = "attribute_exists(id) AND (#status = :expected OR #status = :legacy OR attribute_not_exists(#status))"
		values[":legacy"] = &types.AttributeValueMemberS{Value: string(domain.SlotStatusDeclined)}
	}
	if cond.ApprovalToken != "" {
		expr += " AND approvalToken = :token"
		values[":token"] = &types.AttributeValueMemberS{Value: cond.ApprovalToken}
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                           aws.String(r.tableName),
		Item:                                item,
		ConditionExpression:                 aws.String(expr),
		ExpressionAttributeNames:            map[string]string{"#status": "status"},
		ExpressionAttributeValues:           values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return nil
	}

	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		if len(ccf.Item) == 0 {
			return fmt.Errorf("%w: id=%s", ErrSlotNotFound, s.ID)
		}
		status := "unknown"
		if current, derr := decodeItem(ccf.Item); derr == nil {
			status = string(current.Status)
		}
		return fmt.Errorf("%w: id=%s, status=%s", ErrConflict, s.ID, status)
	}
	return fmt.Errorf("%w: PutIf - id=%s: %v", ErrExecQuery, s.ID, err)
}

// Delete удаляет слот. Отсутствие элемента не является ошибкой
func (r *DynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(id),
	})
	if err != nil {
		return fmt.Errorf("%w: Delete - id=%s: %v", ErrExecQuery, id, err)
	}
	return nil
}

// List постранично сканирует таблицу.
// Нечитаемые элементы пропускаются с предупреждением.
func (r *DynamoRepository) List(ctx context.Context) ([]*domain.Slot, error) {
	var (
		slots    []*domain.Slot
		startKey map[string]types.AttributeValue
	)

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
			ConsistentRead:    aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan: %v", ErrExecQuery, err)
		}

		for _, item := range out.Items {
			s, err := decodeItem(item)
			if err != nil {
				if r.logger != nil {
					r.logger.Warn("DynamoRepository.List: skip item: %v", err)
				}
				continue
			}
			slots = append(slots, s)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return slots, nil
}

// Ping проверяет доступность таблицы
func (r *DynamoRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return fmt.Errorf("%w: Ping: %v", ErrExecQuery, err)
	}
	return nil
}

func encodeItem(s *domain.Slot) (map[string]types.AttributeValue, error) {
	it := dynamoItem{
		ID:            s.ID,
		Date:          s.Date,
		Time:          s.Time,
		Duration:      dynamoDuration(s.Duration),
		Status:        string(s.Status),
		ApprovalToken: s.ApprovalToken,
		SchemaVersion: domain.SchemaVersion,
	}
	if !s.CreatedAt.IsZero() {
		it.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if rec := toBookingRecord(s.Booking); rec != nil {
		it.Booking = &bookingItem{
			Name:              rec.Name,
			Email:             rec.Email,
			Phone:             rec.Phone,
			Message:           rec.Message,
			ContactPreference: rec.ContactPreference,
			RequestedAt:       rec.RequestedAt,
		}
	}

	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return nil, fmt.Errorf("%w: slot id=%s: %v", ErrEncodeRecord, s.ID, err)
	}
	return item, nil
}

func decodeItem(item map[string]types.AttributeValue) (*domain.Slot, error) {
	var it dynamoItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeRecord, err)
	}
	if it.ID == "" {
		return nil, fmt.Errorf("%w: item has no id", ErrDecodeRecord)
	}

	s := &domain.Slot{
		ID:            it.ID,
		Date:          it.Date,
		Time:          it.Time,
		Duration:      int(it.Duration),
		Status:        domain.SlotStatus(strings.ToLower(strings.TrimSpace(it.Status))),
		ApprovalToken: it.ApprovalToken,
		CreatedAt:     parseTimestamp(it.CreatedAt),
	}
	if it.Booking != nil {
		rec := bookingRecord{
			Name:              it.Booking.Name,
			Email:             it.Booking.Email,
			Phone:             it.Booking.Phone,
			Message:           it.Booking.Message,
			ContactPreference: it.Booking.ContactPreference,
			ContactType:       it.Booking.ContactType,
			RequestedAt:       it.Booking.RequestedAt,
		}
		s.Booking = rec.toDomain()
	}

	s.Normalize()
	return s, nil
}
