// Package dynamo is the single-table DynamoDB gateway: partition key userId, sort key noteId.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/repository/contract"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	attrUserId = "userId"
	attrNoteId = "noteId"

	// isoLayout matches JavaScript's Date.toISOString and sorts lexically.
	isoLayout = "2006-01-02T15:04:05.000Z07:00"
)

// API is the subset of *dynamodb.Client the gateway uses.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type noteItem struct {
	UserId      string `dynamodbav:"userId"`
	NoteId      string `dynamodbav:"noteId"`
	Title       string `dynamodbav:"title"`
	Content     string `dynamodbav:"content"`
	Attachments []any  `dynamodbav:"attachments"`
	CreatedAt   string `dynamodbav:"createdAt"`
	UpdatedAt   string `dynamodbav:"updatedAt"`
}

func formatTime(t time.Time) string {
	return entity.Timestamp(t).Format(isoLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		// Items written by other tools may carry full RFC 3339 precision.
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return time.Time{}, err
	}
	return entity.Timestamp(t), nil
}

func (i noteItem) toEntity() (*entity.Note, error) {
	createdAt, err := parseTime(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse createdAt of note %s: %w", i.NoteId, err)
	}
	updatedAt, err := parseTime(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updatedAt of note %s: %w", i.NoteId, err)
	}
	return &entity.Note{
		UserId:      i.UserId,
		NoteId:      i.NoteId,
		Title:       i.Title,
		Content:     i.Content,
		Attachments: entity.CloneAttachments(i.Attachments),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

type NoteRepository struct {
	api       API
	tableName string
}

func NewNoteRepository(api API, tableName string) *NoteRepository {
	return &NoteRepository{api: api, tableName: tableName}
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

func (r *NoteRepository) key(userId, noteId string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrUserId: &types.AttributeValueMemberS{Value: userId},
		attrNoteId: &types.AttributeValueMemberS{Value: noteId},
	}
}

func unmarshalNote(item map[string]types.AttributeValue) (*entity.Note, error) {
	var ni noteItem
	if err := attributevalue.UnmarshalMap(item, &ni); err != nil {
		return nil, fmt.Errorf("unmarshal note item: %w", err)
	}
	return ni.toEntity()
}

func isConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (r *NoteRepository) Insert(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	item, err := attributevalue.MarshalMap(noteItem{
		UserId:      note.UserId,
		NoteId:      note.NoteId,
		Title:       note.Title,
		Content:     note.Content,
		Attachments: entity.CloneAttachments(note.Attachments),
		CreatedAt:   formatTime(note.CreatedAt),
		UpdatedAt:   formatTime(note.UpdatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal note item: %w", err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(userId) AND attribute_not_exists(noteId)"),
	})
	if err != nil {
		if isConditionFailure(err) {
			return nil, contract.ErrNoteExists(err)
		}
		return nil, fmt.Errorf("put note: %w", err)
	}
	return unmarshalNote(item)
}

func (r *NoteRepository) Get(ctx context.Context, userId, noteId string) (*entity.Note, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(userId, noteId),
	})
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, contract.ErrNoteNotFound()
	}
	return unmarshalNote(out.Item)
}

// List pages through the whole partition. There is deliberately no limit.
func (r *NoteRepository) List(ctx context.Context, userId string) ([]*entity.Note, error) {
	paginator := dynamodb.NewQueryPaginator(r.api, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("userId = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userId},
		},
		ScanIndexForward: aws.Bool(false),
	})

	notes := make([]*entity.Note, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query notes: %w", err)
		}
		for _, item := range page.Items {
			n, err := unmarshalNote(item)
			if err != nil {
				return nil, err
			}
			notes = append(notes, n)
		}
	}
	return notes, nil
}

// buildUpdate renders a SET expression for the present fields plus updatedAt.
func buildUpdate(fields entity.NoteFields, now time.Time) (string, map[string]string, map[string]types.AttributeValue, error) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":updatedAt": &types.AttributeValueMemberS{Value: formatTime(now)},
	}
	var sets []string

	add := func(field string, value any) error {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", field, err)
		}
		idx := len(sets)
		nameKey, valueKey := fmt.Sprintf("#k%d", idx), fmt.Sprintf(":v%d", idx)
		names[nameKey] = field
		values[valueKey] = av
		sets = append(sets, fmt.Sprintf("%s = %s", nameKey, valueKey))
		return nil
	}

	if fields.Title != nil {
		if err := add("title", *fields.Title); err != nil {
			return "", nil, nil, err
		}
	}
	if fields.Content != nil {
		if err := add("content", *fields.Content); err != nil {
			return "", nil, nil, err
		}
	}
	if fields.Attachments != nil {
		if err := add("attachments", entity.CloneAttachments(*fields.Attachments)); err != nil {
			return "", nil, nil, err
		}
	}
	sets = append(sets, "updatedAt = :updatedAt")

	return "SET " + strings.Join(sets, ", "), names, values, nil
}

func (r *NoteRepository) Update(ctx context.Context, userId, noteId string, fields entity.NoteFields, now time.Time) (*entity.Note, error) {
	if fields.IsEmpty() {
		return nil, contract.ErrEmptyUpdate()
	}

	expr, names, values, err := buildUpdate(fields, now)
	if err != nil {
		return nil, err
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       r.key(userId, noteId),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(noteId)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailure(err) {
			return nil, contract.ErrNoteNotFound()
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	return unmarshalNote(out.Attributes)
}

func (r *NoteRepository) Delete(ctx context.Context, userId, noteId string) error {
	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(userId, noteId),
	})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
