package dynamo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/pkg/apperror"
	"cloudnotes-be/internal/repository/contract"
	"cloudnotes-be/internal/repository/repositorytest"
	"cloudnotes-be/pkg/database"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	put    *dynamodb.PutItemInput
	get    *dynamodb.GetItemInput
	query  []*dynamodb.QueryInput
	update *dynamodb.UpdateItemInput
	del    *dynamodb.DeleteItemInput

	err       error
	getItem   map[string]types.AttributeValue
	pages     []*dynamodb.QueryOutput
	updateOut map[string]types.AttributeValue
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.put = in
	return &dynamodb.PutItemOutput{}, f.err
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.get = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.query = append(f.query, in)
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.update = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.UpdateItemOutput{Attributes: f.updateOut}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.del = in
	return &dynamodb.DeleteItemOutput{}, f.err
}

func sampleNote() *entity.Note {
	ts := time.Date(2024, 5, 1, 10, 30, 0, 123_000_000, time.UTC)
	return &entity.Note{
		UserId:      "user-1",
		NoteId:      "note-1",
		Title:       "T",
		Content:     "C",
		Attachments: []any{"user-1/1_a.png"},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func marshalSample(t *testing.T, n *entity.Note) map[string]types.AttributeValue {
	item, err := attributevalue.MarshalMap(noteItem{
		UserId:      n.UserId,
		NoteId:      n.NoteId,
		Title:       n.Title,
		Content:     n.Content,
		Attachments: n.Attachments,
		CreatedAt:   formatTime(n.CreatedAt),
		UpdatedAt:   formatTime(n.UpdatedAt),
	})
	require.NoError(t, err)
	return item
}

func TestInsertIsConditional(t *testing.T) {
	api := &fakeAPI{}
	repo := NewNoteRepository(api, "notes")

	stored, err := repo.Insert(context.Background(), sampleNote())
	require.NoError(t, err)
	assert.Equal(t, sampleNote(), stored)

	require.NotNil(t, api.put)
	assert.Equal(t, "notes", aws.ToString(api.put.TableName))
	assert.Equal(t, "attribute_not_exists(userId) AND attribute_not_exists(noteId)", aws.ToString(api.put.ConditionExpression))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2024-05-01T10:30:00.123Z"}, api.put.Item["createdAt"])
}

func TestInsertConditionFailureIsConflict(t *testing.T) {
	api := &fakeAPI{err: &types.ConditionalCheckFailedException{Message: aws.String("exists")}}
	repo := NewNoteRepository(api, "notes")

	_, err := repo.Insert(context.Background(), sampleNote())
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestGetScopesKeyToOwner(t *testing.T) {
	n := sampleNote()
	api := &fakeAPI{getItem: marshalSample(t, n)}
	repo := NewNoteRepository(api, "notes")

	got, err := repo.Get(context.Background(), "user-1", "note-1")
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "user-1"}, api.get.Key["userId"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "note-1"}, api.get.Key["noteId"])
}

func TestGetMissingIsNotFound(t *testing.T) {
	repo := NewNoteRepository(&fakeAPI{}, "notes")

	_, err := repo.Get(context.Background(), "user-1", "nope")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListFollowsPagesDescending(t *testing.T) {
	first, second := sampleNote(), sampleNote()
	second.NoteId = "note-0"
	api := &fakeAPI{pages: []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{marshalSample(t, first)},
			LastEvaluatedKey: map[string]types.AttributeValue{"userId": &types.AttributeValueMemberS{Value: "user-1"}},
		},
		{Items: []map[string]types.AttributeValue{marshalSample(t, second)}},
	}}
	repo := NewNoteRepository(api, "notes")

	notes, err := repo.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "note-1", notes[0].NoteId)
	assert.Equal(t, "note-0", notes[1].NoteId)

	require.Len(t, api.query, 2)
	assert.False(t, aws.ToBool(api.query[0].ScanIndexForward))
	assert.Equal(t, "userId = :uid", aws.ToString(api.query[0].KeyConditionExpression))
	assert.NotNil(t, api.query[1].ExclusiveStartKey)
}

func TestBuildUpdate(t *testing.T) {
	title := "T2"
	attachments := []any{"a"}
	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	expr, names, values, err := buildUpdate(entity.NoteFields{Title: &title, Attachments: &attachments}, now)
	require.NoError(t, err)

	assert.Equal(t, "SET #k0 = :v0, #k1 = :v1, updatedAt = :updatedAt", expr)
	assert.Equal(t, map[string]string{"#k0": "title", "#k1": "attachments"}, names)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "T2"}, values[":v0"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2024-05-02T00:00:00.000Z"}, values[":updatedAt"])
	assert.Len(t, values, 3)
}

func TestUpdateRequiresExistingItem(t *testing.T) {
	n := sampleNote()
	api := &fakeAPI{updateOut: marshalSample(t, n)}
	repo := NewNoteRepository(api, "notes")

	content := "C"
	got, err := repo.Update(context.Background(), "user-1", "note-1", entity.NoteFields{Content: &content}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Equal(t, "attribute_exists(noteId)", aws.ToString(api.update.ConditionExpression))
	assert.Equal(t, types.ReturnValueAllNew, api.update.ReturnValues)
}

func TestUpdateConditionFailureIsNotFound(t *testing.T) {
	api := &fakeAPI{err: &types.ConditionalCheckFailedException{}}
	repo := NewNoteRepository(api, "notes")

	title := "x"
	_, err := repo.Update(context.Background(), "user-1", "nope", entity.NoteFields{Title: &title}, time.Now())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdateEmptyNeverCallsDynamo(t *testing.T) {
	api := &fakeAPI{}
	repo := NewNoteRepository(api, "notes")

	_, err := repo.Update(context.Background(), "user-1", "note-1", entity.NoteFields{}, time.Now())
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	assert.Nil(t, api.update)
}

func TestServiceErrorsAreInternal(t *testing.T) {
	api := &fakeAPI{err: errors.New("throttled")}
	repo := NewNoteRepository(api, "notes")

	err := repo.Delete(context.Background(), "user-1", "note-1")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.ErrorContains(t, err, "throttled")
}

// TestNoteRepositoryContract runs against DynamoDB Local when DYNAMODB_ENDPOINT is set.
func TestNoteRepositoryContract(t *testing.T) {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping DynamoDB contract test: DYNAMODB_ENDPOINT not set")
	}

	ctx := context.Background()
	client, err := database.NewDynamoDBClient(ctx, database.DynamoDBConfig{
		Region:    "us-east-1",
		Endpoint:  endpoint,
		AccessKey: "local",
		SecretKey: "local",
	})
	require.NoError(t, err)

	table := "notes_contract_test"
	_, err = EnsureTable(ctx, client, table, time.Minute)
	require.NoError(t, err)

	repositorytest.Run(t, func(t *testing.T) contract.NoteRepository {
		return NewNoteRepository(client, table)
	})
}
