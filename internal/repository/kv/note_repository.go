// Package kv stores notes in Redis: one hash per owner, one field per note.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notes:"

type record struct {
	UserId      string    `json:"userId"`
	NoteId      string    `json:"noteId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Attachments []any     `json:"attachments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toRecord(n *entity.Note) record {
	return record{
		UserId:      n.UserId,
		NoteId:      n.NoteId,
		Title:       n.Title,
		Content:     n.Content,
		Attachments: entity.CloneAttachments(n.Attachments),
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (r record) toEntity() *entity.Note {
	return &entity.Note{
		UserId:      r.UserId,
		NoteId:      r.NoteId,
		Title:       r.Title,
		Content:     r.Content,
		Attachments: entity.CloneAttachments(r.Attachments),
		CreatedAt:   entity.Timestamp(r.CreatedAt),
		UpdatedAt:   entity.Timestamp(r.UpdatedAt),
	}
}

type NoteRepository struct {
	rdb redis.UniversalClient
}

func NewNoteRepository(rdb redis.UniversalClient) *NoteRepository {
	return &NoteRepository{rdb: rdb}
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

func partitionKey(userId string) string {
	return keyPrefix + userId
}

func decode(raw string) (*entity.Note, error) {
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	return rec.toEntity(), nil
}

func (r *NoteRepository) Insert(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	raw, err := json.Marshal(toRecord(note))
	if err != nil {
		return nil, fmt.Errorf("encode note: %w", err)
	}

	created, err := r.rdb.HSetNX(ctx, partitionKey(note.UserId), note.NoteId, raw).Result()
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	if !created {
		return nil, contract.ErrNoteExists(nil)
	}
	return decode(string(raw))
}

func (r *NoteRepository) Get(ctx context.Context, userId, noteId string) (*entity.Note, error) {
	raw, err := r.rdb.HGet(ctx, partitionKey(userId), noteId).Result()
	if errors.Is(err, redis.Nil) {
		return nil, contract.ErrNoteNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return decode(raw)
}

func (r *NoteRepository) List(ctx context.Context, userId string) ([]*entity.Note, error) {
	all, err := r.rdb.HGetAll(ctx, partitionKey(userId)).Result()
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]*entity.Note, 0, len(all))
	for _, raw := range all {
		n, err := decode(raw)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].NoteId > notes[j].NoteId
	})
	return notes, nil
}

// Update watches the owner's hash so the write is dropped if the note is
// deleted between the read and the write. A lost race surfaces as an error;
// there are no retries.
func (r *NoteRepository) Update(ctx context.Context, userId, noteId string, fields entity.NoteFields, now time.Time) (*entity.Note, error) {
	if fields.IsEmpty() {
		return nil, contract.ErrEmptyUpdate()
	}

	key := partitionKey(userId)
	var merged *entity.Note

	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, noteId).Result()
		if errors.Is(err, redis.Nil) {
			return contract.ErrNoteNotFound()
		}
		if err != nil {
			return err
		}

		merged, err = decode(raw)
		if err != nil {
			return err
		}
		fields.Apply(merged, now)

		encoded, err := json.Marshal(toRecord(merged))
		if err != nil {
			return fmt.Errorf("encode note: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, noteId, encoded)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, fmt.Errorf("update note %s: concurrent modification: %w", noteId, err)
		}
		return nil, err
	}
	return merged, nil
}

func (r *NoteRepository) Delete(ctx context.Context, userId, noteId string) error {
	if err := r.rdb.HDel(ctx, partitionKey(userId), noteId).Err(); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
