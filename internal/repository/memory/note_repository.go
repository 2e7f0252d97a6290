package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// NoteRepository keeps notes in process memory. Add/Replace give it the same
// conditional-write semantics as the real stores.
type NoteRepository struct {
	cache *cache.Cache
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

// ownerPrefix length-prefixes the owner so no subject can forge another owner's prefix.
func ownerPrefix(userId string) string {
	return fmt.Sprintf("%d:%s:", len(userId), userId)
}

func noteKey(userId, noteId string) string {
	return ownerPrefix(userId) + noteId
}

func clone(n *entity.Note) *entity.Note {
	c := *n
	c.Attachments = entity.CloneAttachments(n.Attachments)
	return &c
}

func (r *NoteRepository) Insert(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	stored := clone(note)
	if err := r.cache.Add(noteKey(note.UserId, note.NoteId), stored, cache.NoExpiration); err != nil {
		return nil, contract.ErrNoteExists(err)
	}
	return clone(stored), nil
}

func (r *NoteRepository) Get(ctx context.Context, userId, noteId string) (*entity.Note, error) {
	x, found := r.cache.Get(noteKey(userId, noteId))
	if !found {
		return nil, contract.ErrNoteNotFound()
	}
	return clone(x.(*entity.Note)), nil
}

func (r *NoteRepository) List(ctx context.Context, userId string) ([]*entity.Note, error) {
	prefix := ownerPrefix(userId)
	notes := make([]*entity.Note, 0)
	for key, item := range r.cache.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if note := item.Object.(*entity.Note); note.UserId == userId {
			notes = append(notes, clone(note))
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].NoteId > notes[j].NoteId
	})
	return notes, nil
}

// Update is read-merge-replace. Replace fails if the key vanished in between,
// so a concurrent delete is never undone; concurrent updates are last-writer-wins.
func (r *NoteRepository) Update(ctx context.Context, userId, noteId string, fields entity.NoteFields, now time.Time) (*entity.Note, error) {
	if fields.IsEmpty() {
		return nil, contract.ErrEmptyUpdate()
	}

	key := noteKey(userId, noteId)
	x, found := r.cache.Get(key)
	if !found {
		return nil, contract.ErrNoteNotFound()
	}

	merged := clone(x.(*entity.Note))
	fields.Apply(merged, now)

	if err := r.cache.Replace(key, merged, cache.NoExpiration); err != nil {
		return nil, contract.ErrNoteNotFound()
	}
	return clone(merged), nil
}

func (r *NoteRepository) Delete(ctx context.Context, userId, noteId string) error {
	r.cache.Delete(noteKey(userId, noteId))
	return nil
}
