package contract

import (
	"context"
	"time"

	"cloudnotes-be/internal/entity"
)

// NoteRepository is the note store gateway. Every method is scoped to userId and
// must never read or write another user's notes.
//
// Errors use internal/pkg/apperror kinds: Insert returns Conflict when the key
// exists, Get and Update return NotFound when it does not, Update returns
// BadRequest for an empty field set. Delete of a missing key succeeds.
type NoteRepository interface {
	Insert(ctx context.Context, note *entity.Note) (*entity.Note, error)
	Get(ctx context.Context, userId, noteId string) (*entity.Note, error)
	// List returns every note of userId ordered by noteId descending, unpaginated.
	List(ctx context.Context, userId string) ([]*entity.Note, error)
	Update(ctx context.Context, userId, noteId string, fields entity.NoteFields, now time.Time) (*entity.Note, error)
	Delete(ctx context.Context, userId, noteId string) error
}
