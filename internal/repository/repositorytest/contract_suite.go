// Package repositorytest holds the behavioural suite every NoteRepository backend must pass.
package repositorytest

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/pkg/apperror"
	"cloudnotes-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a repository over an empty store.
type Factory func(t *testing.T) contract.NoteRepository

func NewNote(userId string, title string) *entity.Note {
	now := entity.Timestamp(time.Now())
	return &entity.Note{
		UserId:      userId,
		NoteId:      uuid.Must(uuid.NewV7()).String(),
		Title:       title,
		Attachments: []any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// owner returns a user id unique to this run so shared backends stay isolated.
func owner(name string) string {
	return fmt.Sprintf("%s-%s", name, uuid.NewString())
}

func Run(t *testing.T, factory Factory) {
	t.Run("insert then get round trips", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("me")

		in := NewNote(me, "T")
		in.Content = "body"
		in.Attachments = []any{me + "/1_a.png", map[string]any{"k": "v"}}

		stored, err := repo.Insert(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, in, stored)

		got, err := repo.Get(ctx, me, in.NoteId)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("insert defaults survive", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("me")

		in := NewNote(me, "T")
		_, err := repo.Insert(ctx, in)
		require.NoError(t, err)

		got, err := repo.Get(ctx, me, in.NoteId)
		require.NoError(t, err)
		assert.Equal(t, "", got.Content)
		assert.Equal(t, []any{}, got.Attachments)
	})

	t.Run("duplicate insert conflicts", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("me")

		first := NewNote(me, "first")
		_, err := repo.Insert(ctx, first)
		require.NoError(t, err)

		second := *first
		second.Title = "second"
		_, err = repo.Insert(ctx, &second)
		require.Error(t, err)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

		got, err := repo.Get(ctx, me, first.NoteId)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Title)
	})

	t.Run("same note id under another owner is a different key", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		a, b := owner("a"), owner("b")

		na := NewNote(a, "A")
		nb := *na
		nb.UserId = b
		nb.Title = "B"

		_, err := repo.Insert(ctx, na)
		require.NoError(t, err)
		_, err = repo.Insert(ctx, &nb)
		require.NoError(t, err)

		got, err := repo.Get(ctx, a, na.NoteId)
		require.NoError(t, err)
		assert.Equal(t, "A", got.Title)
	})

	t.Run("owners sharing a prefix stay apart", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("x")

		mine := NewNote(me, "mine")
		_, err := repo.Insert(ctx, mine)
		require.NoError(t, err)

		for _, suffix := range []string{"\x00y", ":y", "/y", "\x00"} {
			// Some stores refuse NUL in text columns. Refusing is fine, leaking is not.
			if _, err := repo.Insert(ctx, NewNote(me+suffix, "injected")); err != nil {
				t.Logf("store refused owner %q: %v", me+suffix, err)
			}
		}

		notes, err := repo.List(ctx, me)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, mine.NoteId, notes[0].NoteId)
		assert.Equal(t, me, notes[0].UserId)
	})

	t.Run("get missing is not found", func(t *testing.T) {
		repo := factory(t)
		_, err := repo.Get(context.Background(), owner("me"), uuid.NewString())
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("list is newest first by note id", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("me")

		var ids []string
		for _, title := range []string{"N1", "N2", "N3"} {
			n := NewNote(me, title)
			_, err := repo.Insert(ctx, n)
			require.NoError(t, err)
			ids = append(ids, n.NoteId)
		}
		_, err := repo.Insert(ctx, NewNote(owner("other"), "foreign"))
		require.NoError(t, err)

		notes, err := repo.List(ctx, me)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, []string{"N3", "N2", "N1"}, titles(notes))
		assert.Equal(t, ids[2], notes[0].NoteId)
	})

	t.Run("list of empty partition is empty", func(t *testing.T) {
		repo := factory(t)
		notes, err := repo.List(context.Background(), owner("nobody"))
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("update merges present fields only", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("me")

		in := NewNote(me, "T")
		in.Content = "keep me"
		_, err := repo.Insert(ctx, in)
		require.NoError(t, err)

		title := "T2"
		attachments := []any{me + "/2_b.pdf"}
		later := entity.Timestamp(in.UpdatedAt.Add(time.Minute))
		updated, err := repo.Update(ctx, me, in.NoteId, entity.NoteFields{Title: &title, Attachments: &attachments}, later)
		require.NoError(t, err)

		assert.Equal(t, "T2", updated.Title)
		assert.Equal(t, "keep me", updated.Content)
		assert.Equal(t, attachments, updated.Attachments)
		assert.Equal(t, in.CreatedAt, updated.CreatedAt)
		assert.Equal(t, later, updated.UpdatedAt)

		got, err := repo.Get(ctx, me, in.NoteId)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("update with no fields is bad request", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("me")

		in := NewNote(me, "T")
		_, err := repo.Insert(ctx, in)
		require.NoError(t, err)

		_, err = repo.Update(ctx, me, in.NoteId, entity.NoteFields{}, time.Now())
		assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	})

	t.Run("update of missing key is not found and creates nothing", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("me")

		title := "ghost"
		_, err := repo.Update(ctx, me, uuid.NewString(), entity.NoteFields{Title: &title}, entity.Timestamp(time.Now()))
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

		notes, err := repo.List(ctx, me)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		me := owner("me")

		in := NewNote(me, "T")
		_, err := repo.Insert(ctx, in)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, me, in.NoteId))
		require.NoError(t, repo.Delete(ctx, me, in.NoteId))

		_, err = repo.Get(ctx, me, in.NoteId)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("cross tenant isolation", func(t *testing.T) {
		RunIsolation(t, factory(t), 50)
	})
}

// RunIsolation interleaves random operations by two owners and checks that
// neither can observe or change the other's notes.
func RunIsolation(t *testing.T, repo contract.NoteRepository, rounds int) {
	ctx := context.Background()
	a, b := owner("a"), owner("b")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	owned := map[string][]string{a: nil, b: nil}
	for i := 0; i < rounds; i++ {
		user, other := a, b
		if rng.Intn(2) == 0 {
			user, other = b, a
		}

		n := NewNote(other, fmt.Sprintf("%s-%d", other, i))
		_, err := repo.Insert(ctx, n)
		require.NoError(t, err)
		owned[other] = append(owned[other], n.NoteId)

		victim := owned[other][rng.Intn(len(owned[other]))]

		_, err = repo.Get(ctx, user, victim)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err), "get leaked across owners")

		title := "hijacked"
		_, err = repo.Update(ctx, user, victim, entity.NoteFields{Title: &title}, time.Now())
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err), "update crossed owners")

		require.NoError(t, repo.Delete(ctx, user, victim))

		still, err := repo.Get(ctx, other, victim)
		require.NoError(t, err, "delete crossed owners")
		assert.NotEqual(t, "hijacked", still.Title)
	}

	for user, ids := range owned {
		notes, err := repo.List(ctx, user)
		require.NoError(t, err)

		want := make([]string, len(ids))
		copy(want, ids)
		sort.Sort(sort.Reverse(sort.StringSlice(want)))
		got := make([]string, len(notes))
		for i, n := range notes {
			got[i] = n.NoteId
			assert.Equal(t, user, n.UserId)
		}
		assert.Equal(t, want, got)
	}
}

func titles(notes []*entity.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}
