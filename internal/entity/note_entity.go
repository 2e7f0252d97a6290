package entity

import "time"

// Note is keyed by (UserId, NoteId). Both halves are immutable once stored.
type Note struct {
	UserId      string
	NoteId      string
	Title       string
	Content     string
	Attachments []any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoteFields is a partial update. A nil field is left untouched.
type NoteFields struct {
	Title       *string
	Content     *string
	Attachments *[]any
}

func (f NoteFields) IsEmpty() bool {
	return f.Title == nil && f.Content == nil && f.Attachments == nil
}

// Apply merges the present fields into n and stamps UpdatedAt.
func (f NoteFields) Apply(n *Note, now time.Time) {
	if f.Title != nil {
		n.Title = *f.Title
	}
	if f.Content != nil {
		n.Content = *f.Content
	}
	if f.Attachments != nil {
		n.Attachments = CloneAttachments(*f.Attachments)
	}
	n.UpdatedAt = now
}

// CloneAttachments copies the slice header so stored notes never alias caller memory.
// A nil input becomes an empty, non-nil slice.
func CloneAttachments(in []any) []any {
	out := make([]any, len(in))
	copy(out, in)
	return out
}

// Timestamp truncates to the millisecond precision every backend can round-trip.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
