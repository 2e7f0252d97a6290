package specification

import (
	"gorm.io/gorm"
)

// NoteOwnedByUser scopes a query to one owner's partition. Every note query starts with it.
type NoteOwnedByUser struct {
	UserID string
}

func (s NoteOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.user_id = ?", s.UserID)
}

type ByNoteID struct {
	NoteID string
}

func (s ByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.note_id = ?", s.NoteID)
}

// NoteKey is the full composite key.
func NoteKey(userID, noteID string) []Specification {
	return []Specification{NoteOwnedByUser{UserID: userID}, ByNoteID{NoteID: noteID}}
}

// NewestNotesFirst orders by the sort key, not by the timestamp columns.
var NewestNotesFirst = OrderBy{Field: "notes.note_id", Desc: true}
