package dto

import "time"

// TimestampLayout renders UTC instants with millisecond precision, e.g. 2024-05-01T10:30:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type CreateNoteRequest struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content"`
	Attachments []any  `json:"attachments"`
}

// UpdateNoteRequest carries only the recognised fields the client actually sent.
type UpdateNoteRequest struct {
	Id          string
	Title       *string
	Content     *string
	Attachments *[]any
}

func (r *UpdateNoteRequest) HasFields() bool {
	return r.Title != nil || r.Content != nil || r.Attachments != nil
}

type NoteResponse struct {
	UserId      string `json:"userId"`
	NoteId      string `json:"noteId"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Attachments []any  `json:"attachments"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type ListNotesResponse struct {
	Items []*NoteResponse `json:"items"`
}

// ParseCreateNoteRequest keeps title and content only when they are JSON strings and
// attachments only when it is a JSON array; anything else falls back to the zero value.
func ParseCreateNoteRequest(body []byte) (*CreateNoteRequest, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	req := &CreateNoteRequest{Attachments: []any{}}
	if s, ok, err := stringField(obj, "title"); err != nil {
		return nil, err
	} else if ok {
		req.Title = s
	}
	if s, ok, err := stringField(obj, "content"); err != nil {
		return nil, err
	} else if ok {
		req.Content = s
	}
	if a, ok, err := arrayField(obj, "attachments"); err != nil {
		return nil, err
	} else if ok {
		req.Attachments = a
	}

	return req, nil
}

// ParseUpdateNoteRequest filters the body down to {title, content, attachments}.
// Unrecognised keys and wrongly typed values are dropped silently.
func ParseUpdateNoteRequest(id string, body []byte) (*UpdateNoteRequest, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	req := &UpdateNoteRequest{Id: id}
	if s, ok, err := stringField(obj, "title"); err != nil {
		return nil, err
	} else if ok {
		req.Title = &s
	}
	if s, ok, err := stringField(obj, "content"); err != nil {
		return nil, err
	} else if ok {
		req.Content = &s
	}
	if a, ok, err := arrayField(obj, "attachments"); err != nil {
		return nil, err
	} else if ok {
		req.Attachments = &a
	}

	return req, nil
}
