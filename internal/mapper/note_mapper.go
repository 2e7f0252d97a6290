package mapper

import (
	"encoding/json"
	"fmt"

	"cloudnotes-be/internal/dto"
	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/model"

	"gorm.io/datatypes"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) (*entity.Note, error) {
	if n == nil {
		return nil, nil
	}

	attachments := []any{}
	if len(n.Attachments) > 0 {
		if err := json.Unmarshal(n.Attachments, &attachments); err != nil {
			return nil, fmt.Errorf("decode attachments of note %s: %w", n.NoteId, err)
		}
	}

	return &entity.Note{
		UserId:      n.UserId,
		NoteId:      n.NoteId,
		Title:       n.Title,
		Content:     n.Content,
		Attachments: attachments,
		CreatedAt:   entity.Timestamp(n.CreatedAt),
		UpdatedAt:   entity.Timestamp(n.UpdatedAt),
	}, nil
}

func (m *NoteMapper) ToModel(n *entity.Note) (*model.Note, error) {
	if n == nil {
		return nil, nil
	}

	attachments, err := m.EncodeAttachments(n.Attachments)
	if err != nil {
		return nil, err
	}

	return &model.Note{
		UserId:      n.UserId,
		NoteId:      n.NoteId,
		Title:       n.Title,
		Content:     n.Content,
		Attachments: attachments,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}, nil
}

func (m *NoteMapper) EncodeAttachments(attachments []any) (datatypes.JSON, error) {
	if attachments == nil {
		attachments = []any{}
	}
	raw, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func (m *NoteMapper) ToEntities(notes []*model.Note) ([]*entity.Note, error) {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		e, err := m.ToEntity(n)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func (m *NoteMapper) ToResponse(n *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		UserId:      n.UserId,
		NoteId:      n.NoteId,
		Title:       n.Title,
		Content:     n.Content,
		Attachments: entity.CloneAttachments(n.Attachments),
		CreatedAt:   dto.FormatTimestamp(n.CreatedAt),
		UpdatedAt:   dto.FormatTimestamp(n.UpdatedAt),
	}
}

func (m *NoteMapper) ToResponses(notes []*entity.Note) []*dto.NoteResponse {
	responses := make([]*dto.NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = m.ToResponse(n)
	}
	return responses
}

func (m *NoteMapper) ToFields(req *dto.UpdateNoteRequest) entity.NoteFields {
	return entity.NoteFields{
		Title:       req.Title,
		Content:     req.Content,
		Attachments: req.Attachments,
	}
}
