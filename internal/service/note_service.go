package service

import (
	"context"
	"time"

	"cloudnotes-be/internal/dto"
	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/mapper"
	"cloudnotes-be/internal/pkg/logger"
	"cloudnotes-be/internal/repository/contract"
	"cloudnotes-be/pkg/events"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId string, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, userId string, noteId string) (*dto.NoteResponse, error)
	List(ctx context.Context, userId string) (*dto.ListNotesResponse, error)
	Update(ctx context.Context, userId string, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId string, noteId string) error
}

type noteService struct {
	repo             contract.NoteRepository
	publisherService IPublisherService
	mapper           *mapper.NoteMapper
	logger           logger.ILogger
	now              func() time.Time
	newId            func() (uuid.UUID, error)
}

func NewNoteService(
	repo contract.NoteRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		repo:             repo,
		publisherService: publisherService,
		mapper:           mapper.NewNoteMapper(),
		logger:           log,
		now:              time.Now,
		// v7 ids sort by creation time, which is what List orders by.
		newId: uuid.NewV7,
	}
}

func (s *noteService) Create(ctx context.Context, userId string, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	id, err := s.newId()
	if err != nil {
		return nil, err
	}

	now := entity.Timestamp(s.now())
	note := &entity.Note{
		UserId:      userId,
		NoteId:      id.String(),
		Title:       req.Title,
		Content:     req.Content,
		Attachments: entity.CloneAttachments(req.Attachments),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.repo.Insert(ctx, note)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewNoteEvent(events.NoteCreated, userId, stored.NoteId, stored.Title, now))

	return s.mapper.ToResponse(stored), nil
}

func (s *noteService) Show(ctx context.Context, userId string, noteId string) (*dto.NoteResponse, error) {
	note, err := s.repo.Get(ctx, userId, noteId)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToResponse(note), nil
}

func (s *noteService) List(ctx context.Context, userId string) (*dto.ListNotesResponse, error) {
	notes, err := s.repo.List(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.ListNotesResponse{Items: s.mapper.ToResponses(notes)}, nil
}

func (s *noteService) Update(ctx context.Context, userId string, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	if !req.HasFields() {
		return nil, contract.ErrEmptyUpdate()
	}

	now := entity.Timestamp(s.now())
	updated, err := s.repo.Update(ctx, userId, req.Id, s.mapper.ToFields(req), now)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewNoteEvent(events.NoteUpdated, userId, updated.NoteId, updated.Title, now))

	return s.mapper.ToResponse(updated), nil
}

func (s *noteService) Delete(ctx context.Context, userId string, noteId string) error {
	if err := s.repo.Delete(ctx, userId, noteId); err != nil {
		return err
	}

	s.publish(ctx, events.NewNoteEvent(events.NoteDeleted, userId, noteId, "", s.now()))
	return nil
}

// publish is best effort; the request outcome never depends on it.
func (s *noteService) publish(ctx context.Context, evt events.Event) {
	if s.publisherService == nil {
		return
	}
	if err := s.publisherService.Publish(ctx, evt); err != nil {
		s.logger.Warn("NOTE", "Failed to publish note event", map[string]interface{}{
			"Type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
