package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloudnotes-be/internal/entity"
	"cloudnotes-be/internal/mapper"
	"cloudnotes-be/internal/model"
	"cloudnotes-be/internal/repository/contract"
	"cloudnotes-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

// NewNoteRepository expects a *gorm.DB opened with TranslateError so duplicate
// keys surface as gorm.ErrDuplicatedKey.
func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Insert(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	m, err := r.mapper.ToModel(note)
	if err != nil {
		return nil, err
	}
	// A plain INSERT: the composite primary key makes the uniqueness check atomic.
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, contract.ErrNoteExists(err)
		}
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return r.mapper.ToEntity(m)
}

func (r *NoteRepositoryImpl) Get(ctx context.Context, userId, noteId string) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specification.NoteKey(userId, noteId)...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.ErrNoteNotFound()
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return r.mapper.ToEntity(&m)
}

func (r *NoteRepositoryImpl) List(ctx context.Context, userId string) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.NoteOwnedByUser{UserID: userId},
		specification.NewestNotesFirst,
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return r.mapper.ToEntities(models)
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, userId, noteId string, fields entity.NoteFields, now time.Time) (*entity.Note, error) {
	if fields.IsEmpty() {
		return nil, contract.ErrEmptyUpdate()
	}

	values := map[string]interface{}{"updated_at": now}
	if fields.Title != nil {
		values["title"] = *fields.Title
	}
	if fields.Content != nil {
		values["content"] = *fields.Content
	}
	if fields.Attachments != nil {
		attachments, err := r.mapper.EncodeAttachments(*fields.Attachments)
		if err != nil {
			return nil, err
		}
		values["attachments"] = attachments
	}

	// Existence check and write happen in one statement, so a missing key can
	// never produce a sparse row.
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&m), specification.NoteKey(userId, noteId)...)
	res := query.Clauses(clause.Returning{}).Updates(values)
	if res.Error != nil {
		return nil, fmt.Errorf("update note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, contract.ErrNoteNotFound()
	}
	return r.mapper.ToEntity(&m)
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, userId, noteId string) error {
	query := r.applySpecifications(r.db.WithContext(ctx), specification.NoteKey(userId, noteId)...)
	if err := query.Delete(&model.Note{}).Error; err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
