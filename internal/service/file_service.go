package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloudnotes-be/internal/dto"
	"cloudnotes-be/internal/pkg/apperror"
	"cloudnotes-be/internal/pkg/logger"
	"cloudnotes-be/pkg/events"
	"cloudnotes-be/pkg/storage"
)

// PresignTTL is the lifetime of every issued upload or download URL.
const PresignTTL = 900 * time.Second

type IFileService interface {
	IssueUpload(ctx context.Context, userId string, req *dto.PresignUploadRequest) (*dto.PresignUploadResponse, error)
	IssueDownload(ctx context.Context, userId string, req *dto.PresignDownloadRequest) (*dto.PresignDownloadResponse, error)
}

type fileService struct {
	presigner        storage.Presigner
	publisherService IPublisherService
	logger           logger.ILogger
	now              func() time.Time
}

func NewFileService(presigner storage.Presigner, publisherService IPublisherService, log logger.ILogger) IFileService {
	return &fileService{
		presigner:        presigner,
		publisherService: publisherService,
		logger:           log,
		now:              time.Now,
	}
}

func ownerPrefix(userId string) string {
	return userId + "/"
}

// UploadKey places the object under the owner's prefix. Callers never choose the key.
func UploadKey(userId string, at time.Time, filename string) string {
	return fmt.Sprintf("%s%d_%s", ownerPrefix(userId), at.UnixMilli(), filename)
}

func (s *fileService) IssueUpload(ctx context.Context, userId string, req *dto.PresignUploadRequest) (*dto.PresignUploadResponse, error) {
	if req.Filename == "" || req.ContentType == "" {
		return nil, apperror.BadRequest("filename and contentType are required")
	}

	now := s.now()
	key := UploadKey(userId, now, req.Filename)

	url, err := s.presigner.PresignPut(ctx, key, req.ContentType, map[string]string{"userId": userId}, PresignTTL)
	if err != nil {
		return nil, err
	}

	if s.publisherService != nil {
		if err := s.publisherService.Publish(ctx, events.NewFileUploadEvent(userId, key, now)); err != nil {
			s.logger.Warn("FILE", "Failed to publish upload event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.PresignUploadResponse{Url: url, Key: key}, nil
}

func (s *fileService) IssueDownload(ctx context.Context, userId string, req *dto.PresignDownloadRequest) (*dto.PresignDownloadResponse, error) {
	if req.Key == "" {
		return nil, apperror.BadRequest("key is required")
	}

	// The only cross-tenant check for files: the key must sit under the caller's prefix.
	if !strings.HasPrefix(req.Key, ownerPrefix(userId)) {
		s.logger.Warn("FILE", "Download outside owner prefix rejected", map[string]interface{}{
			"UserId": userId,
			"Key":    req.Key,
		})
		return nil, apperror.Unauthorized("")
	}

	url, err := s.presigner.PresignGet(ctx, req.Key, PresignTTL)
	if err != nil {
		return nil, err
	}
	return &dto.PresignDownloadResponse{Url: url}, nil
}
