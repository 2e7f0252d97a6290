package controller

import (
	"fmt"

	"cloudnotes-be/internal/dto"
	"cloudnotes-be/internal/pkg/serverutils"
	"cloudnotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	PresignUpload(ctx *fiber.Ctx) error
	PresignDownload(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
}

func NewFileController(fileService service.IFileService) IFileController {
	return &fileController{
		fileService: fileService,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/files", authMiddleware)
	h.Post("/upload", c.PresignUpload)
	h.Get("/download", c.PresignDownload)
}

func (c *fileController) PresignUpload(ctx *fiber.Ctx) error {
	identity, err := serverutils.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	req, err := dto.ParsePresignUploadRequest(ctx.Body())
	if err != nil {
		return fmt.Errorf("presign upload: %w", err)
	}

	res, err := c.fileService.IssueUpload(ctx.UserContext(), identity.Subject, req)
	if err != nil {
		return err
	}

	return serverutils.Ok(ctx, res)
}

func (c *fileController) PresignDownload(ctx *fiber.Ctx) error {
	identity, err := serverutils.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	req := &dto.PresignDownloadRequest{Key: ctx.Query("key")}

	res, err := c.fileService.IssueDownload(ctx.UserContext(), identity.Subject, req)
	if err != nil {
		return err
	}

	return serverutils.Ok(ctx, res)
}
