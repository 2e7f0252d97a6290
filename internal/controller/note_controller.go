package controller

import (
	"fmt"

	"cloudnotes-be/internal/dto"
	"cloudnotes-be/internal/pkg/apperror"
	"cloudnotes-be/internal/pkg/serverutils"
	"cloudnotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/notes", authMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	// Without an id these answer "Missing id" rather than a routing error.
	h.Put("", c.Update)
	h.Delete("", c.Delete)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	identity, err := serverutils.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	req, err := dto.ParseCreateNoteRequest(ctx.Body())
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.UserContext(), identity.Subject, req)
	if err != nil {
		return err
	}

	return serverutils.Created(ctx, res)
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	identity, err := serverutils.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	id := ctx.Params("id")
	if id == "" {
		return apperror.NotFound("Missing id")
	}

	res, err := c.noteService.Show(ctx.UserContext(), identity.Subject, id)
	if err != nil {
		return err
	}

	return serverutils.Ok(ctx, res)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	identity, err := serverutils.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.List(ctx.UserContext(), identity.Subject)
	if err != nil {
		return err
	}

	return serverutils.Ok(ctx, res)
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	identity, err := serverutils.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	id := ctx.Params("id")
	if id == "" {
		return apperror.BadRequest("Missing id")
	}

	req, err := dto.ParseUpdateNoteRequest(id, ctx.Body())
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	res, err := c.noteService.Update(ctx.UserContext(), identity.Subject, req)
	if err != nil {
		return err
	}

	return serverutils.Ok(ctx, res)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	identity, err := serverutils.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	id := ctx.Params("id")
	if id == "" {
		return apperror.BadRequest("Missing id")
	}

	if err := c.noteService.Delete(ctx.UserContext(), identity.Subject, id); err != nil {
		return err
	}

	return serverutils.NoContent(ctx)
}
