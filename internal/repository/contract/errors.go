package contract

import "cloudnotes-be/internal/pkg/apperror"

func ErrNoteNotFound() error {
	return apperror.NotFound("Note not found")
}

func ErrEmptyUpdate() error {
	return apperror.BadRequest("No updatable fields provided")
}

func ErrNoteExists(cause error) error {
	return apperror.Conflict("note already exists", cause)
}
