package store

import (
	"errors"

	apperrors "github.com/NomadCrew/todo-api/errors"
)

// TodoEntity is the entity name used in not-found messages.
const TodoEntity = "todo"

// ErrNotFound indicates that a requested todo does not exist.
var ErrNotFound = errors.New("resource not found")

// NotFound builds the error every store returns for a missing id. It
// renders as "todo with id <id> not found" and still matches ErrNotFound.
func NotFound(id int64) *apperrors.AppError {
	appErr := apperrors.NotFound(TodoEntity, id)
	appErr.Raw = ErrNotFound
	return appErr
}
