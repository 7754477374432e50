package store

import (
	"context"

	"github.com/NomadCrew/todo-api/types"
)

// TodoStore is the persistence gateway for todos. Implementations report a
// missing row with ErrNotFound (or an AppError of type NOT_FOUND) and leave
// every other failure unwrapped for the model layer to classify.
type TodoStore interface {
	GetAll(ctx context.Context) ([]*types.Todo, error)
	FindByID(ctx context.Context, id int64) (*types.Todo, error)
	Create(ctx context.Context, intent *types.CreateTodoIntent) (*types.Todo, error)
	UpdateByID(ctx context.Context, intent *types.UpdateTodoIntent) (*types.Todo, error)
	DeleteByID(ctx context.Context, id int64) (*types.Todo, error)
}

// Pinger is satisfied by anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}
