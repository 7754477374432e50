package handlers

import (
	"context"

	"github.com/NomadCrew/todo-api/types"
)

// TodoServiceInterface is what the todo handlers need from the model layer.
// Ids are passed through unparsed; the service owns their validation.
type TodoServiceInterface interface {
	ListTodos(ctx context.Context) ([]*types.Todo, error)
	GetTodo(ctx context.Context, rawID string) (*types.Todo, error)
	CreateTodo(ctx context.Context, req *types.TodoCreate) (*types.Todo, error)
	UpdateTodo(ctx context.Context, rawID string, req *types.TodoUpdate) (*types.Todo, error)
	DeleteTodo(ctx context.Context, rawID string) (*types.Todo, error)
}

// HealthServiceInterface is what the health handlers need.
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) types.HealthReport
}
