package models

import (
	"context"
	stderrors "errors"

	"github.com/NomadCrew/todo-api/errors"
	"github.com/NomadCrew/todo-api/internal/store"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/types"
)

const msgRequestTimedOut = "request timed out"

// TodoModel validates raw requests and runs them against the store. Every
// error it returns is an *errors.AppError.
type TodoModel struct {
	store store.TodoStore
	dates *DateParser
}

func NewTodoModel(store store.TodoStore, dates *DateParser) *TodoModel {
	if dates == nil {
		dates = NewDateParser(nil)
	}
	return &TodoModel{
		store: store,
		dates: dates,
	}
}

func (tm *TodoModel) ListTodos(ctx context.Context) ([]*types.Todo, error) {
	todos, err := tm.store.GetAll(ctx)
	if err != nil {
		logger.GetLogger().Errorw("Failed to list todos", "error", err)
		return nil, classify(err)
	}
	if todos == nil {
		todos = make([]*types.Todo, 0)
	}
	return todos, nil
}

func (tm *TodoModel) GetTodo(ctx context.Context, rawID string) (*types.Todo, error) {
	id, err := ParseTodoID(rawID)
	if err != nil {
		return nil, err
	}

	todo, err := tm.store.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return todo, nil
}

func (tm *TodoModel) CreateTodo(ctx context.Context, req *types.TodoCreate) (*types.Todo, error) {
	log := logger.GetLogger()

	intent, err := NewCreateTodoIntent(req, tm.dates)
	if err != nil {
		return nil, err
	}

	todo, err := tm.store.Create(ctx, intent)
	if err != nil {
		log.Errorw("Failed to create todo", "error", err)
		return nil, classify(err)
	}

	log.Infow("Todo created", "todoId", todo.ID, "completed", todo.IsCompleted())
	return todo, nil
}

func (tm *TodoModel) UpdateTodo(ctx context.Context, rawID string, req *types.TodoUpdate) (*types.Todo, error) {
	id, err := ParseTodoID(rawID)
	if err != nil {
		return nil, err
	}

	intent, err := NewUpdateTodoIntent(id, req, tm.dates)
	if err != nil {
		return nil, err
	}

	todo, err := tm.store.UpdateByID(ctx, intent)
	if err != nil {
		return nil, classify(err)
	}

	if intent.HasChanges() {
		logger.GetLogger().Infow("Todo updated", "todoId", todo.ID, "completed", todo.IsCompleted())
	}
	return todo, nil
}

func (tm *TodoModel) DeleteTodo(ctx context.Context, rawID string) (*types.Todo, error) {
	id, err := ParseTodoID(rawID)
	if err != nil {
		return nil, err
	}

	todo, err := tm.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}

	logger.GetLogger().Infow("Todo deleted", "todoId", id)
	return todo, nil
}

// classify maps store failures onto the error taxonomy. AppErrors pass
// through; deadlines become timeouts; anything else is a database error.
func classify(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Wrap(err, errors.TimeoutError, msgRequestTimedOut)
	}
	return errors.NewDatabaseError(err)
}
