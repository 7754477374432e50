package models

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	apperrors "github.com/NomadCrew/todo-api/errors"
	"github.com/NomadCrew/todo-api/internal/store"
	"github.com/NomadCrew/todo-api/internal/store/memory"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

type MockTodoStore struct {
	mock.Mock
}

var _ store.TodoStore = (*MockTodoStore)(nil)

func (m *MockTodoStore) GetAll(ctx context.Context) ([]*types.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Todo), args.Error(1)
}

func (m *MockTodoStore) FindByID(ctx context.Context, id int64) (*types.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Todo), args.Error(1)
}

func (m *MockTodoStore) Create(ctx context.Context, intent *types.CreateTodoIntent) (*types.Todo, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Todo), args.Error(1)
}

func (m *MockTodoStore) UpdateByID(ctx context.Context, intent *types.UpdateTodoIntent) (*types.Todo, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Todo), args.Error(1)
}

func (m *MockTodoStore) DeleteByID(ctx context.Context, id int64) (*types.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Todo), args.Error(1)
}

func asAppError(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, stderrors.As(err, &appErr), "expected *AppError, got %T", err)
	return appErr
}

func TestTodoModel_ListTodos(t *testing.T) {
	ctx := context.Background()

	t.Run("nil from store becomes empty list", func(t *testing.T) {
		s := new(MockTodoStore)
		s.On("GetAll", ctx).Return([]*types.Todo(nil), nil)

		todos, err := NewTodoModel(s, nil).ListTodos(ctx)
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
		s.AssertExpectations(t)
	})

	t.Run("store failure is a database error", func(t *testing.T) {
		s := new(MockTodoStore)
		s.On("GetAll", ctx).Return(nil, stderrors.New("connection refused"))

		_, err := NewTodoModel(s, nil).ListTodos(ctx)
		appErr := asAppError(t, err)
		assert.Equal(t, apperrors.DatabaseError, appErr.Type)
		assert.Equal(t, 500, appErr.GetHTTPStatus())
	})

	t.Run("deadline is a timeout", func(t *testing.T) {
		s := new(MockTodoStore)
		s.On("GetAll", ctx).Return(nil, context.DeadlineExceeded)

		_, err := NewTodoModel(s, nil).ListTodos(ctx)
		appErr := asAppError(t, err)
		assert.Equal(t, apperrors.TimeoutError, appErr.Type)
		assert.Equal(t, 504, appErr.GetHTTPStatus())
		assert.Equal(t, "request timed out", appErr.Message)
		assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	})
}

func TestTodoModel_GetTodo(t *testing.T) {
	ctx := context.Background()

	t.Run("non numeric id never reaches the store", func(t *testing.T) {
		s := new(MockTodoStore)
		_, err := NewTodoModel(s, nil).GetTodo(ctx, "abc")
		appErr := asAppError(t, err)
		assert.Equal(t, MsgIDNotANumber, appErr.Message)
		assert.Equal(t, 400, appErr.GetHTTPStatus())
		s.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("not found passes through", func(t *testing.T) {
		s := new(MockTodoStore)
		s.On("FindByID", ctx, int64(999)).Return(nil, store.NotFound(999))

		_, err := NewTodoModel(s, nil).GetTodo(ctx, "999")
		appErr := asAppError(t, err)
		assert.Equal(t, "todo with id 999 not found", appErr.Message)
		assert.Equal(t, 404, appErr.GetHTTPStatus())
	})
}

func TestTodoModel_CreateTodo(t *testing.T) {
	ctx := context.Background()

	t.Run("validation failure never reaches the store", func(t *testing.T) {
		s := new(MockTodoStore)
		_, err := NewTodoModel(s, nil).CreateTodo(ctx, &types.TodoCreate{})
		appErr := asAppError(t, err)
		assert.Equal(t, MsgTextRequired, appErr.Message)
		s.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("passes the validated intent", func(t *testing.T) {
		s := new(MockTodoStore)
		s.On("Create", ctx, &types.CreateTodoIntent{Text: "Buy milk"}).
			Return(&types.Todo{ID: 1, Text: "Buy milk"}, nil)

		todo, err := NewTodoModel(s, nil).CreateTodo(ctx, &types.TodoCreate{Text: strPtr("Buy milk")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), todo.ID)
		s.AssertExpectations(t)
	})
}

func TestTodoModel_AgainstMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewTodoModel(memory.NewTodoStore(), NewDateParser(time.UTC))

	created, err := m.CreateTodo(ctx, &types.TodoCreate{Text: strPtr("Buy milk")})
	require.NoError(t, err)
	assert.Nil(t, created.CompletedAt)

	updated, err := m.UpdateTodo(ctx, "1", &types.TodoUpdate{CompletedAt: strPtr("2025/07/12")})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, "2025-07-12T00:00:00.000Z", updated.CompletedAt.Format(types.TimestampLayout))
	assert.Equal(t, "Buy milk", updated.Text)

	unchanged, err := m.UpdateTodo(ctx, "1", &types.TodoUpdate{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	cleared, err := m.UpdateTodo(ctx, "1", &types.TodoUpdate{CompletedAt: strPtr("null")})
	require.NoError(t, err)
	assert.Nil(t, cleared.CompletedAt)

	deleted, err := m.DeleteTodo(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", deleted.Text)

	_, err = m.GetTodo(ctx, "1")
	assert.Equal(t, 404, asAppError(t, err).GetHTTPStatus())

	_, err = m.UpdateTodo(ctx, "1", &types.TodoUpdate{Text: strPtr("x")})
	assert.Equal(t, 404, asAppError(t, err).GetHTTPStatus())

	_, err = m.DeleteTodo(ctx, "x1")
	assert.Equal(t, 400, asAppError(t, err).GetHTTPStatus())
}
