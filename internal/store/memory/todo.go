package memory

import (
	"context"
	"sync"

	"github.com/NomadCrew/todo-api/internal/store"
	"github.com/NomadCrew/todo-api/types"
)

// TodoStore keeps todos in process memory. It is used when STORE_DRIVER is
// "memory" and by handler tests; state lives with the instance.
type TodoStore struct {
	mu     sync.RWMutex
	todos  map[int64]*types.Todo
	order  []int64
	nextID int64
}

var _ store.TodoStore = (*TodoStore)(nil)

func NewTodoStore() *TodoStore {
	return &TodoStore{
		todos:  make(map[int64]*types.Todo),
		nextID: 1,
	}
}

func (s *TodoStore) GetAll(ctx context.Context) ([]*types.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]*types.Todo, 0, len(s.order))
	for _, id := range s.order {
		todos = append(todos, clone(s.todos[id]))
	}
	return todos, nil
}

func (s *TodoStore) FindByID(ctx context.Context, id int64) (*types.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, ok := s.todos[id]
	if !ok {
		return nil, store.NotFound(id)
	}
	return clone(todo), nil
}

func (s *TodoStore) Create(ctx context.Context, intent *types.CreateTodoIntent) (*types.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	todo := &types.Todo{ID: s.nextID, Text: intent.Text}
	if intent.CompletedAt != nil {
		ts := *intent.CompletedAt
		todo.CompletedAt = &ts
	}
	s.nextID++
	s.todos[todo.ID] = todo
	s.order = append(s.order, todo.ID)
	return clone(todo), nil
}

func (s *TodoStore) UpdateByID(ctx context.Context, intent *types.UpdateTodoIntent) (*types.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[intent.ID]
	if !ok {
		return nil, store.NotFound(intent.ID)
	}
	intent.Apply(todo)
	return clone(todo), nil
}

func (s *TodoStore) DeleteByID(ctx context.Context, id int64) (*types.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return nil, store.NotFound(id)
	}
	delete(s.todos, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return todo, nil
}

// Ping always succeeds; it lets the readiness probe treat both drivers alike.
func (s *TodoStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func clone(todo *types.Todo) *types.Todo {
	c := *todo
	if todo.CompletedAt != nil {
		ts := *todo.CompletedAt
		c.CompletedAt = &ts
	}
	return &c
}
