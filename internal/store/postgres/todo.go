package postgres

import (
	"context"
	"errors"

	"github.com/NomadCrew/todo-api/internal/store"
	"github.com/NomadCrew/todo-api/types"
	"github.com/jackc/pgx/v5"
)

// DBTX is the subset of pgxpool.Pool (and pgx.Tx) the store needs.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const todoColumns = `id, text, completed_at`

// TodoStore implements store.TodoStore on PostgreSQL.
type TodoStore struct {
	db DBTX
}

var _ store.TodoStore = (*TodoStore)(nil)

// NewTodoStore creates a new TodoStore instance
func NewTodoStore(db DBTX) *TodoStore {
	return &TodoStore{db: db}
}

// GetAll returns every todo ordered by id.
func (s *TodoStore) GetAll(ctx context.Context) ([]*types.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		ORDER BY id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]*types.Todo, 0)
	for rows.Next() {
		todo := &types.Todo{}
		if err := rows.Scan(&todo.ID, &todo.Text, &todo.CompletedAt); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

// FindByID retrieves a todo item by its ID
func (s *TodoStore) FindByID(ctx context.Context, id int64) (*types.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1`

	return s.scanOne(s.db.QueryRow(ctx, query, id), id)
}

// Create inserts a todo and returns it with its assigned id.
func (s *TodoStore) Create(ctx context.Context, intent *types.CreateTodoIntent) (*types.Todo, error) {
	query := `
		INSERT INTO todos (text, completed_at)
		VALUES ($1, $2)
		RETURNING ` + todoColumns

	return s.scanOne(s.db.QueryRow(ctx, query, intent.Text, intent.CompletedAt), 0)
}

// UpdateByID applies a sparse patch. Text is only replaced when supplied;
// completed_at is only touched when the intent says so, which is what lets
// an explicit clear be told apart from an absent field.
func (s *TodoStore) UpdateByID(ctx context.Context, intent *types.UpdateTodoIntent) (*types.Todo, error) {
	if !intent.HasChanges() {
		return s.FindByID(ctx, intent.ID)
	}

	query := `
		UPDATE todos
		SET text = COALESCE($2, text),
			completed_at = CASE WHEN $3::boolean THEN $4::timestamptz ELSE completed_at END
		WHERE id = $1
		RETURNING ` + todoColumns

	row := s.db.QueryRow(ctx, query,
		intent.ID,
		intent.Text,
		intent.CompletedAtSet,
		intent.CompletedAt,
	)
	return s.scanOne(row, intent.ID)
}

// DeleteByID removes a todo and returns the row as it was.
func (s *TodoStore) DeleteByID(ctx context.Context, id int64) (*types.Todo, error) {
	query := `
		DELETE FROM todos
		WHERE id = $1
		RETURNING ` + todoColumns

	return s.scanOne(s.db.QueryRow(ctx, query, id), id)
}

func (s *TodoStore) scanOne(row pgx.Row, id int64) (*types.Todo, error) {
	todo := &types.Todo{}
	if err := row.Scan(&todo.ID, &todo.Text, &todo.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.NotFound(id)
		}
		return nil, err
	}
	return todo, nil
}
