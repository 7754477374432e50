package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/todo-api/internal/store"
	"github.com/NomadCrew/todo-api/internal/store/memory"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/types"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = time.Minute

func init() {
	logger.IsTest = true
}

func seededStore(t *testing.T, texts ...string) *memory.TodoStore {
	t.Helper()
	mem := memory.NewTodoStore()
	for _, text := range texts {
		_, err := mem.Create(context.Background(), &types.CreateTodoIntent{Text: text})
		require.NoError(t, err)
	}
	return mem
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func expectSave(mock redismock.ClientMock, key, gen string, data []byte) *redismock.ExpectedCmd {
	return mock.ExpectEvalSha(saveIfCurrent.Hash(), []string{key, keyGeneration}, gen, string(data), testTTL.Milliseconds())
}

// racingStore runs afterFind once the wrapped store has answered FindByID,
// standing in for a writer that lands between the read and the cache save.
type racingStore struct {
	store.TodoStore
	afterFind func()
}

func (r *racingStore) FindByID(ctx context.Context, id int64) (*types.Todo, error) {
	todo, err := r.TodoStore.FindByID(ctx, id)
	if r.afterFind != nil {
		r.afterFind()
	}
	return todo, err
}

func TestGetAllMissPopulatesCache(t *testing.T) {
	ctx := context.Background()
	mem := seededStore(t, "Buy milk")
	rdb, mock := redismock.NewClientMock()
	s := NewTodoStore(mem, rdb, testTTL)

	expected, err := mem.GetAll(ctx)
	require.NoError(t, err)

	mock.ExpectGet(keyList).RedisNil()
	mock.ExpectGet(keyGeneration).RedisNil()
	expectSave(mock, keyList, "0", mustJSON(t, expected)).SetVal(int64(1))

	todos, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, todos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllHitSkipsStore(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	// empty backing store: a hit must not consult it
	s := NewTodoStore(memory.NewTodoStore(), rdb, testTTL)

	mock.ExpectGet(keyList).SetVal(`[{"id":7,"text":"cached","completedAt":"2025-07-12T00:00:00.000Z"}]`)

	todos, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, int64(7), todos[0].ID)
	require.NotNil(t, todos[0].CompletedAt)
	assert.True(t, time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC).Equal(*todos[0].CompletedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	mem := seededStore(t, "Buy milk")
	rdb, mock := redismock.NewClientMock()
	s := NewTodoStore(mem, rdb, testTTL)

	expected, err := mem.FindByID(ctx, 1)
	require.NoError(t, err)

	mock.ExpectGet(itemKey(1)).SetErr(errors.New("connection refused"))
	mock.ExpectGet(keyGeneration).SetVal("4")
	expectSave(mock, itemKey(1), "4", mustJSON(t, expected)).SetErr(errors.New("connection refused"))

	todo, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", todo.Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	s := NewTodoStore(memory.NewTodoStore(), rdb, testTTL)

	mock.ExpectGet(itemKey(999)).RedisNil()
	mock.ExpectGet(keyGeneration).RedisNil()

	_, err := s.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	mem := seededStore(t, "Buy milk")
	rdb, mock := redismock.NewClientMock()
	s := NewTodoStore(mem, rdb, testTTL)

	mock.ExpectIncr(keyGeneration).SetVal(1)
	mock.ExpectDel(keyList).SetVal(1)
	_, err := s.Create(ctx, &types.CreateTodoIntent{Text: "Buy sugar"})
	require.NoError(t, err)

	text := "Buy oat milk"
	mock.ExpectIncr(keyGeneration).SetVal(2)
	mock.ExpectDel(keyList, itemKey(1)).SetVal(2)
	_, err = s.UpdateByID(ctx, &types.UpdateTodoIntent{ID: 1, Text: &text})
	require.NoError(t, err)

	mock.ExpectIncr(keyGeneration).SetVal(3)
	mock.ExpectDel(keyList, itemKey(2)).SetVal(1)
	_, err = s.DeleteByID(ctx, 2)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFailedWriteDoesNotInvalidate(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	s := NewTodoStore(memory.NewTodoStore(), rdb, testTTL)

	_, err := s.DeleteByID(ctx, 5)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnreadableGenerationSkipsSave(t *testing.T) {
	ctx := context.Background()
	mem := seededStore(t, "Buy milk")
	rdb, mock := redismock.NewClientMock()
	s := NewTodoStore(mem, rdb, testTTL)

	mock.ExpectGet(keyList).RedisNil()
	mock.ExpectGet(keyGeneration).SetErr(errors.New("connection reset"))

	todos, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDuringReadDoesNotCacheDeletedTodo(t *testing.T) {
	ctx := context.Background()
	mem := seededStore(t, "Buy milk")
	rdb, mock := redismock.NewClientMock()

	racing := &racingStore{TodoStore: mem}
	s := NewTodoStore(racing, rdb, testTTL)

	loaded, err := mem.FindByID(ctx, 1)
	require.NoError(t, err)

	// reader misses and snapshots the generation
	mock.ExpectGet(itemKey(1)).RedisNil()
	mock.ExpectGet(keyGeneration).RedisNil()
	// writer deletes after the reader loaded the row
	mock.ExpectIncr(keyGeneration).SetVal(1)
	mock.ExpectDel(keyList, itemKey(1)).SetVal(0)
	// the reader's save sees generation 1 and is refused
	expectSave(mock, itemKey(1), "0", mustJSON(t, loaded)).SetVal(int64(0))
	// next read misses and reaches the store
	mock.ExpectGet(itemKey(1)).RedisNil()
	mock.ExpectGet(keyGeneration).SetVal("1")

	racing.afterFind = func() {
		racing.afterFind = nil
		_, err := s.DeleteByID(ctx, 1)
		require.NoError(t, err)
	}

	todo, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", todo.Text)

	_, err = s.FindByID(ctx, 1)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
