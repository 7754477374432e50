// Package rediscache puts a read-through Redis cache in front of a
// store.TodoStore.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/NomadCrew/todo-api/internal/store"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/types"
	"github.com/redis/go-redis/v9"
)

const (
	keyList       = "todos:list"
	keyItemPrefix = "todos:item:"
	// keyGeneration is bumped by every write. A read only populates the
	// cache if no write happened between its generation check and the save.
	keyGeneration = "todos:gen"
)

// saveIfCurrent sets KEYS[1] to ARGV[2] with a PX of ARGV[3] only while
// KEYS[2] still holds the generation ARGV[1] (a missing counter is "0").
var saveIfCurrent = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if not current then
	current = "0"
end
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// TodoStore caches list and single-item reads. Every successful write bumps
// the generation and invalidates the affected keys. Redis failures never
// fail a request; the call falls through to the wrapped store.
type TodoStore struct {
	next store.TodoStore
	rdb  redis.Cmdable
	ttl  time.Duration
}

var _ store.TodoStore = (*TodoStore)(nil)

func NewTodoStore(next store.TodoStore, rdb redis.Cmdable, ttl time.Duration) *TodoStore {
	return &TodoStore{next: next, rdb: rdb, ttl: ttl}
}

func itemKey(id int64) string {
	return keyItemPrefix + strconv.FormatInt(id, 10)
}

func (s *TodoStore) GetAll(ctx context.Context) ([]*types.Todo, error) {
	var cached []*types.Todo
	if s.load(ctx, keyList, &cached) {
		if cached == nil {
			cached = make([]*types.Todo, 0)
		}
		return cached, nil
	}

	gen, ok := s.generation(ctx)
	todos, err := s.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		s.save(ctx, keyList, gen, todos)
	}
	return todos, nil
}

func (s *TodoStore) FindByID(ctx context.Context, id int64) (*types.Todo, error) {
	key := itemKey(id)
	var cached types.Todo
	if s.load(ctx, key, &cached) {
		return &cached, nil
	}

	gen, ok := s.generation(ctx)
	todo, err := s.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok {
		s.save(ctx, key, gen, todo)
	}
	return todo, nil
}

func (s *TodoStore) Create(ctx context.Context, intent *types.CreateTodoIntent) (*types.Todo, error) {
	todo, err := s.next.Create(ctx, intent)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyList)
	return todo, nil
}

func (s *TodoStore) UpdateByID(ctx context.Context, intent *types.UpdateTodoIntent) (*types.Todo, error) {
	todo, err := s.next.UpdateByID(ctx, intent)
	if err != nil {
		return nil, err
	}
	if intent.HasChanges() {
		s.invalidate(ctx, keyList, itemKey(intent.ID))
	}
	return todo, nil
}

func (s *TodoStore) DeleteByID(ctx context.Context, id int64) (*types.Todo, error) {
	todo, err := s.next.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyList, itemKey(id))
	return todo, nil
}

// load reports a cache hit. Misses, Redis errors and undecodable payloads
// all count as a miss.
func (s *TodoStore) load(ctx context.Context, key string, dest interface{}) bool {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.GetLogger().Warnw("Todo cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.GetLogger().Warnw("Discarding undecodable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

// generation reads the write counter. ok is false when Redis cannot be
// read, in which case the caller must not populate the cache.
func (s *TodoStore) generation(ctx context.Context) (gen string, ok bool) {
	gen, err := s.rdb.Get(ctx, keyGeneration).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "0", true
	case err != nil:
		logger.GetLogger().Warnw("Todo cache generation read failed", "error", err)
		return "", false
	}
	return gen, true
}

// save stores value under key unless a write bumped the generation since gen
// was read.
func (s *TodoStore) save(ctx context.Context, key, gen string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.GetLogger().Warnw("Failed to encode cache entry", "key", key, "error", err)
		return
	}
	stored, err := saveIfCurrent.Run(ctx, s.rdb, []string{key, keyGeneration},
		gen, string(data), s.ttl.Milliseconds()).Int()
	if err != nil {
		logger.GetLogger().Warnw("Todo cache write failed", "key", key, "error", err)
		return
	}
	if stored == 0 {
		logger.GetLogger().Debugw("Skipped stale cache write", "key", key, "generation", gen)
	}
}

// invalidate bumps the generation before dropping keys, so reads that began
// before the write cannot re-populate them.
func (s *TodoStore) invalidate(ctx context.Context, keys ...string) {
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, keyGeneration)
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		logger.GetLogger().Warnw("Todo cache invalidation failed", "keys", keys, "error", err)
	}
}
