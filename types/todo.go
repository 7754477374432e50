package types

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the wire format of completion timestamps: ISO 8601 in
// UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// CompletedAtClear is the literal completedAt value that clears the
// completion timestamp on update.
const CompletedAtClear = "null"

// Todo is the single persisted entity. A nil CompletedAt means the todo is
// not completed.
type Todo struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	CompletedAt *time.Time `json:"completedAt"`
}

// IsCompleted reports whether the todo carries a completion timestamp.
func (t *Todo) IsCompleted() bool {
	return t.CompletedAt != nil
}

// MarshalJSON renders completedAt with TimestampLayout, or null.
func (t Todo) MarshalJSON() ([]byte, error) {
	var completedAt *string
	if t.CompletedAt != nil {
		s := t.CompletedAt.UTC().Format(TimestampLayout)
		completedAt = &s
	}
	return json.Marshal(struct {
		ID          int64   `json:"id"`
		Text        string  `json:"text"`
		CompletedAt *string `json:"completedAt"`
	}{
		ID:          t.ID,
		Text:        t.Text,
		CompletedAt: completedAt,
	})
}

// TodoCreate is the raw create payload. Fields are pointers so that absent
// values can be told apart from empty ones.
type TodoCreate struct {
	Text        *string `json:"text" form:"text"`
	CompletedAt *string `json:"completedAt" form:"completedAt"`
}

// TodoUpdate is the raw update payload. An absent field leaves the stored
// value unchanged.
type TodoUpdate struct {
	Text        *string `json:"text" form:"text"`
	CompletedAt *string `json:"completedAt" form:"completedAt"`
}

// CreateTodoIntent is a validated create request ready for persistence.
type CreateTodoIntent struct {
	Text        string
	CompletedAt *time.Time
}

// UpdateTodoIntent is a validated sparse patch. Text is applied when non-nil;
// CompletedAt is applied (possibly as nil) only when CompletedAtSet is true.
type UpdateTodoIntent struct {
	ID             int64
	Text           *string
	CompletedAtSet bool
	CompletedAt    *time.Time
}

// HasChanges reports whether the patch touches any column.
func (u *UpdateTodoIntent) HasChanges() bool {
	return u.Text != nil || u.CompletedAtSet
}

// Apply patches todo in place with the supplied fields.
func (u *UpdateTodoIntent) Apply(todo *Todo) {
	if u.Text != nil {
		todo.Text = *u.Text
	}
	if u.CompletedAtSet {
		if u.CompletedAt == nil {
			todo.CompletedAt = nil
		} else {
			ts := *u.CompletedAt
			todo.CompletedAt = &ts
		}
	}
}
