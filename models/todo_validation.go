package models

import (
	"strconv"
	"time"

	"github.com/NomadCrew/todo-api/errors"
	"github.com/NomadCrew/todo-api/types"
	"github.com/araddon/dateparse"
)

const (
	MsgTextRequired       = "Text property is required"
	MsgTextMustBeNonEmpty = "Text property must be a non-empty string"
	MsgCompletedAtInvalid = "CompletedAt must be a valid date"
	MsgIDNotANumber       = "ID argument is not a number"
	MsgInvalidRequestBody = "Invalid request body"
)

// DateParser reads completedAt values. Inputs without an explicit zone are
// interpreted in loc; results are always returned in UTC.
type DateParser struct {
	loc *time.Location
}

// NewDateParser returns a parser for loc (UTC when nil).
func NewDateParser(loc *time.Location) *DateParser {
	if loc == nil {
		loc = time.UTC
	}
	return &DateParser{loc: loc}
}

// Parse accepts the usual date and date-time spellings ("2025/07/12",
// "07/12/2025", "2025-07-12T10:00:00Z", ...).
func (p *DateParser) Parse(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.ValidationFailed(MsgCompletedAtInvalid, "empty date")
	}
	t, err := dateparse.ParseIn(raw, p.loc)
	if err != nil {
		return time.Time{}, errors.ValidationFailed(MsgCompletedAtInvalid, err.Error())
	}
	return t.UTC(), nil
}

// ParseTodoID parses a path id. Anything that is not a base-10 integer is a
// BadRequest.
func ParseTodoID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.BadRequest(MsgIDNotANumber)
	}
	return id, nil
}

// NewCreateTodoIntent validates a create payload. Text must be present and
// non-empty; completedAt is optional and follows the update rules.
func NewCreateTodoIntent(req *types.TodoCreate, dates *DateParser) (*types.CreateTodoIntent, error) {
	if req == nil || req.Text == nil || *req.Text == "" {
		return nil, errors.ValidationFailed(MsgTextRequired, "")
	}

	intent := &types.CreateTodoIntent{Text: *req.Text}

	completedAt, _, err := parseCompletedAt(req.CompletedAt, dates)
	if err != nil {
		return nil, err
	}
	intent.CompletedAt = completedAt

	return intent, nil
}

// NewUpdateTodoIntent validates an update payload for the todo with id.
// Only supplied fields end up in the intent.
func NewUpdateTodoIntent(id int64, req *types.TodoUpdate, dates *DateParser) (*types.UpdateTodoIntent, error) {
	intent := &types.UpdateTodoIntent{ID: id}
	if req == nil {
		return intent, nil
	}

	if req.Text != nil {
		if *req.Text == "" {
			return nil, errors.ValidationFailed(MsgTextMustBeNonEmpty, "")
		}
		text := *req.Text
		intent.Text = &text
	}

	completedAt, set, err := parseCompletedAt(req.CompletedAt, dates)
	if err != nil {
		return nil, err
	}
	intent.CompletedAtSet = set
	intent.CompletedAt = completedAt

	return intent, nil
}

// parseCompletedAt implements the three-way completedAt contract:
// absent leaves the value alone (set=false), the literal "null" clears it,
// anything else must be a date.
func parseCompletedAt(raw *string, dates *DateParser) (completedAt *time.Time, set bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	if *raw == types.CompletedAtClear {
		return nil, true, nil
	}
	if dates == nil {
		dates = NewDateParser(time.UTC)
	}
	t, err := dates.Parse(*raw)
	if err != nil {
		return nil, false, err
	}
	return &t, true, nil
}
