package handlers

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/NomadCrew/todo-api/errors"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/models"
	"github.com/NomadCrew/todo-api/types"
	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	todoService TodoServiceInterface
}

func NewTodoHandler(todoService TodoServiceInterface) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// ListTodosHandler godoc
// @Summary List todos
// @Description Returns every todo ordered by id. An empty store yields an empty array.
// @Tags todos
// @Produce json
// @Success 200 {array} types.Todo "All todos"
// @Failure 500 {object} types.ErrorResponse "Internal server error"
// @Router /todos [get]
func (h *TodoHandler) ListTodosHandler(c *gin.Context) {
	todos, err := h.todoService.ListTodos(c.Request.Context())
	if err != nil {
		h.pushError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// GetTodoHandler godoc
// @Summary Get a todo
// @Description Returns the todo with the given id.
// @Tags todos
// @Produce json
// @Param id path integer true "Todo ID"
// @Success 200 {object} types.Todo "The todo"
// @Failure 400 {object} types.ErrorResponse "ID is not a number"
// @Failure 404 {object} types.ErrorResponse "Todo not found"
// @Failure 500 {object} types.ErrorResponse "Internal server error"
// @Router /todos/{id} [get]
func (h *TodoHandler) GetTodoHandler(c *gin.Context) {
	todo, err := h.todoService.GetTodo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.pushError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// CreateTodoHandler godoc
// @Summary Create a todo
// @Description Creates a todo. Text is required; completedAt is optional.
// @Tags todos
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body types.TodoCreate true "Todo to create"
// @Success 201 {object} types.Todo "Created todo"
// @Failure 400 {object} types.ErrorResponse "Invalid input"
// @Failure 500 {object} types.ErrorResponse "Internal server error"
// @Router /todos [post]
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	var req types.TodoCreate
	if err := bindTodoPayload(c, &req); err != nil {
		h.pushError(c, err)
		return
	}

	todo, err := h.todoService.CreateTodo(c.Request.Context(), &req)
	if err != nil {
		h.pushError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// UpdateTodoHandler godoc
// @Summary Update a todo
// @Description Applies a partial update. Absent fields are left unchanged; completedAt "null" clears the completion date.
// @Tags todos
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path integer true "Todo ID"
// @Param request body types.TodoUpdate true "Fields to update"
// @Success 200 {object} types.Todo "Updated todo"
// @Failure 400 {object} types.ErrorResponse "Invalid id or input"
// @Failure 404 {object} types.ErrorResponse "Todo not found"
// @Failure 500 {object} types.ErrorResponse "Internal server error"
// @Router /todos/{id} [put]
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	var req types.TodoUpdate
	if err := bindTodoPayload(c, &req); err != nil {
		h.pushError(c, err)
		return
	}

	todo, err := h.todoService.UpdateTodo(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.pushError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodoHandler godoc
// @Summary Delete a todo
// @Description Deletes the todo and returns it as it was before deletion.
// @Tags todos
// @Produce json
// @Param id path integer true "Todo ID"
// @Success 200 {object} types.Todo "Deleted todo"
// @Failure 400 {object} types.ErrorResponse "ID is not a number"
// @Failure 404 {object} types.ErrorResponse "Todo not found"
// @Failure 500 {object} types.ErrorResponse "Internal server error"
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	todo, err := h.todoService.DeleteTodo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.pushError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// pushError hands err to middleware.ErrorHandler, which renders it.
func (h *TodoHandler) pushError(c *gin.Context, err error) {
	logger.GetLogger().Debugw("Todo request failed", "path", c.FullPath(), "error", err)
	_ = c.Error(err)
}

// bindTodoPayload decodes a JSON or form body into dest, picking the decoder
// from Content-Type. An empty body is an empty payload.
func bindTodoPayload(c *gin.Context, dest interface{}) error {
	err := c.ShouldBind(dest)
	if err == nil || stderrors.Is(err, io.EOF) {
		return nil
	}
	return errors.ValidationFailed(models.MsgInvalidRequestBody, err.Error())
}
