package handler

import (
	"net/http"
	"strconv"

	. "todoapi/internal/adapter/http/helper"
	. "todoapi/internal/adapter/http/validation"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/pkg/logger"
	. "todoapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *logger.Logger
}

func NewTodoHandler(svc port.TodoService, log *logger.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		Logger: log,
	}
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllTodos"),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userId := c.GetInt(middleware.UserIDKey)

	span.SetAttributes(attribute.Int("user.id", userId))

	todos, err := t.svc.GetAllTodos(ctx, userId)

	if err != nil {
		AddSpanError(span, err)

		t.Logger.Ctx(ctx).Error("Failed to list todos",
			zap.Error(err),
			zap.Int("user_id", userId),
		)

		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewTodoListResponse(todos))
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "GetTodo"),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userId := c.GetInt(middleware.UserIDKey)

	id, ok := todoID(c)

	if !ok {
		return
	}

	todo, err := t.svc.GetTodo(ctx, id, userId)

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.CreateTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "CreateTodo"),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userId := c.GetInt(middleware.UserIDKey)

	var params request.TodoCreateRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendError(c, http.StatusBadRequest, "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Create(ctx, userId, &params)

	if err != nil {
		AddSpanError(span, err)

		t.Logger.Ctx(ctx).Warn("Failed to create todo",
			zap.Error(err),
			zap.Int("user_id", userId),
		)

		SendDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("todo.id", todo.ID))

	c.JSON(http.StatusCreated, response.NewTodoResponse(todo))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.UpdateTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "UpdateTodo"),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userId := c.GetInt(middleware.UserIDKey)

	id, ok := todoID(c)

	if !ok {
		return
	}

	var params request.TodoPatchRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendError(c, http.StatusBadRequest, "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Update(ctx, id, userId, &params)

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.DeleteTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "DeleteTodo"),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userId := c.GetInt(middleware.UserIDKey)

	id, ok := todoID(c)

	if !ok {
		return
	}

	if err := t.svc.Delete(ctx, id, userId); err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// todoID parses the :id path segment. A non-numeric id cannot name any
// todo, so it reads as absent.
func todoID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil || id <= 0 {
		SendError(c, http.StatusNotFound, "Todo not found")
		return 0, false
	}

	return id, true
}
