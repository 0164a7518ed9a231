package service

import (
	"context"
	"strconv"
	"time"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/port"
)

// dueDateLayouts are the accepted ISO-8601 shapes, most specific first.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDueDate(value string) (time.Time, error) {
	var lastErr error

	for _, layout := range dueDateLayouts {
		parsed, err := time.Parse(layout, value)

		if err == nil {
			return parsed, nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}

type TodoService struct {
	repo      port.TodoRepository
	telemetry port.Telemetry
}

func NewTodoService(repo port.TodoRepository, telemetry port.Telemetry) *TodoService {
	return &TodoService{
		repo:      repo,
		telemetry: telemetry,
	}
}

func (ts *TodoService) GetAllTodos(ctx context.Context, userId int) ([]domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "GetAllTodos", userId)
	defer span.End()

	todos, err := ts.repo.GetAllByUser(ctx, userId)

	if err != nil {
		ts.telemetry.RecordError(ctx, "todo.GetAllTodos", err)
		return nil, err
	}

	return todos, nil
}

func (ts *TodoService) GetTodo(ctx context.Context, id int, userId int) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "GetTodo", userId)
	defer span.End()

	return ts.repo.GetByID(ctx, id, userId)
}

func (ts *TodoService) Create(ctx context.Context, userId int, req *request.TodoCreateRequest) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Create", userId)
	defer span.End()

	if req.Title == "" {
		return domain.Todo{}, domain.NewValidationError("title", "Title is required")
	}

	priority := domain.PriorityMedium

	if req.Priority != nil {
		parsed, err := domain.ParsePriority(*req.Priority)

		if err != nil || *req.Priority == "" {
			return domain.Todo{}, domain.NewValidationError("priority", "Priority must be one of: low, medium, high")
		}

		priority = parsed
	}

	todo := domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    priority,
		UserId:      userId,
	}

	if req.DueDate != "" {
		dueDate, err := parseDueDate(req.DueDate)

		if err != nil {
			return domain.Todo{}, domain.NewValidationError("due_date", "Invalid date format")
		}

		todo.DueDate = &dueDate
	}

	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	saved, err := ts.repo.Create(ctx, todo)

	if err != nil {
		ts.telemetry.RecordError(ctx, "todo.Create", err)
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "created", "todo", strconv.Itoa(saved.ID), userId)

	return saved, nil
}

func (ts *TodoService) Update(ctx context.Context, id int, userId int, patch *request.TodoPatchRequest) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Update", userId)
	defer span.End()

	// The whole patch is validated before any field is applied, so a bad
	// value can never leave a half-mutated row behind.
	var priority domain.Priority
	var dueDate *time.Time

	if patch.Title != nil && *patch.Title == "" {
		return domain.Todo{}, domain.NewValidationError("title", "Title is required")
	}

	if patch.Priority != nil {
		parsed, err := domain.ParsePriority(*patch.Priority)

		if err != nil || *patch.Priority == "" {
			return domain.Todo{}, domain.NewValidationError("priority", "Priority must be one of: low, medium, high")
		}

		priority = parsed
	}

	if patch.DueDate != nil {
		parsed, err := parseDueDate(*patch.DueDate)

		if err != nil {
			return domain.Todo{}, domain.NewValidationError("due_date", "Invalid date format")
		}

		dueDate = &parsed
	}

	todo, err := ts.repo.GetByID(ctx, id, userId)

	if err != nil {
		return domain.Todo{}, err
	}

	if patch.Title != nil {
		todo.Title = *patch.Title
	}

	if patch.Description != nil {
		todo.Description = *patch.Description
	}

	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}

	if patch.Priority != nil {
		todo.Priority = priority
	}

	if patch.DueDate != nil {
		todo.DueDate = dueDate
	}

	todo.UpdatedAt = time.Now()

	updated, err := ts.repo.Update(ctx, todo)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "updated", "todo", strconv.Itoa(updated.ID), userId)

	return updated, nil
}

func (ts *TodoService) Delete(ctx context.Context, id int, userId int) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Delete", userId)
	defer span.End()

	if err := ts.repo.DeleteByID(ctx, id, userId); err != nil {
		return err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", strconv.Itoa(id), userId)

	return nil
}
