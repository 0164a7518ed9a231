package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todoapi/internal/adapter/database/sqlite"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

var todoColumns = []string{
	"id", "title", "description", "completed", "priority",
	"due_date", "user_id", "created_at", "updated_at",
}

type TodoRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func scanTodo(row sq.RowScanner) (domain.Todo, error) {
	var todo domain.Todo
	var dueDate sql.NullTime

	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.Priority,
		&dueDate,
		&todo.UserId,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	if err != nil {
		return domain.Todo{}, err
	}

	if dueDate.Valid {
		todo.DueDate = &dueDate.Time
	}

	return todo, nil
}

func (tr *TodoRepository) GetAllByUser(ctx context.Context, userId int) ([]domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "GetAllByUser", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"user.id":   userId,
	})
	defer span.End()

	query, args, err := tr.db.QueryBuilder.
		Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"user_id": userId}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "GetAllByUser", "todo", query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())

		return nil, err
	}

	defer rows.Close()

	todos := make([]domain.Todo, 0)

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return nil, err
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(map[string]interface{}{"db.rows_returned": len(todos)})

	return todos, nil
}

func (tr *TodoRepository) GetByID(ctx context.Context, id int, userId int) (domain.Todo, error) {
	// id and user_id filter in one statement: the ownership check can never
	// be separated from the lookup.
	query, args, err := tr.db.QueryBuilder.
		Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"id": id, "user_id": userId}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "GetByID", "todo", query, args)

	todo, err := scanTodo(tr.db.QueryRowContext(ctx, query, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.ErrNotFound
	}

	if err != nil {
		slog.Error("Error getting todo", "error", err, "id", id)
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"user.id":   todo.UserId,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Insert("todos").
		Columns("title", "description", "completed", "priority", "due_date", "user_id", "created_at", "updated_at").
		Values(todo.Title, todo.Description, todo.Completed, todo.Priority, todo.DueDate, todo.UserId, todo.CreatedAt, todo.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", "todo", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		slog.Error("Insert failed", "error", err)

		return domain.Todo{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Todo{}, err
	}

	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "todo", time.Since(startTime), nil)

	return tr.GetByID(ctx, int(id), todo.UserId)
}

func (tr *TodoRepository) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Update", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"todo.id":   todo.ID,
		"user.id":   todo.UserId,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Update("todos").
		Set("title", todo.Title).
		Set("description", todo.Description).
		Set("completed", todo.Completed).
		Set("priority", todo.Priority).
		Set("due_date", todo.DueDate).
		Set("updated_at", todo.UpdatedAt).
		Where(sq.Eq{"id": todo.ID, "user_id": todo.UserId}).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Update", "todo", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())

		return domain.Todo{}, err
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return domain.Todo{}, err
	}

	if rowsAffected == 0 {
		tr.telemetry.RecordRepositoryOperation(ctx, "Update", "todo", time.Since(startTime), domain.ErrNotFound)
		return domain.Todo{}, domain.ErrNotFound
	}

	tr.telemetry.RecordRepositoryOperation(ctx, "Update", "todo", time.Since(startTime), nil)

	return tr.GetByID(ctx, todo.ID, todo.UserId)
}

func (tr *TodoRepository) DeleteByID(ctx context.Context, id int, userId int) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "DeleteByID", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"todo.id":   id,
		"user.id":   userId,
	})
	defer span.End()

	query, args, err := tr.db.QueryBuilder.
		Delete("todos").
		Where(sq.Eq{"id": id, "user_id": userId}).
		ToSql()

	if err != nil {
		return err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "DeleteByID", "todo", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())

		return err
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
