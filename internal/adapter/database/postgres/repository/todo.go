package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"todoapi/internal/adapter/database/postgres"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const todoColumns = "id, title, description, completed, priority, due_date, user_id, created_at, updated_at"

type TodoRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *postgres.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func scanTodo(row pgx.Row) (domain.Todo, error) {
	var todo domain.Todo

	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.Priority,
		&todo.DueDate,
		&todo.UserId,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	return todo, err
}

func (tr *TodoRepository) GetAllByUser(ctx context.Context, userId int) ([]domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "GetAllByUser", "todo", map[string]interface{}{
		"db.system": "postgresql",
		"db.table":  "todos",
		"user.id":   userId,
	})
	defer span.End()

	query := "SELECT " + todoColumns + " FROM todos WHERE user_id = $1 ORDER BY id ASC"

	tr.telemetry.RecordRepositoryQuery(ctx, "GetAllByUser", "todo", query, []interface{}{userId})

	rows, err := tr.db.Query(ctx, query, userId)

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
	query := "SELECT " + todoColumns + " FROM todos WHERE id = $1 AND user_id = $2 LIMIT 1"

	tr.telemetry.RecordRepositoryQuery(ctx, "GetByID", "todo", query, []interface{}{id, userId})

	todo, err := scanTodo(tr.db.QueryRow(ctx, query, id, userId))

	if errors.Is(err, pgx.ErrNoRows) {
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
		"db.system": "postgresql",
		"db.table":  "todos",
		"user.id":   todo.UserId,
	})
	defer span.End()

	query := "INSERT INTO todos (title, description, completed, priority, due_date, user_id, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING " + todoColumns

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", "todo", query, []interface{}{todo.Title, todo.UserId})

	saved, err := scanTodo(tr.db.QueryRow(ctx, query,
		todo.Title, todo.Description, todo.Completed, todo.Priority,
		todo.DueDate, todo.UserId, todo.CreatedAt, todo.UpdatedAt,
	))

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		slog.Error("Insert failed", "error", err)

		return domain.Todo{}, err
	}

	return saved, nil
}

func (tr *TodoRepository) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Update", "todo", map[string]interface{}{
		"db.system": "postgresql",
		"db.table":  "todos",
		"todo.id":   todo.ID,
		"user.id":   todo.UserId,
	})
	defer span.End()

	query := "UPDATE todos SET title = $1, description = $2, completed = $3, priority = $4, due_date = $5, updated_at = $6 " +
		"WHERE id = $7 AND user_id = $8 RETURNING " + todoColumns

	tr.telemetry.RecordRepositoryQuery(ctx, "Update", "todo", query, []interface{}{todo.ID, todo.UserId})

	updated, err := scanTodo(tr.db.QueryRow(ctx, query,
		todo.Title, todo.Description, todo.Completed, todo.Priority,
		todo.DueDate, todo.UpdatedAt, todo.ID, todo.UserId,
	))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Todo{}, domain.ErrNotFound
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())

		return domain.Todo{}, err
	}

	return updated, nil
}

func (tr *TodoRepository) DeleteByID(ctx context.Context, id int, userId int) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "DeleteByID", "todo", map[string]interface{}{
		"db.system": "postgresql",
		"db.table":  "todos",
		"todo.id":   id,
		"user.id":   userId,
	})
	defer span.End()

	query := "DELETE FROM todos WHERE id = $1 AND user_id = $2"

	tr.telemetry.RecordRepositoryQuery(ctx, "DeleteByID", "todo", query, []interface{}{id, userId})

	result, err := tr.db.Exec(ctx, query, id, userId)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())

		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
