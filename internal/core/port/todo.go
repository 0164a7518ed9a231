package port

import (
	"context"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
)

// TodoRepository scopes every lookup and mutation by (id, user_id) in a
// single statement. Owner mismatch and absence are both domain.ErrNotFound.
type TodoRepository interface {
	GetAllByUser(ctx context.Context, userId int) ([]domain.Todo, error)
	GetByID(ctx context.Context, id int, userId int) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	DeleteByID(ctx context.Context, id int, userId int) error
}

type TodoService interface {
	GetAllTodos(ctx context.Context, userId int) ([]domain.Todo, error)
	GetTodo(ctx context.Context, id int, userId int) (domain.Todo, error)
	Create(ctx context.Context, userId int, req *request.TodoCreateRequest) (domain.Todo, error)
	Update(ctx context.Context, id int, userId int, patch *request.TodoPatchRequest) (domain.Todo, error)
	Delete(ctx context.Context, id int, userId int) error
}
