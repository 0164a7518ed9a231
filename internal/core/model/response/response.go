package response

import (
	"time"

	"todoapi/internal/core/domain"
)

type TodoResponse struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	DueDate     *string   `json:"due_date"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserId      int       `json:"user_id"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	var dueDate *string

	if todo.DueDate != nil {
		formatted := todo.DueDate.Format(time.RFC3339)
		dueDate = &formatted
	}

	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		DueDate:     dueDate,
		Priority:    string(todo.Priority),
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
		UserId:      todo.UserId,
	}
}

func NewTodoListResponse(todos []domain.Todo) []TodoResponse {
	data := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, NewTodoResponse(todo))
	}

	return data
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
