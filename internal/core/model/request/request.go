package request

type SignUpRequest struct {
	Email    string `json:"email,omitempty" validate:"required,max=255"`
	Password string `json:"password,omitempty" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,max=255"`
	Password string `json:"password,omitempty" validate:"required"`
}

type TodoCreateRequest struct {
	Title       string `json:"title,omitempty" validate:"max=255"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	Completed   bool   `json:"completed,omitempty"`
	// Priority is a pointer so an explicit "" is distinguishable from an
	// absent key: absence defaults to medium, "" is rejected.
	Priority *string `json:"priority,omitempty"`
	DueDate  string  `json:"due_date,omitempty"`
}

// TodoPatchRequest is a partial update: a nil field was absent from the
// request and keeps its current value.
type TodoPatchRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Completed   *bool   `json:"completed,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}
