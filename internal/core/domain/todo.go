package domain

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(value string) (Priority, error) {
	switch value {
	case "", string(PriorityMedium):
		return PriorityMedium, nil
	case string(PriorityLow):
		return PriorityLow, nil
	case string(PriorityHigh):
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority: %s", value)
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}

	return false
}

type Todo struct {
	ID          int
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=1000"`
	Completed   bool
	Priority    Priority
	DueDate     *time.Time
	UserId      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Todo) BelongsToUser(userID int) bool {
	return t.UserId == userID
}
