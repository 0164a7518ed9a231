package factory

import (
	fab "github.com/Goldziher/fabricator"

	"todoapi/internal/core/domain"
)

func NewTodo(customData ...map[string]any) domain.Todo {
	instance := fab.New(domain.Todo{})

	hasPriority := false

	for _, data := range customData {
		if _, exists := data["Priority"]; exists {
			hasPriority = true
			break
		}
	}

	if !hasPriority {
		customData = append(customData, map[string]any{
			"Priority": domain.PriorityMedium,
		})
	}

	return instance.Build(customData...)
}
