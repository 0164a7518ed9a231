package service_test

import (
	"context"
	"testing"
	"time"

	"todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/test"
	"todoapi/pkg/test/factory"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type TodoServiceSuite struct {
	suite.Suite
	userRepo port.UserRepository
	repo     port.TodoRepository
	svc      *service.TodoService
	owner    domain.User
	other    domain.User
}

func (s *TodoServiceSuite) SetupTest() {
	db := test.InitTestDB()
	probe := telemetry.NewNoOpProbe()

	s.userRepo = repository.NewUserRepository(db, probe)
	s.repo = repository.NewTodoRepository(db, probe)
	s.svc = service.NewTodoService(s.repo, probe)

	ctx := context.Background()

	owner, err := s.userRepo.Create(ctx, factory.NewUser(map[string]any{"Email": "owner@example.com"}))
	s.Require().NoError(err)
	s.owner = owner

	other, err := s.userRepo.Create(ctx, factory.NewUser(map[string]any{"Email": "other@example.com"}))
	s.Require().NoError(err)
	s.other = other
}

func TestTodoServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoServiceSuite))
}

func (s *TodoServiceSuite) TestCreateDefaultsPriorityToMedium() {
	todo, err := s.svc.Create(context.Background(), s.owner.ID, &request.TodoCreateRequest{
		Title: "Buy milk",
	})

	Expect(err).To(BeNil())
	Expect(todo.ID).To(BeNumerically(">", 0))
	Expect(todo.Priority).To(Equal(domain.PriorityMedium))
	Expect(todo.Completed).To(BeFalse())
	Expect(todo.UserId).To(Equal(s.owner.ID))
}

func (s *TodoServiceSuite) TestCreateRequiresTitle() {
	_, err := s.svc.Create(context.Background(), s.owner.ID, &request.TodoCreateRequest{})

	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("Title is required"))
}

func (s *TodoServiceSuite) TestCreateRejectsUnknownPriority() {
	priority := "urgent"

	_, err := s.svc.Create(context.Background(), s.owner.ID, &request.TodoCreateRequest{
		Title:    "Buy milk",
		Priority: &priority,
	})

	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("Priority must be one of"))
}

func (s *TodoServiceSuite) TestCreateRejectsEmptyPriority() {
	priority := ""

	_, err := s.svc.Create(context.Background(), s.owner.ID, &request.TodoCreateRequest{
		Title:    "Buy milk",
		Priority: &priority,
	})

	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("Priority must be one of"))
}

func (s *TodoServiceSuite) TestCreateParsesDueDate() {
	todo, err := s.svc.Create(context.Background(), s.owner.ID, &request.TodoCreateRequest{
		Title:   "Buy milk",
		DueDate: "2026-10-01T12:00:00",
	})

	Expect(err).To(BeNil())
	Expect(todo.DueDate).NotTo(BeNil())
	Expect(todo.DueDate.Format("2006-01-02 15:04")).To(Equal("2026-10-01 12:00"))
}

func (s *TodoServiceSuite) TestCreateRejectsBadDueDate() {
	_, err := s.svc.Create(context.Background(), s.owner.ID, &request.TodoCreateRequest{
		Title:   "Buy milk",
		DueDate: "next tuesday",
	})

	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("Invalid date format"))
}

func (s *TodoServiceSuite) TestGetAllReturnsOnlyOwnTodos() {
	ctx := context.Background()

	_, err := s.svc.Create(ctx, s.owner.ID, &request.TodoCreateRequest{Title: "Mine"})
	s.Require().NoError(err)

	_, err = s.svc.Create(ctx, s.other.ID, &request.TodoCreateRequest{Title: "Theirs"})
	s.Require().NoError(err)

	todos, err := s.svc.GetAllTodos(ctx, s.owner.ID)

	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(1))
	Expect(todos[0].Title).To(Equal("Mine"))
}

func (s *TodoServiceSuite) TestGetTodoOfAnotherUserIsNotFound() {
	ctx := context.Background()

	todo, err := s.svc.Create(ctx, s.owner.ID, &request.TodoCreateRequest{Title: "Mine"})
	s.Require().NoError(err)

	_, err = s.svc.GetTodo(ctx, todo.ID, s.other.ID)

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoServiceSuite) TestUpdateAppliesOnlyProvidedFields() {
	ctx := context.Background()

	low := "low"

	todo, err := s.svc.Create(ctx, s.owner.ID, &request.TodoCreateRequest{
		Title:       "Original",
		Description: "Keep me",
		Priority:    &low,
	})
	s.Require().NoError(err)

	completed := true

	updated, err := s.svc.Update(ctx, todo.ID, s.owner.ID, &request.TodoPatchRequest{
		Completed: &completed,
	})

	Expect(err).To(BeNil())
	Expect(updated.Completed).To(BeTrue())
	Expect(updated.Title).To(Equal("Original"))
	Expect(updated.Description).To(Equal("Keep me"))
	Expect(updated.Priority).To(Equal(domain.PriorityLow))
}

func (s *TodoServiceSuite) TestUpdateRefreshesUpdatedAt() {
	ctx := context.Background()

	todo, err := s.svc.Create(ctx, s.owner.ID, &request.TodoCreateRequest{Title: "Original"})
	s.Require().NoError(err)

	time.Sleep(10 * time.Millisecond)

	title := "Renamed"
	updated, err := s.svc.Update(ctx, todo.ID, s.owner.ID, &request.TodoPatchRequest{Title: &title})

	Expect(err).To(BeNil())
	Expect(updated.UpdatedAt.After(todo.UpdatedAt)).To(BeTrue())
	Expect(updated.CreatedAt.Equal(todo.CreatedAt)).To(BeTrue())
}

func (s *TodoServiceSuite) TestUpdateRejectsInvalidPatchBeforeApplying() {
	ctx := context.Background()

	todo, err := s.svc.Create(ctx, s.owner.ID, &request.TodoCreateRequest{Title: "Original"})
	s.Require().NoError(err)

	title := "Renamed"
	badPriority := "urgent"

	_, err = s.svc.Update(ctx, todo.ID, s.owner.ID, &request.TodoPatchRequest{
		Title:    &title,
		Priority: &badPriority,
	})

	Expect(err).To(HaveOccurred())

	unchanged, err := s.svc.GetTodo(ctx, todo.ID, s.owner.ID)
	Expect(err).To(BeNil())
	Expect(unchanged.Title).To(Equal("Original"))
}

func (s *TodoServiceSuite) TestUpdateOfAnotherUserIsNotFound() {
	ctx := context.Background()

	todo, err := s.svc.Create(ctx, s.owner.ID, &request.TodoCreateRequest{Title: "Mine"})
	s.Require().NoError(err)

	title := "Hijacked"
	_, err = s.svc.Update(ctx, todo.ID, s.other.ID, &request.TodoPatchRequest{Title: &title})

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoServiceSuite) TestDelete() {
	ctx := context.Background()

	todo, err := s.svc.Create(ctx, s.owner.ID, &request.TodoCreateRequest{Title: "Mine"})
	s.Require().NoError(err)

	Expect(s.svc.Delete(ctx, todo.ID, s.owner.ID)).To(Succeed())

	_, err = s.svc.GetTodo(ctx, todo.ID, s.owner.ID)
	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoServiceSuite) TestDeleteOfAnotherUserIsNotFound() {
	ctx := context.Background()

	todo, err := s.svc.Create(ctx, s.owner.ID, &request.TodoCreateRequest{Title: "Mine"})
	s.Require().NoError(err)

	err = s.svc.Delete(ctx, todo.ID, s.other.ID)

	Expect(err).To(MatchError(domain.ErrNotFound))

	_, err = s.svc.GetTodo(ctx, todo.ID, s.owner.ID)
	Expect(err).To(BeNil())
}
