package repository_test

import (
	"context"
	"testing"

	"todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	"todoapi/pkg/test"
	"todoapi/pkg/test/factory"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type UserRepositorySuite struct {
	suite.Suite
	repo port.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.repo = repository.NewUserRepository(test.InitTestDB(), nil)
}

func TestUserRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositorySuite))
}

func (s *UserRepositorySuite) TestCreateAssignsID() {
	user, err := s.repo.Create(context.Background(), factory.NewUser(map[string]any{
		"Email": "alice@example.com",
	}))

	Expect(err).To(BeNil())
	Expect(user.ID).To(BeNumerically(">", 0))
	Expect(user.Email).To(Equal("alice@example.com"))
}

func (s *UserRepositorySuite) TestCreateDuplicateEmail() {
	ctx := context.Background()

	_, err := s.repo.Create(ctx, factory.NewUser(map[string]any{"Email": "alice@example.com"}))
	Expect(err).To(BeNil())

	_, err = s.repo.Create(ctx, factory.NewUser(map[string]any{"Email": "alice@example.com"}))
	Expect(err).To(MatchError(domain.ErrEmailTaken))
}

func (s *UserRepositorySuite) TestGetByEmail() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, factory.NewUser(map[string]any{"Email": "alice@example.com"}))
	Expect(err).To(BeNil())

	found, err := s.repo.GetByEmail(ctx, "alice@example.com")

	Expect(err).To(BeNil())
	Expect(found.ID).To(Equal(created.ID))
	Expect(found.EncryptedPassword).To(Equal(created.EncryptedPassword))
}

func (s *UserRepositorySuite) TestGetByEmailNotFound() {
	_, err := s.repo.GetByEmail(context.Background(), "nobody@example.com")

	Expect(err).To(MatchError(domain.ErrNotFound))
}
