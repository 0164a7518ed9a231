package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/routes"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	"todoapi/internal/core/util"
	"todoapi/pkg/auth"
	"todoapi/pkg/logger"
	"todoapi/pkg/test"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret"

type AuthHandlerSuite struct {
	suite.Suite
	Router *gin.Engine
}

func (s *AuthHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db := test.InitTestDB()
	probe := telemetry.NewNoOpProbe()

	userRepo := repository.NewUserRepository(db, probe)
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	authSvc := service.NewAuthService(userRepo, util.NewBcryptHasher(), tokens, probe)

	log, err := logger.New("test")
	s.Require().NoError(err)

	s.Router = routes.SetupRouterForTests(routes.HandlersConfig{
		AuthHandler: handler.NewAuthHandler(authSvc, log),
		Tokens:      tokens,
	})
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *AuthHandlerSuite) TestRegisterSuccess() {
	rr := s.request("POST", "/api/register", `{"email": "alice@example.com", "password": "secret123"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	var body map[string]string
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(body["message"]).To(Equal("User registered successfully"))
}

func (s *AuthHandlerSuite) TestRegisterInvalidEmail() {
	rr := s.request("POST", "/api/register", `{"email": "not-an-email", "password": "secret123"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	var body map[string]string
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(body["error"]).To(Equal("Invalid email format"))
}

func (s *AuthHandlerSuite) TestRegisterShortPassword() {
	rr := s.request("POST", "/api/register", `{"email": "alice@example.com", "password": "123"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *AuthHandlerSuite) TestRegisterDuplicateEmail() {
	payload := `{"email": "alice@example.com", "password": "secret123"}`

	Expect(s.request("POST", "/api/register", payload).Code).To(Equal(http.StatusCreated))

	rr := s.request("POST", "/api/register", payload)

	Expect(rr.Code).To(Equal(http.StatusConflict))

	var body map[string]string
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(body["error"]).To(Equal("Email already registered"))
}

func (s *AuthHandlerSuite) TestLoginSuccess() {
	s.request("POST", "/api/register", `{"email": "alice@example.com", "password": "secret123"}`)

	rr := s.request("POST", "/api/login", `{"email": "alice@example.com", "password": "secret123"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var body map[string]string
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(body["access_token"]).NotTo(BeEmpty())
}

func (s *AuthHandlerSuite) TestLoginWrongPassword() {
	s.request("POST", "/api/register", `{"email": "alice@example.com", "password": "secret123"}`)

	rr := s.request("POST", "/api/login", `{"email": "alice@example.com", "password": "wrong-password"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))

	var body map[string]string
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(body["error"]).To(Equal("Invalid email or password"))
}

func (s *AuthHandlerSuite) TestLoginUnknownEmail() {
	rr := s.request("POST", "/api/login", `{"email": "nobody@example.com", "password": "secret123"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))

	var body map[string]string
	json.Unmarshal(rr.Body.Bytes(), &body)

	// Same body as a wrong password: no account enumeration.
	Expect(body["error"]).To(Equal("Invalid email or password"))
}
