package handler

import (
	"net/http"

	. "todoapi/internal/adapter/http/helper"
	. "todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/pkg/logger"
	. "todoapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc    port.AuthService
	Logger *logger.Logger
}

func NewAuthHandler(svc port.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		Logger: log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.auth.Register", []attribute.KeyValue{
		attribute.String("handler.operation", "Register"),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	var params request.SignUpRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := h.svc.Register(ctx, &params)

	if err != nil {
		AddSpanError(span, err)

		h.Logger.Ctx(ctx).Warn("Registration failed",
			zap.Error(err),
			zap.String("email", params.Email),
		)

		SendDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))

	c.JSON(http.StatusCreated, response.MessageResponse{
		Message: "User registered successfully",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.auth.Login", []attribute.KeyValue{
		attribute.String("handler.operation", "Login"),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	var params request.LoginRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	token, err := h.svc.Login(ctx, &params)

	if err != nil {
		AddSpanError(span, err)

		h.Logger.Ctx(ctx).Warn("Login failed",
			zap.Error(err),
			zap.String("email", params.Email),
		)

		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{AccessToken: token})
}
