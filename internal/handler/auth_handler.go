package handler

import (
	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"
	"quiz-bank/internal/logger"
	"quiz-bank/internal/service"
	"quiz-bank/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

func NewAuthHandler(authService service.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Signup creates an account and returns a token.
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body.")
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	token, user, err := h.authService.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}

	logger.Get().Info("User signed up", zap.String("userID", user.ID), zap.Bool("isAdmin", user.IsAdmin))
	return c.Status(fiber.StatusCreated).JSON(authResponse(token, user))
}

// Signin exchanges credentials for a token.
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SigninRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req dto.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body.")
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	token, user, err := h.authService.Signin(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(token, user))
}

func authResponse(token string, user *domain.User) dto.AuthResponse {
	return dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		},
	}
}
