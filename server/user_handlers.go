package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"quill/auth"
	"quill/models"
	"quill/repository"
	"quill/validation"
)

// GetUserProfile handles GET /blog-site/users/:username. The profile is
// public: password and email are stripped from the response.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.NewInternalError(err)
	}
	if user == nil {
		return models.NewNotFoundError("User not found")
	}

	return models.RespondSuccess(c, fiber.StatusOK, user.PublicProfile(), "User retrieved")
}

// Register handles POST /blog-site/users/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username             string `json:"username"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"passwordConfirmation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	if res := validation.ValidateRegistration(validation.RegisterInput{
		Username:             req.Username,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	}); !res.IsValid() {
		return models.NewValidationError(res.Message)
	}

	// The username check takes precedence when both collide.
	existing, err := s.userRepo.GetByEmailOrUsername(c.Context(), req.Email, req.Username)
	if err != nil {
		return models.NewInternalError(err)
	}
	if existing != nil {
		if existing.Username == req.Username {
			return models.NewConflictError("Username already exists")
		}
		return models.NewConflictError("Email already exists")
	}

	digest, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.NewInternalError(err)
	}

	user, err := s.userRepo.Create(c.Context(), &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: digest,
	})
	if err != nil {
		// Unique index catches the race the pre-check cannot.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return models.NewConflictError("Username or email already exists")
		}
		return models.NewInternalError(err)
	}

	return models.RespondSuccess(c, fiber.StatusOK,
		fiber.Map{"id": user.ID.Hex()}, "Registration successful")
}

// Login handles POST /blog-site/users/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	if res := validation.ValidateLogin(validation.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}); !res.IsValid() {
		return models.NewValidationError(res.Message)
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.NewInternalError(err)
	}
	if user == nil {
		return models.NewNotFoundError("Email not found")
	}

	if !auth.VerifyPassword(req.Password, user.Password) {
		return models.NewCredentialError("Password incorrect")
	}

	token, err := s.tokens.Issue(auth.Claims{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	return models.RespondSuccess(c, fiber.StatusOK,
		fiber.Map{"token": "Bearer " + token}, "Login successful")
}
