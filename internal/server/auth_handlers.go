package server

import (
	"fmt"
	"time"

	"queentouch/internal/models"
	"queentouch/internal/pricing"
	"queentouch/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Signup(c.Context(), service.SignupInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	actor := currentActor(c)
	user, err := s.userService.GetByID(c.Context(), actor.UserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	fraction, label := pricing.Discount(models.ActorFromUser(user))
	return c.JSON(fiber.Map{
		"user":           user,
		"discount":       fraction,
		"discount_label": label,
	})
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	actor := currentActor(c)
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   actor.UserID,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetMembershipTiers handles GET /api/membership/tiers
// The cards price through the same engine as the catalog and checkout, so a
// rate change in internal/pricing shows up here without a second edit.
func (s *Server) GetMembershipTiers(c *fiber.Ctx) error {
	tiers := []models.Tier{models.TierBronze, models.TierSilver, models.TierGold}
	cards := make([]fiber.Map, 0, len(tiers))
	for _, tier := range tiers {
		fraction, label := pricing.Discount(&models.Actor{Role: models.RoleMember, Tier: tier})
		cards = append(cards, fiber.Map{
			"tier":     tier,
			"discount": fraction,
			"label":    label,
		})
	}
	return c.JSON(fiber.Map{"tiers": cards})
}

// Subscribe handles POST /api/membership/subscribe
func (s *Server) Subscribe(c *fiber.Ctx) error {
	actor := currentActor(c)
	var req struct {
		Tier models.Tier `json:"tier"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Subscribe(c.Context(), actor.UserID, req.Tier)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Issue a fresh token so the new tier is effective immediately.
	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// generateToken creates a JWT carrying the actor snapshot used for
// authorization and pricing.
func (s *Server) generateToken(user *models.User) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"name":     user.Name,
		"role":     string(user.Role),
		"tier":     string(user.Tier),
		"is_admin": user.IsAdmin,
		"iss":      "queentouch-api",
		"aud":      "queentouch-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
