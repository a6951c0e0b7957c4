// Package middleware provides authentication, logging, rate limiting, and
// metrics middleware for the application.
package middleware

import (
	"strings"

	"queentouch/internal/config"
	"queentouch/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// ActorFromClaims rebuilds the actor snapshot from validated JWT claims.
func ActorFromClaims(claims jwt.MapClaims) (*models.Actor, error) {
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject")
	}

	actor := &models.Actor{UserID: uint(sub)}
	if email, ok := claims["email"].(string); ok {
		actor.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		actor.Name = name
	}
	if role, ok := claims["role"].(string); ok {
		actor.Role = models.Role(role)
	}
	if tier, ok := claims["tier"].(string); ok {
		actor.Tier = models.Tier(tier)
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		actor.IsAdmin = isAdmin
	}
	if actor.Email == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing email")
	}
	return actor, nil
}

func parseBearerToken(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	return claims, nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// On success it stores the user ID and the actor snapshot in Fiber locals.
func AuthRequired(c *fiber.Ctx) error {
	claims, err := parseBearerToken(c)
	if err != nil {
		ferr := err.(*fiber.Error)
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	actor, err := ActorFromClaims(claims)
	if err != nil {
		ferr := err.(*fiber.Error)
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	c.Locals("userID", actor.UserID)
	c.Locals("actor", actor)
	return c.Next()
}

// AuthOptional resolves the actor when a bearer token is present but lets
// anonymous requests through. Used on read-only comment routes.
func AuthOptional(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}

	claims, err := parseBearerToken(c)
	if err != nil {
		return c.Next()
	}
	if actor, err := ActorFromClaims(claims); err == nil {
		c.Locals("userID", actor.UserID)
		c.Locals("actor", actor)
	}
	return c.Next()
}

// AdminRequired enforces that the authenticated actor has admin rights.
// It must run after AuthRequired.
func AdminRequired(c *fiber.Ctx) error {
	actor, _ := c.Locals("actor").(*models.Actor)
	if !actor.CanModerate() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin only"})
	}
	return c.Next()
}
