package middleware

import (
	"strings"

	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"
	"github.com/shinerking/nexusflow/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// RequireAuth validates the session token, re-reads the user from the
// store (role changes take effect immediately), and stores the actor in
// the request context. Failing here is "not logged in" (401), distinct
// from the 403 a role gate produces.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		c.Locals(actorKey, user.AsActor())
		return c.Next()
	}
}

// RequireAction rejects requests whose actor's role is not in the
// permission table for the action. Services re-check before any side
// effect; this gate exists so denied requests never reach a handler.
func RequireAction(action model.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(actorKey).(model.Actor)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
		}
		if !model.CanPerformAction(actor.Role, action) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Access denied: role " + string(actor.Role) + " cannot perform " + string(action),
			})
		}
		return c.Next()
	}
}

// ActorFromCtx returns the request actor set by RequireAuth.
func ActorFromCtx(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(actorKey).(model.Actor)
	return actor, ok
}
