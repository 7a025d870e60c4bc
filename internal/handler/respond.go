package handler

import (
	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/middleware"
	"github.com/shinerking/nexusflow/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// UseLogger installs the process logger used for internal fault
// diagnostics. Called once from main before routes are served.
func UseLogger(l *zap.SugaredLogger) {
	if l != nil {
		log = l
	}
}

// actor pulls the request identity set by RequireAuth. Routes are all
// behind the middleware so a miss means a wiring bug, surfaced as 401.
func actor(c *fiber.Ctx) (model.Actor, error) {
	a, ok := middleware.ActorFromCtx(c)
	if !ok {
		return model.Actor{}, c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return a, nil
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// fail maps the service error taxonomy to HTTP statuses. Internal
// faults are logged with their cause and the caller only sees a
// generic message.
func fail(c *fiber.Ctx, err error) error {
	status := apperr.StatusCode(err)
	msg := err.Error()
	if status == 500 {
		log.Errorw("internal error", "method", c.Method(), "path", c.Path(), "err", err)
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
