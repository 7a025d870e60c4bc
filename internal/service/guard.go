package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/mailer"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// requireAction is the first statement of every mutating operation: no
// side effect happens before it passes. A missing actor is 401, a role
// outside the table is 403.
func requireAction(actor model.Actor, action model.Action) error {
	if actor.ID == uuid.Nil {
		return apperr.Unauthorized("Not logged in")
	}
	if !model.CanPerformAction(actor.Role, action) {
		return apperr.Forbidden("Access denied: role " + string(actor.Role) + " cannot perform " + string(action))
	}
	return nil
}

// validateStruct folds every validator failure into one validation
// error so the caller sees the full list, not just the first field.
func validateStruct(data interface{}) error {
	errs := validator.ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = fmt.Sprintf("field '%s' failed on '%s'", e.Field, e.Rule)
	}
	return apperr.Validation("Validation failed: %s", strings.Join(parts, "; "))
}

// notFoundOr turns a gorm record miss into a NotFound error and wraps
// anything else as an infrastructure fault.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	return apperr.Internal(what+" lookup failed", err)
}

// dispatchMail fires a notification without blocking the caller.
// Failures are logged and never propagate into the triggering
// operation.
func dispatchMail(log *zap.SugaredLogger, sender mailer.Sender, to []string, subject, body string) {
	if sender == nil || len(to) == 0 {
		return
	}
	go func() {
		if err := sender.Send(to, subject, body); err != nil {
			log.Warnw("notification send failed", "subject", subject, "recipients", len(to), "err", err)
		}
	}()
}
