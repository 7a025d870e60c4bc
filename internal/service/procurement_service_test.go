package service

import (
	"encoding/json"
	"testing"

	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestProcurementCreate_AlwaysPending(t *testing.T) {
	env := newTestEnv()
	svc := env.procurementService()

	for _, actor := range []model.Actor{env.staff, env.manager, env.admin} {
		p, err := svc.Create(actor, &CreateProcurementRequest{
			Title:       "10x Laptop Dell Latitude",
			TotalAmount: 85000,
		})
		if err != nil {
			t.Fatalf("create as %s: %v", actor.Role, err)
		}
		if p.Status != model.StatusPending {
			t.Errorf("%s submission: status = %s, want PENDING", actor.Role, p.Status)
		}
	}
}

func TestProcurementCreate_DefaultsAndAnalysis(t *testing.T) {
	env := newTestEnv()
	svc := env.procurementService()

	p, err := svc.Create(env.staff, &CreateProcurementRequest{
		Title:       "Office chairs",
		TotalAmount: 1200,
		Category:    "Furniture",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var analysis map[string]string
	if err := json.Unmarshal([]byte(p.AIAnalysis), &analysis); err != nil {
		t.Fatalf("analysis not valid JSON: %v", err)
	}
	if analysis["priority"] != "MEDIUM" {
		t.Errorf("priority = %q, want MEDIUM default", analysis["priority"])
	}
	if analysis["category"] != "Furniture" {
		t.Errorf("category = %q", analysis["category"])
	}

	mail := <-env.sender.sent
	if mail.Subject == "" {
		t.Error("expected a notification subject")
	}
}

func TestProcurementCreate_AuditorForbidden(t *testing.T) {
	env := newTestEnv()
	svc := env.procurementService()

	_, err := svc.Create(env.auditor, &CreateProcurementRequest{Title: "Snacks", TotalAmount: 50})
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(env.store.procs) != 0 {
		t.Error("forbidden create must leave nothing behind")
	}
}

func TestProcurementUpdateStatus(t *testing.T) {
	env := newTestEnv()
	svc := env.procurementService()

	p, _ := svc.Create(env.staff, &CreateProcurementRequest{Title: "Projector", TotalAmount: 900})
	<-env.sender.sent

	if _, err := svc.UpdateStatus(env.staff, p.ID, model.StatusApproved); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("staff approval should be forbidden, got %v", err)
	}
	if _, err := svc.UpdateStatus(env.manager, p.ID, model.StatusPending); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("PENDING is not a valid target state, got %v", err)
	}

	approved, err := svc.UpdateStatus(env.manager, p.ID, model.StatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.StatusApproved {
		t.Errorf("status = %s", approved.Status)
	}

	// Terminal states are final.
	if _, err := svc.UpdateStatus(env.manager, p.ID, model.StatusRejected); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("processed request should conflict, got %v", err)
	}
}

func TestProcurementUpdateStatus_MailFailureDoesNotFail(t *testing.T) {
	env := newTestEnv()
	svc := NewProcurementService(env.repos, failingSender{}, nopLogger())

	p, err := svc.Create(env.staff, &CreateProcurementRequest{Title: "Server rack", TotalAmount: 4000})
	if err != nil {
		t.Fatalf("create must not depend on mail delivery: %v", err)
	}
	if _, err := svc.UpdateStatus(env.manager, p.ID, model.StatusApproved); err != nil {
		t.Fatalf("approval must not depend on mail delivery: %v", err)
	}
}

func TestProcurementDelete(t *testing.T) {
	env := newTestEnv()
	svc := env.procurementService()

	p, _ := svc.Create(env.staff, &CreateProcurementRequest{Title: "Cables", TotalAmount: 30})

	if err := svc.Delete(env.staff, p.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("staff delete should be forbidden, got %v", err)
	}
	if err := svc.Delete(env.manager, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.repos.Procurements.FindByID(p.ID); err != gorm.ErrRecordNotFound {
		t.Error("request must be gone after delete")
	}
	if err := svc.Delete(env.manager, uuid.New()); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
