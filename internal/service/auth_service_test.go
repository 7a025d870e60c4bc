package service

import (
	"os"
	"testing"

	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/pkg/jwt"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	svc := NewAuthService(env.repos.Users)

	result, err := svc.Login("sam@demo.test")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.Role != model.RoleStaff {
		t.Errorf("role = %s, want STAFF", result.User.Role)
	}

	claims, err := jwt.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.UserID != env.staff.ID {
		t.Error("token carries wrong user")
	}
	if claims.OrganizationID != env.org.ID {
		t.Error("token carries wrong organization")
	}
}

func TestLogin_NormalizesEmail(t *testing.T) {
	env := newTestEnv()
	svc := NewAuthService(env.repos.Users)

	result, err := svc.Login("  SAM@Demo.Test ")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != env.staff.ID {
		t.Error("normalized email should match the same user")
	}
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv()
	svc := NewAuthService(env.repos.Users)

	if _, err := svc.Login("nobody@demo.test"); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("unknown email: expected unauthorized, got %v", err)
	}
	if _, err := svc.Login("   "); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("blank email: expected validation error, got %v", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	env := newTestEnv()
	svc := NewSettingsService(env.repos)

	if err := svc.UpdateSettings(env.staff, &UpdateSettingsRequest{Name: "Sam S."}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("staff settings access should be forbidden, got %v", err)
	}

	if err := svc.UpdateSettings(env.manager, &UpdateSettingsRequest{Name: ""}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("empty name should fail validation, got %v", err)
	}

	if err := svc.UpdateSettings(env.manager, &UpdateSettingsRequest{Name: "Mark M.", OrganizationName: "Demo Corp Intl"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	u, _ := env.repos.Users.FindByID(env.manager.ID)
	if u.Name != "Mark M." {
		t.Errorf("user name = %q", u.Name)
	}
	if u.Role != model.RoleManager {
		t.Error("settings must never change the role")
	}
	o, _ := env.repos.Organizations.FindByID(env.org.ID)
	if o.Name != "Demo Corp Intl" {
		t.Errorf("org name = %q", o.Name)
	}
}

func TestUpdateSettings_OrgNameOptional(t *testing.T) {
	env := newTestEnv()
	svc := NewSettingsService(env.repos)

	if err := svc.UpdateSettings(env.admin, &UpdateSettingsRequest{Name: "Alice A."}); err != nil {
		t.Fatalf("update: %v", err)
	}
	o, _ := env.repos.Organizations.FindByID(env.org.ID)
	if o.Name != "Demo Corp" {
		t.Errorf("org name should be untouched, got %q", o.Name)
	}
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv()
	svc := NewDashboardService(env.repos)

	env.addProduct("Plenty", 50, model.ProductApproved)
	low := env.addProduct("Running Low", 3, model.ProductApproved)
	env.addProduct("Awaiting Review", 2, model.ProductPending)
	env.repos.StockLogs.Create(&model.StockLog{
		UserID: env.staff.ID, ProductID: low.ID,
		Type: model.StockIn, Quantity: 10, Reason: "restock",
		Status: model.StatusPending,
	})
	env.repos.Procurements.Create(&model.Procurement{
		Title: "New shelving", Status: model.StatusPending, OrganizationID: env.org.ID,
	})

	stats, err := svc.Stats(env.manager)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 3 {
		t.Errorf("total = %d, want 3", stats.TotalProducts)
	}
	if stats.LowStockCount != 2 {
		t.Errorf("low stock = %d, want 2 (stock 3 and pending stock 2)", stats.LowStockCount)
	}
	if stats.PendingApprovals != 2 {
		t.Errorf("pending approvals = %d, want 2", stats.PendingApprovals)
	}
	if stats.PendingProcurements != 1 {
		t.Errorf("pending procurements = %d, want 1", stats.PendingProcurements)
	}
}
