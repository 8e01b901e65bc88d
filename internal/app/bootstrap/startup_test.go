package bootstrap

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/baodpham/sanihub/internal/domain/models"
	"github.com/baodpham/sanihub/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{SaniHubMongoDatabase: db}
	appCfg := AppConfig{AdminEmail: "admin@test.com", AdminPassword: "first-run-secret"}

	if err := ensureAdmin(ctx, appCfg, deps, testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var emp models.Employee
	err := db.Collection("employees").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&emp)
	if err != nil {
		t.Fatalf("failed to find created admin: %v", err)
	}

	if emp.Role != "admin" {
		t.Errorf("expected role 'admin', got %q", emp.Role)
	}
	if emp.Status != "active" {
		t.Errorf("expected status 'active', got %q", emp.Status)
	}
	if emp.PasswordHash == "" {
		t.Error("expected a password hash to be set")
	}
}

func TestEnsureAdmin_LeavesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{SaniHubMongoDatabase: db}
	appCfg := AppConfig{AdminEmail: "admin@test.com", AdminPassword: "first-run-secret"}

	if err := ensureAdmin(ctx, appCfg, deps, testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var before models.Employee
	if err := db.Collection("employees").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&before); err != nil {
		t.Fatalf("failed to find created admin: %v", err)
	}

	// A second run must not create a duplicate or touch the record.
	appCfg.AdminPassword = "different-secret"
	if err := ensureAdmin(ctx, appCfg, deps, testLogger()); err != nil {
		t.Fatalf("second ensureAdmin failed: %v", err)
	}

	count, err := db.Collection("employees").CountDocuments(ctx, bson.M{"email": "admin@test.com"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 admin record, got %d", count)
	}

	var after models.Employee
	if err := db.Collection("employees").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&after); err != nil {
		t.Fatalf("failed to find admin: %v", err)
	}
	if after.PasswordHash != before.PasswordHash {
		t.Error("expected password hash to be unchanged on second run")
	}
}
