// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/baodpham/sanihub/internal/app/resources"
	employeestore "github.com/baodpham/sanihub/internal/app/store/employees"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/app/system/normalize"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), warm caches, or perform
// any app-wide setup that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, appCfg, deps, logger); err != nil {
			return err
		}
	}

	return nil
}

// ensureAdmin creates the configured admin account on first run so a
// fresh deployment has someone who can sign in.
func ensureAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	store := employeestore.New(deps.SaniHubMongoDatabase)
	email := normalize.Email(appCfg.AdminEmail)

	_, err := store.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, employeestore.ErrEmployeeNotFound) {
		return err
	}

	_, err = store.Create(ctx, modalflow.Draft{
		"full_name": "Administrator",
		"email":     email,
		"role":      "admin",
		"status":    "active",
		"password":  appCfg.AdminPassword,
	})
	if err != nil {
		return err
	}

	logger.Info("created initial admin account", zap.String("email", email))
	return nil
}
