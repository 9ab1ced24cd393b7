// Package bootstrap holds the idempotent startup routine: schema creation
// and optional default-admin seeding. Both are plain functions over an
// injected DB handle so they can be invoked from tests without a process
// start.
package bootstrap

import (
	"context"
	"log"

	"gorm.io/gorm"

	"clinic-records-server/internal/config"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/repository"
)

// Ensure creates any missing tables. AutoMigrate is additive and safe to
// call on every boot. A failure here is fatal to the caller: the
// application cannot serve without its schema.
func Ensure(db *gorm.DB) error {
	return db.AutoMigrate(models.AllModels()...)
}

// SeedDefaultAdmin creates the initial staff account if and only if no
// user rows exist yet and both seed values are set. It never overwrites an
// existing credential, so a redeploy cannot reset a rotated password.
func SeedDefaultAdmin(ctx context.Context, users repository.UserRepository, seed config.AdminSeedConfig) error {
	if seed.Username == "" || seed.Password == "" {
		log.Println("ADMIN_USER / ADMIN_PASSWORD not set; skipping default admin seeding")
		return nil
	}

	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := &models.User{Username: seed.Username}
	if err := admin.SetPassword(seed.Password); err != nil {
		return err
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("default admin %q created", seed.Username)
	return nil
}
