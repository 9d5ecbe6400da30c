// Package db opens the relational store and prepares its schema
package db

import (
	"fmt"

	"kgc/registry-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch viper.GetString("database.driver") {
	case "sqlite":
		dsn := viper.GetString("database.dsn")
		if dsn == "" {
			dsn = "registry.db"
		}
		dial = sqlite.Open(dsn)
	default:
		dial = postgres.Open(viper.GetString("database.dsn"))
	}

	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and seeds the membership counter. Split out
// of New so tests can run it against their own sqlite handles.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		model.OTPChallenge{},
		model.PendingUser{},
		model.VerifiedUser{},
		model.RejectedUser{},
		model.AuditLog{},
		model.AdminUser{},
		model.MembershipSequence{},
	)
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	// Seed the membership counter row if this is a fresh database
	var count int64
	if err := db.Model(model.MembershipSequence{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&model.MembershipSequence{ID: 1, NextValue: 1}).Error; err != nil {
			return fmt.Errorf("failed to seed membership sequence, %w", err)
		}
	}

	return nil
}
