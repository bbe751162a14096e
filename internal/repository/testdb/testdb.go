// Package testdb opens an in-memory sqlite database with the application schema for
// repository tests.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	groupsdomain "social-app-go/internal/domain/groups"
	imagesdomain "social-app-go/internal/domain/images"
	postsdomain "social-app-go/internal/domain/posts"
	profilesdomain "social-app-go/internal/domain/profiles"
	userdomain "social-app-go/internal/domain/user"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&userdomain.User{},
		&profilesdomain.Profile{},
		&groupsdomain.Group{},
		&groupsdomain.Membership{},
		&postsdomain.Post{},
		&imagesdomain.Image{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec("CREATE UNIQUE INDEX idx_users_username_lower ON users (LOWER(username))").Error; err != nil {
		t.Fatalf("username index: %v", err)
	}

	return db
}

// CreateUser inserts an account row with an unusable password.
func CreateUser(t testing.TB, db *gorm.DB, id, username string) {
	t.Helper()

	if err := db.Create(&userdomain.User{ID: id, Username: username, PasswordHash: "!"}).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
}
