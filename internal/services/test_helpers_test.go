package services_test

import (
	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/session"
	"github.com/gobarber/gobarber-client/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func signedIn() session.Session {
	return session.Session{
		User:  models.User{ID: "user-1", Name: "Ana", Email: "ana@x.com"},
		Token: "test-token",
	}
}
