package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/prepx-tracker-api/pkg/config"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DatabaseConfig{
		Host: "db", Port: 5433, User: "prepx", Password: "secret", Name: "tracker", SSLMode: "require",
	})
	assert.Equal(t, "host=db port=5433 user=prepx password=secret dbname=tracker sslmode=require connect_timeout=5 application_name=prepx-tracker", dsn)
}
