package db

import (
	"testing"

	"app/internal/config"

	"github.com/stretchr/testify/assert"
)

// =====================
// BuildDSN
// =====================

func TestBuildDSN_FromConfig(t *testing.T) {
	cfg := config.Config{
		PostgresUser:     "billing",
		PostgresPassword: "secret",
		PostgresDB:       "invoicing",
		PostgresHost:     "db.internal",
		PostgresPort:     5433,
	}

	dsn := BuildDSN(cfg)

	assert.Equal(t,
		"host=db.internal port=5433 user=billing password=secret dbname=invoicing sslmode=disable",
		dsn,
	)
}

func TestBuildDSN_SSLModeOverride(t *testing.T) {
	t.Setenv("POSTGRES_SSLMODE", "require")

	cfg := config.Config{
		PostgresUser:     "billing",
		PostgresPassword: "secret",
		PostgresDB:       "invoicing",
		PostgresHost:     "localhost",
		PostgresPort:     5432,
	}

	assert.Contains(t, BuildDSN(cfg), "sslmode=require")
}
