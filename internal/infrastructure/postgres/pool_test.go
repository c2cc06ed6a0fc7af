package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/samokat-api/internal/infrastructure/postgres"
	"github.com/jhoicas/samokat-api/pkg/config"
)

func TestPoolConfig_TamanoDesdeConfig(t *testing.T) {
	pc, err := postgres.PoolConfig(config.DBConfig{
		Host: "db", Port: 5432, User: "postgres", Password: "x", DBName: "samokat_db", SSLMode: "disable",
		MaxConns: 8, MinConns: 1,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 1, pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "samokat_db", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect, "registra el codec decimal en cada conexión")
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := postgres.PoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@h:notaport/x"})
	assert.Error(t, err)
}
