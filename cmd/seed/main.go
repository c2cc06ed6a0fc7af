// seed aplica las migraciones SQL embebidas y crea la cuenta admin inicial.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que la API (DATABASE_URL / DB_*, ADMIN_PHONE, ADMIN_USERNAME, ADMIN_PASSWORD).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/samokat-api/internal/application/auth"
	"github.com/jhoicas/samokat-api/internal/infrastructure/postgres"
	"github.com/jhoicas/samokat-api/pkg/config"
	"github.com/jhoicas/samokat-api/pkg/jwt"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name + "-seed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	for _, name := range applied {
		log.Info().Str("file", name).Msg("migración aplicada")
	}

	if cfg.Admin.Phone == "" {
		log.Info().Msg("ADMIN_PHONE vacío, no se crea admin")
		return
	}
	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("firmador JWT")
	}
	authUC := auth.NewAuthUseCase(
		postgres.NewUserRepository(pool),
		postgres.NewRoleRepository(pool),
		signer, time.Duration(cfg.JWT.Expiration)*time.Minute, log,
	)
	created, err := authUC.SeedAdmin(ctx, cfg.Admin.Phone, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("crear admin")
	}
	log.Info().Bool("created", created).Str("phone", cfg.Admin.Phone).Msg("admin inicial")
}
