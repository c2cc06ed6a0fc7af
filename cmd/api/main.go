package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/samokat-api/internal/application/auth"
	"github.com/jhoicas/samokat-api/internal/application/payment"
	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
	"github.com/jhoicas/samokat-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/samokat-api/internal/infrastructure/pdf"
	"github.com/jhoicas/samokat-api/internal/infrastructure/postgres"
	"github.com/jhoicas/samokat-api/internal/infrastructure/rabbitmq"
	infraredis "github.com/jhoicas/samokat-api/internal/infrastructure/redis"
	"github.com/jhoicas/samokat-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/samokat-api/internal/interfaces/http"
	"github.com/jhoicas/samokat-api/pkg/config"
	"github.com/jhoicas/samokat-api/pkg/jwt"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// txRunner une los tres tipos de transacción que usan los casos de uso.
type txRunner interface {
	rental.TxRunner
	payment.TxRunner
	usecase.BalanceTxRunner
}

// storage repositorios + transacciones del backend elegido (PostgreSQL o memoria).
type storage struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	scooters repository.ScooterRepository
	actions  repository.ScooterActionRepository
	tariffs  repository.TariffRepository
	rentals  repository.RentalRepository
	payments repository.PaymentRepository
	tx       txRunner
	db       httpRouter.Pinger
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var st *storage
	if cfg.App.Env == "memory" {
		st = memoryStorage()
		log.Warn().Msg("APP_ENV=memory: datos en memoria, se pierden al reiniciar")
	} else {
		st, err = postgresStorage(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
	}
	defer st.close()

	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("firmador JWT")
	}
	authUC := auth.NewAuthUseCase(st.users, st.roles, signer, time.Duration(cfg.JWT.Expiration)*time.Minute, log)
	if cfg.App.Env == "memory" && cfg.Admin.Phone != "" {
		if _, err := authUC.SeedAdmin(ctx, cfg.Admin.Phone, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("crear admin inicial")
		}
	}

	// Eventos de alquiler: RabbitMQ si está configurado, si no se descartan.
	var publisher rental.EventPublisher = rental.NoopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log.Component("rabbitmq"))
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ no disponible, eventos desactivados")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	// Límite de intentos de login en Redis (opcional).
	var limiter httpRouter.LoginLimiter
	if cfg.Redis.Enabled() {
		rl, err := infraredis.NewRateLimiter(ctx, infraredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Limit:    cfg.Redis.LoginLimit,
			Window:   time.Duration(cfg.Redis.WindowSeconds) * time.Second,
		})
		if err != nil {
			log.Error().Err(err).Msg("Redis no disponible, login sin límite")
		} else {
			defer rl.Close()
			limiter = rl
		}
	}

	receipts := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	rentalUC := rental.NewRentalUseCase(st.tx, st.rentals, st.scooters, st.tariffs, publisher, receipts, log)
	paymentUC := payment.NewPaymentUseCase(st.tx, st.rentals, st.payments, log)
	scooterUC := usecase.NewScooterUseCase(st.scooters, st.actions, log)
	tariffUC := usecase.NewTariffUseCase(st.tariffs)
	userUC := usecase.NewUserUseCase(st.users, st.roles, st.tx, log)

	cron := scheduler.New(log.Component("cron"))
	ttl := time.Duration(cfg.Payments.PendingTTLMinutes) * time.Minute
	if err := cron.SchedulePaymentExpiry(cfg.Payments.ExpireCron, paymentUC, ttl); err != nil {
		log.Fatal().Err(err).Msg("programar vencimiento de pagos")
	}
	cron.Start()
	defer cron.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.ReplaceAll(cfg.HTTP.CORSOrigins, " ", ""),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Samokat API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ScooterUC: scooterUC,
		TariffUC:  tariffUC,
		UserUC:    userUC,
		RentalUC:  rentalUC,
		PaymentUC: paymentUC,
		DB:        st.db,
		Limiter:   limiter,
		Log:       log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func postgresStorage(ctx context.Context, cfg config.DBConfig) (*storage, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &storage{
		users:    postgres.NewUserRepository(pool),
		roles:    postgres.NewRoleRepository(pool),
		scooters: postgres.NewScooterRepository(pool),
		actions:  postgres.NewScooterActionRepository(pool),
		tariffs:  postgres.NewTariffRepository(pool),
		rentals:  postgres.NewRentalRepository(pool),
		payments: postgres.NewPaymentRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		db:       pool,
		close:    pool.Close,
	}, nil
}

// memoryStorage mismo catálogo de tarifas que la migración inicial.
func memoryStorage() *storage {
	store := memory.NewStore()
	store.SeedTariff("Поминутный", entity.CostTypePerMinute, decimal.RequireFromString("7.50"))
	store.SeedTariff("Фиксированный", entity.CostTypeFixed, decimal.NewFromInt(150))
	r := store.Repos()
	return &storage{
		users:    r.Users,
		roles:    r.Roles,
		scooters: r.Scooters,
		actions:  r.Actions,
		tariffs:  r.Tariffs,
		rentals:  r.Rentals,
		payments: r.Payments,
		tx:       memory.NewTxRunner(store),
		db:       store,
		close:    func() {},
	}
}
