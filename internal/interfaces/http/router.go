package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/samokat-api/internal/application/auth"
	"github.com/jhoicas/samokat-api/internal/application/payment"
	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ScooterUC *usecase.ScooterUseCase
	TariffUC  *usecase.TariffUseCase
	UserUC    *usecase.UserUseCase
	RentalUC  *rental.RentalUseCase
	PaymentUC *payment.PaymentUseCase
	DB        Pinger
	Limiter   LoginLimiter // nil = sin límite de login
	Log       *logger.Logger
}

// Router registra las rutas de la API. Cada ruta protegida declara sus middlewares
// para que las públicas registradas después no hereden la autenticación.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	authn := AuthMiddleware(deps.AuthUC)
	anyUser := RequireTier()
	admin := RequireTier(entity.TierAdmin)
	manager := RequireTier(entity.TierManager)
	staff := RequireTier(entity.TierAdmin, entity.TierManager)

	app.Get("/health", Health(deps.DB))

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, log)
	app.Post("/token", RateLimit(deps.Limiter, log), authHandler.Token)
	app.Post("/register", authHandler.Register)
	app.Get("/verify-token/:token", authHandler.VerifyToken)
	app.Get("/users/me", authn, anyUser, authHandler.Me)
	app.Get("/admin", authn, admin, authHandler.Admin)
	app.Get("/manager", authn, manager, authHandler.Manager)

	// Usuarios (staff)
	userHandler := NewUserHandler(deps.UserUC, log)
	app.Patch("/admin/users/:user_id/role", authn, admin, userHandler.ChangeRole)
	app.Post("/manager/users/:user_id/balance", authn, manager, userHandler.TopUp)

	// Scooters
	scooterHandler := NewScooterHandler(deps.ScooterUC, log)
	app.Get("/scooters/", scooterHandler.List)
	app.Get("/scooters/by-frame/:frame", scooterHandler.GetByFrame)
	app.Get("/scooters/:id/actions", authn, staff, scooterHandler.Actions)
	app.Delete("/scooters/delete_all", authn, admin, scooterHandler.DeleteAll)
	app.Post("/scooter/add_sample", authn, admin, scooterHandler.AddSample)
	app.Post("/scooter/add_scooter", authn, admin, scooterHandler.Create)

	// Tarifas
	tariffHandler := NewTariffHandler(deps.TariffUC, log)
	app.Get("/tariffs", tariffHandler.List)
	app.Post("/tariffs", authn, admin, tariffHandler.Create)

	// Alquileres
	rentalHandler := NewRentalHandler(deps.RentalUC, log)
	app.Post("/rentals/start", authn, anyUser, rentalHandler.Start)
	app.Get("/rentals/history", authn, anyUser, rentalHandler.History)
	app.Patch("/rentals/:rental_id/end", authn, anyUser, rentalHandler.End)
	app.Get("/rentals/:rental_id/receipt", authn, anyUser, rentalHandler.Receipt)

	// Pagos
	paymentHandler := NewPaymentHandler(deps.PaymentUC, log)
	app.Post("/rentals/:rental_id/payments", authn, anyUser, paymentHandler.Pay)
	app.Get("/rentals/:rental_id/payments", authn, anyUser, paymentHandler.List)
	app.Patch("/payments/:payment_id", authn, manager, paymentHandler.UpdateStatus)
}
