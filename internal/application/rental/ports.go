package rental

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios de alquiler.
// Si fn devuelve error no persiste ninguna escritura.
type TxRunner interface {
	RunRental(ctx context.Context, fn func(
		scooters repository.ScooterRepository,
		rentals repository.RentalRepository,
		actions repository.ScooterActionRepository,
		tariffs repository.TariffRepository,
	) error) error
}

// Tipos de evento (routing key en el exchange).
const (
	EventRentalStarted = "rental.started"
	EventRentalEnded   = "rental.ended"
)

// RentalEvent se publica después del commit de un inicio o cierre de alquiler.
type RentalEvent struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	RentalID   int64            `json:"rental_id"`
	UserID     int64            `json:"user_id"`
	ScooterID  int64            `json:"scooter_id"`
	Frame      string           `json:"frame"`
	TariffID   int64            `json:"tariff_id"`
	Location   string           `json:"location"`
	TotalCost  *decimal.Decimal `json:"total_cost,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher puerto de salida de eventos de alquiler.
type EventPublisher interface {
	Publish(ctx context.Context, event RentalEvent) error
}

// NoopPublisher descarta los eventos (sin broker configurado).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, RentalEvent) error { return nil }

// ReceiptData contenido del recibo PDF de un alquiler cerrado.
type ReceiptData struct {
	RentalID      int64
	UserPhone     string
	Model         string
	Frame         string
	TariffName    string
	CostType      string
	Price         decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	StartLocation string
	EndLocation   string
	Minutes       int64
	Total         decimal.Decimal
}

// ReceiptGenerator genera el PDF del recibo.
type ReceiptGenerator interface {
	Generate(data ReceiptData) ([]byte, error)
}
