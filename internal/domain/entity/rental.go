package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rental alquiler de un patinete. Status true = abierto; EndTime nil mientras está abierto.
type Rental struct {
	ID            int64
	UserID        int64
	ScooterID     int64
	TariffID      int64
	StartTime     time.Time
	StartLocation string
	EndTime       *time.Time
	EndLocation   *string
	Status        bool
	TotalCost     *decimal.Decimal
}

// IsOpen informa si el alquiler sigue en curso.
func (r *Rental) IsOpen() bool {
	return r.Status
}

// RentalSummary fila del historial: alquiler cerrado con marco y nombre de tarifa.
type RentalSummary struct {
	RentalID   int64
	Frame      string
	TariffName string
	StartTime  time.Time
	EndTime    time.Time
	TotalCost  *decimal.Decimal
}
