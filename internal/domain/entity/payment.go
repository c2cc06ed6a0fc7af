package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pago.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Métodos de pago aceptados.
const (
	PaymentMethodBalance = "balance" // se descuenta del saldo en la misma transacción
	PaymentMethodCard    = "card"    // queda pendiente hasta que un manager lo liquide
)

// Payment intento de pago de un alquiler cerrado.
type Payment struct {
	ID        int64
	RentalID  int64
	Amount    decimal.Decimal
	Method    string
	Status    string
	CreatedAt time.Time
}

// ValidPaymentMethod valida el método recibido desde la API.
func ValidPaymentMethod(method string) bool {
	return method == PaymentMethodBalance || method == PaymentMethodCard
}
