package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayRequest entrada de POST /rentals/{id}/payments.
type PayRequest struct {
	Method string `json:"method"`
}

// UpdatePaymentStatusRequest liquidación manual de un pago pendiente (manager).
type UpdatePaymentStatusRequest struct {
	Status string `json:"status"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID        int64           `json:"id"`
	RentalID  int64           `json:"rental_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"payment_method"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
