package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartRentalRequest entrada de POST /rentals/start.
type StartRentalRequest struct {
	Frame    string `json:"frame"`
	TariffID int64  `json:"tariff_id"`
}

// RentalResponse registro de alquiler.
type RentalResponse struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	ScooterID     int64            `json:"scooter_id"`
	TariffID      int64            `json:"tariff_id"`
	StartTime     time.Time        `json:"start_time"`
	EndTime       *time.Time       `json:"end_time"`
	StartLocation string           `json:"start_location"`
	EndLocation   *string          `json:"end_location"`
	Status        bool             `json:"status"`
	TotalCost     *decimal.Decimal `json:"total_cost"`
}

// RentalHistoryRow fila localizada del historial. Las claves son las que lee el cliente web.
type RentalHistoryRow struct {
	Frame           string `json:"Рама"`
	StartTime       string `json:"Время старта"`
	EndTime         string `json:"Время окончания"`
	DurationMinutes int64  `json:"Продолжительность (минуты)"`
	Amount          string `json:"Сумма (рубли)"`
	Tariff          string `json:"Тариф"`
}
