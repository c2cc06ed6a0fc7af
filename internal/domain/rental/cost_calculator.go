package rental

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

// BilledMinutes minutos facturables entre inicio y fin, redondeando hacia arriba.
// Duraciones no positivas cuentan 0.
func BilledMinutes(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	minutes := int64(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}

// CostCalculator calcula el total de un alquiler según la tarifa (servicio de dominio).
//
//	fixed      -> Price
//	per_minute -> Price * ceil(minutos)
//
// El resultado se redondea a 2 decimales (NUMERIC(10,2)).
func CostCalculator(tariff *entity.Tariff, start, end time.Time) (decimal.Decimal, error) {
	switch tariff.CostType {
	case entity.CostTypeFixed:
		return tariff.Price.Round(2), nil
	case entity.CostTypePerMinute:
		minutes := decimal.NewFromInt(BilledMinutes(start, end))
		return tariff.Price.Mul(minutes).Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("tipo de cobro %q: %w", tariff.CostType, domain.ErrInvalidInput)
	}
}
