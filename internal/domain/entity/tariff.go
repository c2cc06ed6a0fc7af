package entity

import "github.com/shopspring/decimal"

// Tipos de cobro de una tarifa.
const (
	CostTypeFixed     = "fixed"
	CostTypePerMinute = "per_minute"
)

// Tariff regla de precio: tarifa plana o por minuto. Inmutable una vez creada.
type Tariff struct {
	ID       int64
	Name     string
	CostType string
	Price    decimal.Decimal
}

// ValidCostType valida el tipo de cobro.
func ValidCostType(costType string) bool {
	return costType == CostTypeFixed || costType == CostTypePerMinute
}
