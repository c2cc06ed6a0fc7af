package dto

import "github.com/shopspring/decimal"

// CreateTariffRequest alta de tarifa (admin).
type CreateTariffRequest struct {
	Name     string          `json:"name"`
	CostType string          `json:"cost_type"`
	Price    decimal.Decimal `json:"price"`
}

// TariffResponse salida de una tarifa.
type TariffResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	CostType string          `json:"cost_type"`
	Price    decimal.Decimal `json:"price"`
}
