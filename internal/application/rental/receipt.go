package rental

import (
	"context"
	"fmt"

	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	domainrental "github.com/jhoicas/samokat-api/internal/domain/rental"
)

// Receipt genera el PDF de un alquiler cerrado del usuario.
func (uc *RentalUseCase) Receipt(ctx context.Context, user *entity.User, rentalID int64) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("generador de recibos no configurado")
	}
	rt, err := uc.rentals.GetByIDAndUser(ctx, rentalID, user.ID)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, domain.ErrRentalNotFound
	}
	if rt.IsOpen() || rt.EndTime == nil {
		return nil, domain.ErrRentalStillOpen
	}
	sc, err := uc.scooters.GetByID(ctx, rt.ScooterID)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, domain.ErrScooterNotFound
	}
	tariff, err := uc.tariffs.GetByID(ctx, rt.TariffID)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, domain.ErrTariffNotFound
	}

	data := ReceiptData{
		RentalID:      rt.ID,
		UserPhone:     user.Phone,
		Model:         sc.Model,
		Frame:         sc.Frame,
		TariffName:    tariff.Name,
		CostType:      tariff.CostType,
		Price:         tariff.Price,
		StartTime:     rt.StartTime,
		EndTime:       *rt.EndTime,
		StartLocation: rt.StartLocation,
		Minutes:       domainrental.BilledMinutes(rt.StartTime, *rt.EndTime),
	}
	if rt.EndLocation != nil {
		data.EndLocation = *rt.EndLocation
	}
	if rt.TotalCost != nil {
		data.Total = *rt.TotalCost
	} else if data.Total, err = domainrental.CostCalculator(tariff, rt.StartTime, *rt.EndTime); err != nil {
		return nil, err
	}

	pdf, err := uc.receipts.Generate(data)
	if err != nil {
		return nil, fmt.Errorf("generar recibo: %w", err)
	}
	return pdf, nil
}
