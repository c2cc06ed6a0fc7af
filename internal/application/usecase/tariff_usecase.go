package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
)

// TariffUseCase tarifas: lectura pública, alta por admin.
type TariffUseCase struct {
	repo repository.TariffRepository
}

func NewTariffUseCase(repo repository.TariffRepository) *TariffUseCase {
	return &TariffUseCase{repo: repo}
}

func (uc *TariffUseCase) List(ctx context.Context) ([]dto.TariffResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TariffResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTariffResponse(t))
	}
	return out, nil
}

// Create da de alta una tarifa. Precio negativo o tipo desconocido -> ErrInvalidInput.
func (uc *TariffUseCase) Create(ctx context.Context, in dto.CreateTariffRequest) (*dto.TariffResponse, error) {
	t := &entity.Tariff{Name: strings.TrimSpace(in.Name), CostType: in.CostType, Price: in.Price.Round(2)}
	if t.Name == "" || !entity.ValidCostType(t.CostType) || t.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	out := toTariffResponse(t)
	return &out, nil
}

func toTariffResponse(t *entity.Tariff) dto.TariffResponse {
	return dto.TariffResponse{ID: t.ID, Name: t.Name, CostType: t.CostType, Price: t.Price}
}
