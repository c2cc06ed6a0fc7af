package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// DefaultActionsLimit tamaño de página del historial de acciones de un patinete.
const DefaultActionsLimit = 50

// sampleFleet flota de ejemplo para entornos de prueba. Los frames son únicos,
// así que repetir add_sample no duplica patinetes.
var sampleFleet = []entity.Scooter{
	{Model: "Xiaomi M365", Location: "55.751244, 37.618423", Frame: "A1", Battery: 85, Status: entity.ScooterStatusAvailable, ConnectionStatus: entity.ConnectionOnline},
	{Model: "Segway Ninebot", Location: "55.752220, 37.615560", Frame: "B2", Battery: 90, Status: entity.ScooterStatusAvailable, ConnectionStatus: entity.ConnectionOnline},
	{Model: "Lyme", Location: "55.755544, 37.615423", Frame: "C3", Battery: 15, Status: entity.ScooterStatusCharging, ConnectionStatus: entity.ConnectionOnline},
	{Model: "Scooter", Location: "55.752220, 37.615560", Frame: "D4", Battery: 10, Status: entity.ScooterStatusMaintenance, ConnectionStatus: entity.ConnectionOffline},
}

// ScooterUseCase inventario de patinetes: consultas públicas y altas/bajas de admin.
// El estado available/in_use solo lo cambia el caso de uso de alquiler.
type ScooterUseCase struct {
	scooters repository.ScooterRepository
	actions  repository.ScooterActionRepository
	log      *logger.Logger
}

// NewScooterUseCase construye el caso de uso.
func NewScooterUseCase(scooters repository.ScooterRepository, actions repository.ScooterActionRepository, log *logger.Logger) *ScooterUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ScooterUseCase{scooters: scooters, actions: actions, log: log.Component("scooter")}
}

// List devuelve la flota completa ordenada por id.
func (uc *ScooterUseCase) List(ctx context.Context) ([]dto.ScooterResponse, error) {
	list, err := uc.scooters.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ScooterResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToScooterResponse(s))
	}
	return out, nil
}

// GetByFrame devuelve el patinete si existe y está disponible para alquilar.
func (uc *ScooterUseCase) GetByFrame(ctx context.Context, frame string) (*dto.ScooterResponse, error) {
	s, err := uc.scooters.GetByFrame(ctx, strings.TrimSpace(frame))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrScooterNotFound
	}
	if !s.IsAvailable() {
		return nil, domain.ErrScooterUnavailable
	}
	out := ToScooterResponse(s)
	return &out, nil
}

// GetByID devuelve el patinete con ese id.
func (uc *ScooterUseCase) GetByID(ctx context.Context, id int64) (*dto.ScooterResponse, error) {
	s, err := uc.scooters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrScooterNotFound
	}
	out := ToScooterResponse(s)
	return &out, nil
}

// AddSample inserta la flota de ejemplo (los frames existentes se saltan).
func (uc *ScooterUseCase) AddSample(ctx context.Context) (*dto.MessageResponse, error) {
	fleet := make([]*entity.Scooter, 0, len(sampleFleet))
	for _, s := range sampleFleet {
		s := s
		fleet = append(fleet, &s)
	}
	n, err := uc.scooters.CreateIgnoringDuplicates(ctx, fleet)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("inserted", n).Msg("flota de ejemplo cargada")
	return &dto.MessageResponse{Code: 200, Message: fmt.Sprintf("patinetes de ejemplo añadidos: %d", n)}, nil
}

// DeleteAll borra toda la flota.
func (uc *ScooterUseCase) DeleteAll(ctx context.Context) (*dto.MessageResponse, error) {
	n, err := uc.scooters.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	uc.log.Warn().Int64("deleted", n).Msg("flota eliminada")
	return &dto.MessageResponse{Code: 200, Message: fmt.Sprintf("patinetes eliminados: %d", n)}, nil
}

// Create da de alta un patinete. Frame repetido -> ErrDuplicate.
func (uc *ScooterUseCase) Create(ctx context.Context, in dto.ScooterRequest) (*dto.AddScooterResponse, error) {
	s := &entity.Scooter{
		Model:            strings.TrimSpace(in.Model),
		Location:         strings.TrimSpace(in.Location),
		Frame:            strings.TrimSpace(in.Frame),
		Battery:          in.Battery,
		Status:           in.Status,
		ConnectionStatus: in.ConnectionStatus,
	}
	if s.Status == "" {
		s.Status = entity.ScooterStatusAvailable
	}
	if err := validateScooter(s); err != nil {
		return nil, err
	}
	if err := uc.scooters.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("scooter_id", s.ID).Str("frame", s.Frame).Msg("patinete añadido")
	return &dto.AddScooterResponse{Scooter: ToScooterResponse(s), Code: 200, Message: "patinete añadido"}, nil
}

// in_use no se acepta en el alta: implicaría un alquiler abierto que no existe.
func validateScooter(s *entity.Scooter) error {
	switch {
	case s.Model == "" || s.Frame == "":
		return fmt.Errorf("model y frame son obligatorios: %w", domain.ErrInvalidInput)
	case s.Battery < 0 || s.Battery > 100:
		return fmt.Errorf("battery fuera de rango 0..100: %w", domain.ErrInvalidInput)
	case !entity.ValidScooterStatus(s.Status) || s.Status == entity.ScooterStatusInUse:
		return fmt.Errorf("status %q no permitido: %w", s.Status, domain.ErrInvalidInput)
	case !entity.ValidConnectionStatus(s.ConnectionStatus):
		return fmt.Errorf("connection_status %q no permitido: %w", s.ConnectionStatus, domain.ErrInvalidInput)
	}
	return nil
}

// Actions historial de acciones del patinete y su última acción.
func (uc *ScooterUseCase) Actions(ctx context.Context, scooterID int64, limit int) (*dto.ScooterActionsResponse, error) {
	if limit <= 0 || limit > DefaultActionsLimit {
		limit = DefaultActionsLimit
	}
	s, err := uc.scooters.GetByID(ctx, scooterID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrScooterNotFound
	}
	out := &dto.ScooterActionsResponse{ScooterID: s.ID, Items: []dto.ScooterActionResponse{}}
	if s.LastActionID != nil {
		last, err := uc.actions.GetByID(ctx, *s.LastActionID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			r := toActionResponse(last)
			out.LastAction = &r
		}
	}
	items, err := uc.actions.ListByScooter(ctx, s.ID, limit)
	if err != nil {
		return nil, err
	}
	for _, a := range items {
		out.Items = append(out.Items, toActionResponse(a))
	}
	return out, nil
}

// ToScooterResponse mapea la entidad al DTO.
func ToScooterResponse(s *entity.Scooter) dto.ScooterResponse {
	return dto.ScooterResponse{
		ID:               s.ID,
		Model:            s.Model,
		Location:         s.Location,
		Frame:            s.Frame,
		Battery:          s.Battery,
		Status:           s.Status,
		ConnectionStatus: s.ConnectionStatus,
		LastActionID:     s.LastActionID,
	}
}

func toActionResponse(a *entity.ScooterAction) dto.ScooterActionResponse {
	return dto.ScooterActionResponse{
		ID:         a.ID,
		UserPhone:  a.UserPhone,
		ActionType: a.ActionType,
		RentalID:   a.RentalID,
		ActionTime: a.ActionTime,
	}
}
