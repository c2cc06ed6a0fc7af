package rental

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	domainrental "github.com/jhoicas/samokat-api/internal/domain/rental"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// RentalUseCase ciclo de vida del alquiler: abre y cierra alquileres
// sincronizando el estado del patinete en una sola transacción.
type RentalUseCase struct {
	tx        TxRunner
	rentals   repository.RentalRepository
	scooters  repository.ScooterRepository
	tariffs   repository.TariffRepository
	publisher EventPublisher
	receipts  ReceiptGenerator
	now       func() time.Time
	log       *logger.Logger
}

// NewRentalUseCase construye el caso de uso. publisher y receipts pueden ser nil.
func NewRentalUseCase(
	tx TxRunner,
	rentals repository.RentalRepository,
	scooters repository.ScooterRepository,
	tariffs repository.TariffRepository,
	publisher EventPublisher,
	receipts ReceiptGenerator,
	log *logger.Logger,
) *RentalUseCase {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RentalUseCase{
		tx:        tx,
		rentals:   rentals,
		scooters:  scooters,
		tariffs:   tariffs,
		publisher: publisher,
		receipts:  receipts,
		now:       time.Now,
		log:       log.Component("rental"),
	}
}

// WithClock fija el reloj (tests).
func (uc *RentalUseCase) WithClock(now func() time.Time) *RentalUseCase {
	cp := *uc
	cp.now = now
	return &cp
}

// timestamptz guarda microsegundos.
func (uc *RentalUseCase) clock() time.Time {
	return uc.now().UTC().Truncate(time.Microsecond)
}

// StartRental abre un alquiler sobre el patinete con ese frame.
func (uc *RentalUseCase) StartRental(ctx context.Context, user *entity.User, in dto.StartRentalRequest) (*dto.RentalResponse, error) {
	frame := strings.TrimSpace(in.Frame)
	if frame == "" || in.TariffID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var (
		created entity.Rental
		scooter entity.Scooter
	)
	err := uc.tx.RunRental(ctx, func(
		scooters repository.ScooterRepository,
		rentals repository.RentalRepository,
		actions repository.ScooterActionRepository,
		tariffs repository.TariffRepository,
	) error {
		sc, err := scooters.GetByFrameForUpdate(ctx, frame)
		if err != nil {
			return err
		}
		if sc == nil {
			return domain.ErrScooterNotFound
		}
		if !sc.IsAvailable() {
			return domain.ErrScooterUnavailable
		}
		tariff, err := tariffs.GetByID(ctx, in.TariffID)
		if err != nil {
			return err
		}
		if tariff == nil {
			return domain.ErrTariffNotFound
		}

		created = entity.Rental{
			UserID:        user.ID,
			ScooterID:     sc.ID,
			TariffID:      tariff.ID,
			StartTime:     uc.clock(),
			StartLocation: sc.Location,
			Status:        true,
		}
		if err := rentals.Create(ctx, &created); err != nil {
			return err
		}
		ok, err := scooters.TransitionStatus(ctx, sc.ID, entity.ScooterStatusAvailable, entity.ScooterStatusInUse)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrScooterUnavailable
		}
		if err := recordAction(ctx, scooters, actions, user, sc.ID, created.ID, entity.ActionRentalStart, created.StartTime); err != nil {
			return err
		}
		scooter = *sc
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("rental_id", created.ID).
		Int64("user_id", user.ID).
		Str("frame", scooter.Frame).
		Msg("alquiler iniciado")
	uc.publish(ctx, EventRentalStarted, &created, scooter.Frame, created.StartLocation)
	return ToRentalResponse(&created), nil
}

// EndRental cierra un alquiler abierto del usuario y libera el patinete.
func (uc *RentalUseCase) EndRental(ctx context.Context, user *entity.User, rentalID int64) (*dto.RentalResponse, error) {
	var (
		closed entity.Rental
		frame  string
	)
	err := uc.tx.RunRental(ctx, func(
		scooters repository.ScooterRepository,
		rentals repository.RentalRepository,
		actions repository.ScooterActionRepository,
		tariffs repository.TariffRepository,
	) error {
		rt, err := rentals.GetByIDAndUserForUpdate(ctx, rentalID, user.ID)
		if err != nil {
			return err
		}
		if rt == nil {
			return domain.ErrRentalNotFound
		}
		if !rt.IsOpen() {
			return domain.ErrRentalAlreadyClosed
		}
		// La ubicación final es la del patinete al cerrar, no la de la petición.
		sc, err := scooters.GetByIDForUpdate(ctx, rt.ScooterID)
		if err != nil {
			return err
		}
		if sc == nil {
			return domain.ErrScooterNotFound
		}
		tariff, err := tariffs.GetByID(ctx, rt.TariffID)
		if err != nil {
			return err
		}
		if tariff == nil {
			return domain.ErrTariffNotFound
		}

		end := uc.clock()
		if !end.After(rt.StartTime) {
			end = rt.StartTime.Add(time.Microsecond)
		}
		cost, err := domainrental.CostCalculator(tariff, rt.StartTime, end)
		if err != nil {
			return err
		}
		location := sc.Location
		rt.EndTime = &end
		rt.EndLocation = &location
		rt.Status = false
		rt.TotalCost = &cost

		if err := rentals.Close(ctx, rt); err != nil {
			return err
		}
		if err := scooters.SetStatus(ctx, sc.ID, entity.ScooterStatusAvailable); err != nil {
			return err
		}
		if err := recordAction(ctx, scooters, actions, user, sc.ID, rt.ID, entity.ActionRentalEnd, end); err != nil {
			return err
		}
		closed = *rt
		frame = sc.Frame
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("rental_id", closed.ID).
		Int64("user_id", user.ID).
		Str("total_cost", closed.TotalCost.StringFixed(2)).
		Msg("alquiler cerrado")
	uc.publish(ctx, EventRentalEnded, &closed, frame, *closed.EndLocation)
	return ToRentalResponse(&closed), nil
}

func recordAction(
	ctx context.Context,
	scooters repository.ScooterRepository,
	actions repository.ScooterActionRepository,
	user *entity.User,
	scooterID, rentalID int64,
	actionType string,
	at time.Time,
) error {
	action := &entity.ScooterAction{
		UserPhone:  user.Phone,
		ScooterID:  scooterID,
		ActionType: actionType,
		RentalID:   &rentalID,
		ActionTime: at,
	}
	if err := actions.Create(ctx, action); err != nil {
		return err
	}
	return scooters.SetLastAction(ctx, scooterID, action.ID)
}

// publish no falla el caso de uso: el alquiler ya está confirmado.
func (uc *RentalUseCase) publish(ctx context.Context, eventType string, rt *entity.Rental, frame, location string) {
	ev := RentalEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		RentalID:   rt.ID,
		UserID:     rt.UserID,
		ScooterID:  rt.ScooterID,
		Frame:      frame,
		TariffID:   rt.TariffID,
		Location:   location,
		TotalCost:  rt.TotalCost,
		OccurredAt: uc.clock(),
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", eventType).Int64("rental_id", rt.ID).Msg("no se pudo publicar el evento")
	}
}

// ToRentalResponse mapea la entidad al DTO.
func ToRentalResponse(r *entity.Rental) *dto.RentalResponse {
	return &dto.RentalResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		ScooterID:     r.ScooterID,
		TariffID:      r.TariffID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		StartLocation: r.StartLocation,
		EndLocation:   r.EndLocation,
		Status:        r.Status,
		TotalCost:     r.TotalCost,
	}
}
