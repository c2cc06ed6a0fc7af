package rental_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/domain/repository"
	"github.com/jhoicas/samokat-api/internal/infrastructure/memory"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const scooterLocation = "55.751244, 37.618423"

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []rental.RentalEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev rental.RentalEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type stubReceipts struct {
	last *rental.ReceiptData
}

func (s *stubReceipts) Generate(data rental.ReceiptData) ([]byte, error) {
	s.last = &data
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	store     *memory.Store
	repos     memory.Repos
	uc        *rental.RentalUseCase
	publisher *recordingPublisher
	receipts  *stubReceipts
	perMinute *entity.Tariff
	fixed     *entity.Tariff
	u1, u2    *entity.User
	a1        *entity.Scooter

	mu  sync.Mutex
	now time.Time
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	f := &fixture{
		store:     store,
		repos:     store.Repos(),
		publisher: &recordingPublisher{},
		receipts:  &stubReceipts{},
		now:       base,
	}
	f.perMinute = store.SeedTariff("Поминутный", entity.CostTypePerMinute, decimal.RequireFromString("7.50"))
	f.fixed = store.SeedTariff("Фиксированный", entity.CostTypeFixed, decimal.RequireFromString("150"))

	f.u1 = &entity.User{Phone: "+79000000001", Username: "u1", RoleID: entity.RoleIDRegular}
	f.u2 = &entity.User{Phone: "+79000000002", Username: "u2", RoleID: entity.RoleIDRegular}
	require.NoError(t, f.repos.Users.Create(ctx, f.u1))
	require.NoError(t, f.repos.Users.Create(ctx, f.u2))

	f.a1 = &entity.Scooter{Model: "Xiaomi M365", Location: scooterLocation, Frame: "A1", Battery: 85,
		Status: entity.ScooterStatusAvailable, ConnectionStatus: entity.ConnectionOnline}
	require.NoError(t, f.repos.Scooters.Create(ctx, f.a1))

	f.uc = rental.NewRentalUseCase(
		memory.NewTxRunner(store),
		f.repos.Rentals, f.repos.Scooters, f.repos.Tariffs,
		f.publisher, f.receipts, logger.Nop(),
	).WithClock(f.clock)
	return f
}

func (f *fixture) scooterStatus(t *testing.T, id int64) string {
	t.Helper()
	sc, err := f.repos.Scooters.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, sc)
	return sc.Status
}

func (f *fixture) start(t *testing.T, user *entity.User, tariffID int64) *dto.RentalResponse {
	t.Helper()
	r, err := f.uc.StartRental(context.Background(), user, dto.StartRentalRequest{Frame: "A1", TariffID: tariffID})
	require.NoError(t, err)
	return r
}

// ──────────────────────────────────────────────────────────────────────────────
// StartRental
// ──────────────────────────────────────────────────────────────────────────────

func TestStartRental_U1SobreA1Disponible(t *testing.T) {
	f := newFixture(t)

	r := f.start(t, f.u1, f.perMinute.ID)

	assert.Equal(t, f.u1.ID, r.UserID)
	assert.Equal(t, f.a1.ID, r.ScooterID)
	assert.True(t, r.Status, "el alquiler queda abierto")
	assert.Equal(t, base, r.StartTime)
	assert.Equal(t, scooterLocation, r.StartLocation)
	assert.Nil(t, r.EndTime)
	assert.Nil(t, r.TotalCost)
	assert.Equal(t, entity.ScooterStatusInUse, f.scooterStatus(t, f.a1.ID))

	sc, _ := f.repos.Scooters.GetByID(context.Background(), f.a1.ID)
	require.NotNil(t, sc.LastActionID, "el patinete apunta a su última acción")
	last, err := f.repos.Actions.GetByID(context.Background(), *sc.LastActionID)
	require.NoError(t, err)
	assert.Equal(t, entity.ActionRentalStart, last.ActionType)
	assert.Equal(t, f.u1.Phone, last.UserPhone)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, rental.EventRentalStarted, f.publisher.events[0].Type)
	assert.Equal(t, "A1", f.publisher.events[0].Frame)
	assert.NotEmpty(t, f.publisher.events[0].ID)
}

func TestStartRental_PatineteNoDisponible(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repos.Scooters.SetStatus(context.Background(), f.a1.ID, entity.ScooterStatusCharging))

	_, err := f.uc.StartRental(context.Background(), f.u1, dto.StartRentalRequest{Frame: "A1", TariffID: f.perMinute.ID})

	assert.ErrorIs(t, err, domain.ErrScooterUnavailable)
	assert.Equal(t, entity.ScooterStatusCharging, f.scooterStatus(t, f.a1.ID))
	actions, _ := f.repos.Actions.ListByScooter(context.Background(), f.a1.ID, 10)
	assert.Empty(t, actions)
	assert.Empty(t, f.publisher.events, "sin alquiler no hay evento")
}

func TestStartRental_FrameInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StartRental(context.Background(), f.u1, dto.StartRentalRequest{Frame: "Z9", TariffID: f.perMinute.ID})
	assert.ErrorIs(t, err, domain.ErrScooterNotFound)
}

func TestStartRental_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StartRental(context.Background(), f.u1, dto.StartRentalRequest{Frame: "  ", TariffID: f.perMinute.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.StartRental(context.Background(), f.u1, dto.StartRentalRequest{Frame: "A1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Tarifa inexistente: no queda nada escrito y el patinete sigue libre.
func TestStartRental_TarifaInexistenteNoPersisteNada(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.StartRental(context.Background(), f.u1, dto.StartRentalRequest{Frame: "A1", TariffID: 9999})

	assert.ErrorIs(t, err, domain.ErrTariffNotFound)
	assert.Equal(t, entity.ScooterStatusAvailable, f.scooterStatus(t, f.a1.ID))
	history, err := f.uc.History(context.Background(), f.u1)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// N arranques simultáneos sobre el mismo frame: exactamente uno gana.
func TestStartRental_ConcurrenteSinDobleReserva(t *testing.T) {
	f := newFixture(t)
	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		other     []error
	)
	for i := 0; i < attempts; i++ {
		user := f.u1
		if i%2 == 1 {
			user = f.u2
		}
		wg.Add(1)
		go func(u *entity.User) {
			defer wg.Done()
			_, err := f.uc.StartRental(context.Background(), u, dto.StartRentalRequest{Frame: "A1", TariffID: f.fixed.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrScooterUnavailable):
			default:
				other = append(other, err)
			}
		}(user)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "solo un alquiler abierto por patinete")
	assert.Empty(t, other)
	assert.Equal(t, entity.ScooterStatusInUse, f.scooterStatus(t, f.a1.ID))
	assert.Len(t, f.publisher.events, 1)
}

// lostRaceScooters simula otra tx que reservó el patinete entre la lectura y
// el UPDATE condicionado: TransitionStatus no afecta filas.
type lostRaceScooters struct {
	repository.ScooterRepository
}

func (lostRaceScooters) TransitionStatus(context.Context, int64, string, string) (bool, error) {
	return false, nil
}

// openRentalIndexHit simula la violación del índice de un alquiler abierto por patinete.
type openRentalIndexHit struct {
	repository.RentalRepository
}

func (openRentalIndexHit) Create(context.Context, *entity.Rental) error {
	return domain.ErrScooterUnavailable
}

type racingRunner struct {
	inner    *memory.TxRunner
	scooters func(repository.ScooterRepository) repository.ScooterRepository
	rentals  func(repository.RentalRepository) repository.RentalRepository
}

func (r racingRunner) RunRental(ctx context.Context, fn func(
	scooters repository.ScooterRepository,
	rentals repository.RentalRepository,
	actions repository.ScooterActionRepository,
	tariffs repository.TariffRepository,
) error) error {
	return r.inner.RunRental(ctx, func(sc repository.ScooterRepository, rt repository.RentalRepository,
		ac repository.ScooterActionRepository, tf repository.TariffRepository) error {
		if r.scooters != nil {
			sc = r.scooters(sc)
		}
		if r.rentals != nil {
			rt = r.rentals(rt)
		}
		return fn(sc, rt, ac, tf)
	})
}

func TestStartRental_CarreraPerdidaNoPersisteNada(t *testing.T) {
	cases := map[string]racingRunner{
		"update condicionado sin filas": {
			scooters: func(sc repository.ScooterRepository) repository.ScooterRepository { return lostRaceScooters{sc} },
		},
		"índice de alquiler abierto": {
			rentals: func(rt repository.RentalRepository) repository.RentalRepository { return openRentalIndexHit{rt} },
		},
	}
	for name, runner := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			runner.inner = memory.NewTxRunner(f.store)
			uc := rental.NewRentalUseCase(runner, f.repos.Rentals, f.repos.Scooters, f.repos.Tariffs,
				f.publisher, f.receipts, logger.Nop()).WithClock(f.clock)

			_, err := uc.StartRental(context.Background(), f.u1, dto.StartRentalRequest{Frame: "A1", TariffID: f.fixed.ID})

			assert.ErrorIs(t, err, domain.ErrScooterUnavailable)
			history, err := f.uc.History(context.Background(), f.u1)
			require.NoError(t, err)
			assert.Empty(t, history, "ningún alquiler persistido")
			actions, err := f.repos.Actions.ListByScooter(context.Background(), f.a1.ID, 10)
			require.NoError(t, err)
			assert.Empty(t, actions)
			assert.Equal(t, entity.ScooterStatusAvailable, f.scooterStatus(t, f.a1.ID))
			assert.Empty(t, f.publisher.events)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// EndRental
// ──────────────────────────────────────────────────────────────────────────────

func TestEndRental_U1CierraYCalculaCoste(t *testing.T) {
	f := newFixture(t)
	started := f.start(t, f.u1, f.perMinute.ID)
	f.advance(10*time.Minute + 30*time.Second)

	r, err := f.uc.EndRental(context.Background(), f.u1, started.ID)
	require.NoError(t, err)

	assert.False(t, r.Status)
	require.NotNil(t, r.EndTime)
	assert.True(t, r.EndTime.After(r.StartTime))
	require.NotNil(t, r.EndLocation)
	assert.Equal(t, scooterLocation, *r.EndLocation)
	require.NotNil(t, r.TotalCost)
	assert.Equal(t, "82.50", r.TotalCost.StringFixed(2), "7.50 x 11 minutos")
	assert.Equal(t, entity.ScooterStatusAvailable, f.scooterStatus(t, f.a1.ID))

	actions, err := f.repos.Actions.ListByScooter(context.Background(), f.a1.ID, 10)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, entity.ActionRentalEnd, actions[0].ActionType, "la más reciente primero")

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, rental.EventRentalEnded, f.publisher.events[1].Type)
	require.NotNil(t, f.publisher.events[1].TotalCost)
}

func TestEndRental_TarifaFija(t *testing.T) {
	f := newFixture(t)
	started := f.start(t, f.u1, f.fixed.ID)
	f.advance(47 * time.Minute)

	r, err := f.uc.EndRental(context.Background(), f.u1, started.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", r.TotalCost.StringFixed(2))
}

// Sin avance de reloj el cierre sigue siendo posterior al inicio.
func TestEndRental_MismoInstanteFinPosteriorAlInicio(t *testing.T) {
	f := newFixture(t)
	started := f.start(t, f.u1, f.perMinute.ID)

	r, err := f.uc.EndRental(context.Background(), f.u1, started.ID)
	require.NoError(t, err)
	assert.True(t, r.EndTime.After(r.StartTime))
	assert.Equal(t, "7.50", r.TotalCost.StringFixed(2), "cualquier fracción cuenta como un minuto")
}

func TestEndRental_YaCerradoNoTocaElPatinete(t *testing.T) {
	f := newFixture(t)
	started := f.start(t, f.u1, f.perMinute.ID)
	f.advance(time.Minute)
	_, err := f.uc.EndRental(context.Background(), f.u1, started.ID)
	require.NoError(t, err)

	require.NoError(t, f.repos.Scooters.SetStatus(context.Background(), f.a1.ID, entity.ScooterStatusMaintenance))
	_, err = f.uc.EndRental(context.Background(), f.u1, started.ID)

	assert.ErrorIs(t, err, domain.ErrRentalAlreadyClosed)
	assert.Equal(t, entity.ScooterStatusMaintenance, f.scooterStatus(t, f.a1.ID))
}

func TestEndRental_OtroUsuarioNoLoEncuentra(t *testing.T) {
	f := newFixture(t)
	started := f.start(t, f.u1, f.perMinute.ID)

	_, err := f.uc.EndRental(context.Background(), f.u2, started.ID)

	assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	rt, _ := f.repos.Rentals.GetByIDAndUser(context.Background(), started.ID, f.u1.ID)
	require.NotNil(t, rt)
	assert.True(t, rt.IsOpen(), "el alquiler ajeno sigue abierto")
	assert.Equal(t, entity.ScooterStatusInUse, f.scooterStatus(t, f.a1.ID))
}

func TestStartEnd_IdaYVueltaDejaElPatineteDisponible(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		started := f.start(t, f.u1, f.perMinute.ID)
		f.advance(2 * time.Minute)
		closed, err := f.uc.EndRental(context.Background(), f.u1, started.ID)
		require.NoError(t, err)
		assert.True(t, closed.EndTime.After(closed.StartTime))
		assert.Equal(t, entity.ScooterStatusAvailable, f.scooterStatus(t, f.a1.ID))
		f.advance(time.Minute)
	}
}

// Un fallo del broker no deshace el alquiler.
func TestStartRental_FalloDePublicacionNoFalla(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker caído")

	_, err := f.uc.StartRental(context.Background(), f.u1, dto.StartRentalRequest{Frame: "A1", TariffID: f.fixed.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.ScooterStatusInUse, f.scooterStatus(t, f.a1.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial y recibo
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_FilasLocalizadasMasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	first := f.start(t, f.u1, f.fixed.ID)
	f.advance(5 * time.Minute)
	_, err := f.uc.EndRental(context.Background(), f.u1, first.ID)
	require.NoError(t, err)

	f.advance(time.Hour)
	second := f.start(t, f.u1, f.perMinute.ID)
	f.advance(3 * time.Minute)
	_, err = f.uc.EndRental(context.Background(), f.u1, second.ID)
	require.NoError(t, err)

	// Alquiler abierto: no aparece.
	f.start(t, f.u1, f.perMinute.ID)

	rows, err := f.uc.History(context.Background(), f.u1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Поминутный", rows[0].Tariff)
	assert.Equal(t, int64(3), rows[0].DurationMinutes)
	assert.Equal(t, "22,50", rows[0].Amount)

	assert.Equal(t, "A1", rows[1].Frame)
	assert.Equal(t, "01.03.2025 12:00", rows[1].StartTime, "hora de Moscú")
	assert.Equal(t, "01.03.2025 12:05", rows[1].EndTime)
	assert.Equal(t, "150,00", rows[1].Amount)

	raw, err := json.Marshal(rows[0])
	require.NoError(t, err)
	for _, key := range []string{"Рама", "Время старта", "Время окончания", "Продолжительность (минуты)", "Сумма (рубли)", "Тариф"} {
		assert.Contains(t, string(raw), key)
	}

	other, err := f.uc.History(context.Background(), f.u2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestReceipt_AlquilerAbiertoFalla(t *testing.T) {
	f := newFixture(t)
	started := f.start(t, f.u1, f.fixed.ID)

	_, err := f.uc.Receipt(context.Background(), f.u1, started.ID)
	assert.ErrorIs(t, err, domain.ErrRentalStillOpen)

	_, err = f.uc.Receipt(context.Background(), f.u2, started.ID)
	assert.ErrorIs(t, err, domain.ErrRentalNotFound)
}

func TestReceipt_GeneraConLosDatosDelAlquiler(t *testing.T) {
	f := newFixture(t)
	started := f.start(t, f.u1, f.perMinute.ID)
	f.advance(4 * time.Minute)
	_, err := f.uc.EndRental(context.Background(), f.u1, started.ID)
	require.NoError(t, err)

	pdf, err := f.uc.Receipt(context.Background(), f.u1, started.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	require.NotNil(t, f.receipts.last)
	assert.Equal(t, "A1", f.receipts.last.Frame)
	assert.Equal(t, int64(4), f.receipts.last.Minutes)
	assert.Equal(t, "30.00", f.receipts.last.Total.StringFixed(2))
	assert.Equal(t, f.u1.Phone, f.receipts.last.UserPhone)
}
