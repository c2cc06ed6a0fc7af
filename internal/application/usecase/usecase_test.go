package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/internal/domain"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/infrastructure/memory"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// ScooterUseCase
// ──────────────────────────────────────────────────────────────────────────────

func newScooterUseCase() (*usecase.ScooterUseCase, memory.Repos) {
	store := memory.NewStore()
	repos := store.Repos()
	return usecase.NewScooterUseCase(repos.Scooters, repos.Actions, logger.Nop()), repos
}

func TestAddSample_IdempotentePorFrame(t *testing.T) {
	uc, _ := newScooterUseCase()
	ctx := context.Background()

	_, err := uc.AddSample(ctx)
	require.NoError(t, err)
	msg, err := uc.AddSample(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "0", "la segunda carga no inserta nada")

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "A1", list[0].Frame, "ordenados por id")
	for _, s := range list {
		assert.NotEqual(t, entity.ScooterStatusInUse, s.Status, "sin alquiler no hay patinetes in_use")
	}
}

func TestGetByFrame_NoExisteYNoDisponible(t *testing.T) {
	uc, _ := newScooterUseCase()
	ctx := context.Background()
	_, err := uc.AddSample(ctx)
	require.NoError(t, err)

	s, err := uc.GetByFrame(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Xiaomi M365", s.Model)

	_, err = uc.GetByFrame(ctx, "C3")
	assert.ErrorIs(t, err, domain.ErrScooterUnavailable, "C3 está cargando")

	_, err = uc.GetByFrame(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrScooterNotFound)
}

func TestCreateScooter_ValidaYRechazaDuplicados(t *testing.T) {
	uc, _ := newScooterUseCase()
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.ScooterRequest{Model: "Ninebot Max", Frame: "X1", Battery: 70, Location: "55.7, 37.6"})
	require.NoError(t, err)
	assert.Equal(t, entity.ScooterStatusAvailable, out.Scooter.Status, "status por defecto")
	assert.Equal(t, 200, out.Code)

	_, err = uc.Create(ctx, dto.ScooterRequest{Model: "Otro", Frame: "X1", Battery: 50})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	cases := []dto.ScooterRequest{
		{Model: "", Frame: "X2"},
		{Model: "M", Frame: "X3", Battery: 101},
		{Model: "M", Frame: "X4", Status: entity.ScooterStatusInUse},
		{Model: "M", Frame: "X5", Status: "broken"},
		{Model: "M", Frame: "X6", ConnectionStatus: "maybe"},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "frame %s", in.Frame)
	}
}

func TestDeleteAll_VaciaLaFlota(t *testing.T) {
	uc, _ := newScooterUseCase()
	ctx := context.Background()
	_, err := uc.AddSample(ctx)
	require.NoError(t, err)

	_, err = uc.DeleteAll(ctx)
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestActions_UltimaAccionEHistorial(t *testing.T) {
	uc, repos := newScooterUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.ScooterRequest{Model: "M", Frame: "Q1"})
	require.NoError(t, err)
	id := created.Scooter.ID

	out, err := uc.Actions(ctx, id, 0)
	require.NoError(t, err)
	assert.Nil(t, out.LastAction)
	assert.Empty(t, out.Items)

	action := &entity.ScooterAction{UserPhone: "+7900", ScooterID: id, ActionType: entity.ActionRentalStart}
	require.NoError(t, repos.Actions.Create(ctx, action))
	require.NoError(t, repos.Scooters.SetLastAction(ctx, id, action.ID))

	out, err = uc.Actions(ctx, id, 10)
	require.NoError(t, err)
	require.NotNil(t, out.LastAction)
	assert.Equal(t, action.ID, out.LastAction.ID)
	assert.Len(t, out.Items, 1)

	_, err = uc.Actions(ctx, 9999, 10)
	assert.ErrorIs(t, err, domain.ErrScooterNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// TariffUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestTariff_CreaYLista(t *testing.T) {
	repos := memory.NewStore().Repos()
	uc := usecase.NewTariffUseCase(repos.Tariffs)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateTariffRequest{Name: "Ночной", CostType: entity.CostTypePerMinute, Price: decimal.RequireFromString("4.5")})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateTariffRequest{Name: "Ночной", CostType: entity.CostTypeFixed, Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateTariffRequest{Name: "Malo", CostType: "hourly", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateTariffRequest{Name: "Negativo", CostType: entity.CostTypeFixed, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "4.50", list[0].Price.StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// UserUseCase
// ──────────────────────────────────────────────────────────────────────────────

func newUserUseCase(t *testing.T) (*usecase.UserUseCase, *entity.User) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	u := &entity.User{Phone: "+79001112233", Username: "olga", RoleID: entity.RoleIDRegular, Balance: decimal.NewFromInt(5)}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return usecase.NewUserUseCase(repos.Users, repos.Roles, memory.NewTxRunner(store), logger.Nop()), u
}

func TestChangeRole_AsignaRolExistente(t *testing.T) {
	uc, u := newUserUseCase(t)

	out, err := uc.ChangeRole(context.Background(), u.ID, dto.ChangeRoleRequest{RoleID: entity.RoleIDManager})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleIDManager, out.RoleID)
	assert.Equal(t, "manager", out.Tier)
	assert.Contains(t, out.Permissions, "payments:settle")

	_, err = uc.ChangeRole(context.Background(), u.ID, dto.ChangeRoleRequest{RoleID: 42})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ChangeRole(context.Background(), 9999, dto.ChangeRoleRequest{RoleID: entity.RoleIDAdmin})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTopUpBalance(t *testing.T) {
	uc, u := newUserUseCase(t)

	out, err := uc.TopUpBalance(context.Background(), u.ID, dto.TopUpRequest{Amount: decimal.RequireFromString("95.50")})
	require.NoError(t, err)
	assert.Equal(t, "100.50", out.Balance.StringFixed(2))

	for _, amount := range []string{"0", "-10", "1.005"} {
		_, err := uc.TopUpBalance(context.Background(), u.ID, dto.TopUpRequest{Amount: decimal.RequireFromString(amount)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, amount)
	}

	// ceros finales y valores llegados como float no son fracciones de kopek
	out, err = uc.TopUpBalance(context.Background(), u.ID, dto.TopUpRequest{Amount: decimal.RequireFromString("10.500")})
	require.NoError(t, err)
	assert.Equal(t, "111.00", out.Balance.StringFixed(2))

	out, err = uc.TopUpBalance(context.Background(), u.ID, dto.TopUpRequest{Amount: decimal.NewFromFloat(10.10)})
	require.NoError(t, err)
	assert.Equal(t, "121.10", out.Balance.StringFixed(2))

	_, err = uc.TopUpBalance(context.Background(), 9999, dto.TopUpRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
