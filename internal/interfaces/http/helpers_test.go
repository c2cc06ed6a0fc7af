package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/samokat-api/internal/application/auth"
	"github.com/jhoicas/samokat-api/internal/application/payment"
	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/internal/application/usecase"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	"github.com/jhoicas/samokat-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/samokat-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/samokat-api/pkg/jwt"
	"github.com/jhoicas/samokat-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "samokat-api-test"
)

type fakeReceipts struct{}

func (fakeReceipts) Generate(rental.ReceiptData) ([]byte, error) { return []byte("%PDF-1.7 fake"), nil }

type testServer struct {
	app    *fiber.App
	store  *memory.Store
	repos  memory.Repos
	signer *pkgjwt.Signer
	fixed  *entity.Tariff
}

type serverOption func(*apphttp.RouterDeps)

func withLimiter(l apphttp.LoginLimiter) serverOption {
	return func(d *apphttp.RouterDeps) { d.Limiter = l }
}

// newTestServer arma la API completa sobre el store en memoria.
func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	signer, err := pkgjwt.NewSigner(testJWTSecret, testIssuer)
	require.NoError(t, err)

	log := logger.Nop()
	store := memory.NewStore()
	repos := store.Repos()
	tx := memory.NewTxRunner(store)
	fixed := store.SeedTariff("Фиксированный", entity.CostTypeFixed, decimal.NewFromInt(150))

	deps := apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(repos.Users, repos.Roles, signer, 30*time.Minute, log),
		ScooterUC: usecase.NewScooterUseCase(repos.Scooters, repos.Actions, log),
		TariffUC:  usecase.NewTariffUseCase(repos.Tariffs),
		UserUC:    usecase.NewUserUseCase(repos.Users, repos.Roles, tx, log),
		RentalUC:  rental.NewRentalUseCase(tx, repos.Rentals, repos.Scooters, repos.Tariffs, rental.NoopPublisher{}, fakeReceipts{}, log),
		PaymentUC: payment.NewPaymentUseCase(tx, repos.Rentals, repos.Payments, log),
		DB:        store,
		Log:       log,
	}
	for _, o := range opts {
		o(&deps)
	}

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, deps)
	return &testServer{app: app, store: store, repos: repos, signer: signer, fixed: fixed}
}

// newUser persiste un usuario sin password y devuelve su header Authorization.
func (s *testServer) newUser(t *testing.T, phone string, roleID int, disabled bool) (*entity.User, string) {
	t.Helper()
	u := &entity.User{Phone: phone, RoleID: roleID, Balance: decimal.Zero, Disabled: disabled}
	require.NoError(t, s.repos.Users.Create(context.Background(), u))
	tok, err := s.signer.Issue(u.Subject(), roleID, 15*time.Minute)
	require.NoError(t, err)
	return u, "Bearer " + tok
}

// do lanza la petición; body puede ser nil, un string (form) o cualquier valor JSON.
func (s *testServer) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
		contentType = fiber.MIMEApplicationForm
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
		contentType = fiber.MIMEApplicationJSON
	}
	req := httptest.NewRequest(method, path, rdr)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
