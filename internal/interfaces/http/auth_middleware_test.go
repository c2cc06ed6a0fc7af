package http_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/samokat-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/users/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
	assert.Contains(t, readBody(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/users/me", "Basic abc", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/users/me", "Bearer token.invalido.aqui", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	s := newTestServer(t)
	u, _ := s.newUser(t, "+79000000001", entity.RoleIDRegular, false)

	signer, err := pkgjwt.NewSigner(testJWTSecret, testIssuer)
	require.NoError(t, err)
	past := signer.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	tok, err := past.Issue(u.Subject(), u.RoleID, 15*time.Minute)
	require.NoError(t, err)

	resp := s.do(t, http.MethodGet, "/users/me", "Bearer "+tok, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token expirado debe retornar 401")
}

func TestAuthMiddleware_UsuarioInexistente_Retorna401(t *testing.T) {
	s := newTestServer(t)
	tok, err := s.signer.Issue("fantasma", entity.RoleIDAdmin, time.Minute)
	require.NoError(t, err)

	resp := s.do(t, http.MethodGet, "/users/me", "Bearer "+tok, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MeDevuelvePermisos(t *testing.T) {
	s := newTestServer(t)
	u, authz := s.newUser(t, "+79000000002", entity.RoleIDRegular, false)

	resp := s.do(t, http.MethodGet, "/users/me", authz, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[dto.UserResponse](t, resp)
	assert.Equal(t, u.ID, body.ID)
	assert.Equal(t, "regular", body.Tier)
	assert.NotEmpty(t, body.Permissions)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireTier
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireTier_Tabla(t *testing.T) {
	cases := []struct {
		name   string
		roleID int
		path   string
		want   int
	}{
		{"admin en /admin", entity.RoleIDAdmin, "/admin", http.StatusOK},
		{"manager en /admin", entity.RoleIDManager, "/admin", http.StatusForbidden},
		{"regular en /admin", entity.RoleIDRegular, "/admin", http.StatusForbidden},
		{"manager en /manager", entity.RoleIDManager, "/manager", http.StatusOK},
		{"admin en /manager", entity.RoleIDAdmin, "/manager", http.StatusForbidden},
		{"regular en /manager", entity.RoleIDRegular, "/manager", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			_, authz := s.newUser(t, "+79000000100", tc.roleID, false)

			resp := s.do(t, http.MethodGet, tc.path, authz, nil)
			body := readBody(t, resp)
			assert.Equal(t, tc.want, resp.StatusCode, body)
			if tc.want == http.StatusForbidden {
				assert.Contains(t, body, "FORBIDDEN")
			}
		})
	}
}

func TestRequireTier_CuentaDeshabilitada_Retorna400(t *testing.T) {
	s := newTestServer(t)
	_, authz := s.newUser(t, "+79000000003", entity.RoleIDAdmin, true)

	resp := s.do(t, http.MethodGet, "/admin", authz, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "deshabilitada se evalúa antes que el nivel")
	assert.Contains(t, readBody(t, resp), "ACCOUNT_DISABLED")

	resp = s.do(t, http.MethodGet, "/users/me", authz, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequireTier_StaffAdmiteAdminYManager(t *testing.T) {
	s := newTestServer(t)
	_, adminAuth := s.newUser(t, "+79000000004", entity.RoleIDAdmin, false)
	_, managerAuth := s.newUser(t, "+79000000005", entity.RoleIDManager, false)
	_, regularAuth := s.newUser(t, "+79000000006", entity.RoleIDRegular, false)

	resp := s.do(t, http.MethodPost, "/scooter/add_sample", adminAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	list := decode[[]dto.ScooterResponse](t, s.do(t, http.MethodGet, "/scooters/", "", nil))
	require.NotEmpty(t, list)
	path := "/scooters/" + itoa(list[0].ID) + "/actions"

	for _, authz := range []string{adminAuth, managerAuth} {
		resp := s.do(t, http.MethodGet, path, authz, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp = s.do(t, http.MethodGet, path, regularAuth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
