package http_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
	apphttp "github.com/jhoicas/retail-ledger-api/internal/interfaces/http"
)

const testOrgID = "00000000-0000-0000-0000-00000000000a"

// buildTenantApp construye una app mínima con TenantMiddleware y un handler
// que devuelve la organización extraída.
func buildTenantApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", apphttp.TenantMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"organization_id": apphttp.GetOrganizationID(c)})
	})
	return app
}

func doTenantRequest(t *testing.T, app *fiber.App, orgHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if orgHeader != "" {
		req.Header.Set(apphttp.HeaderOrganizationID, orgHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestTenantMiddleware_ExtraeOrganizacion(t *testing.T) {
	app := buildTenantApp()
	resp := doTenantRequest(t, app, testOrgID)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testOrgID, body["organization_id"])
}

func TestTenantMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildTenantApp()
	resp := doTenantRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ORGANIZATION")
}

// El mapeo de errores de dominio a status es parte del contrato de la API:
// conflictos de estado/stock/unicidad responden 409, entradas inválidas 400.
func TestRespondError_MapeoDeErroresDeDominio(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{"conflicting locations", domain.ErrConflictingLocations, http.StatusBadRequest, "CONFLICTING_LOCATIONS"},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
		{"insufficient stock", domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"constraint violation", domain.ErrConstraintViolation, http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/fail", func(c *fiber.Ctx) error {
				return apphttp.RespondError(c, tc.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
		})
	}
}
