package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/middleware"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSales struct {
	createErr error
	gotUser   uuid.UUID
	gotQuery  service.SaleQuery
}

func (f *fakeSales) CreateSale(_ context.Context, userID uuid.UUID, req *service.CreateSaleRequest) (*model.Sale, error) {
	f.gotUser = userID
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Sale{ID: uuid.New(), UserID: userID, TotalAmount: req.TotalAmount, Status: model.SaleCommitted}, nil
}

func (f *fakeSales) ListSales(_ context.Context, q service.SaleQuery) ([]model.Sale, error) {
	f.gotQuery = q
	return []model.Sale{}, nil
}

func (f *fakeSales) GetSale(context.Context, uuid.UUID) (*model.Sale, error) {
	return nil, fmt.Errorf("%w: sale not found", service.ErrNotFound)
}

// withUser stands in for RequireAuth.
func withUser(id uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, id)
		return c.Next()
	}
}

func salesApp(svc service.SalesService, user uuid.UUID) *fiber.App {
	h := NewSalesHandler(svc)
	app := fiber.New()
	app.Post("/sales", withUser(user), h.CreateSale)
	app.Get("/sales", withUser(user), h.GetSales)
	app.Get("/sales/:id", withUser(user), h.GetSale)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

const saleBody = `{"total_amount": "300", "items": [{"product_id": "%s", "quantity": 3, "unit_price": "100", "total_price": "300"}]}`

func TestCreateSaleUsesCaller(t *testing.T) {
	svc := &fakeSales{}
	user := uuid.New()
	app := salesApp(svc, user)

	status, body := do(t, app, "POST", "/sales", fmt.Sprintf(saleBody, uuid.New()))
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, user, svc.gotUser)
	assert.Equal(t, "committed", body["status"])
}

func TestCreateSaleErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{fmt.Errorf("%w: insufficient inventory for product Mouse", service.ErrInsufficientStock), fiber.StatusBadRequest, "insufficient inventory for product Mouse"},
		{fmt.Errorf("%w: product with ID x not found", service.ErrNotFound), fiber.StatusNotFound, "product with ID x not found"},
		{fmt.Errorf("%w: field 'Items' failed on 'min=1'", service.ErrValidation), fiber.StatusUnprocessableEntity, "field 'Items' failed on 'min=1'"},
		{service.ErrInsufficientStock, fiber.StatusBadRequest, "insufficient stock"},
		{fmt.Errorf("connection reset"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		app := salesApp(&fakeSales{createErr: tc.err}, uuid.New())
		status, body := do(t, app, "POST", "/sales", fmt.Sprintf(saleBody, uuid.New()))
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.detail, body["detail"])
	}
}

func TestGetSalesParsesDateRange(t *testing.T) {
	svc := &fakeSales{}
	app := salesApp(svc, uuid.New())

	status, _ := do(t, app, "GET", "/sales?start_date=2024-03-01&end_date=2024-03-05&skip=10&limit=5000", "")
	require.Equal(t, fiber.StatusOK, status)

	require.NotNil(t, svc.gotQuery.StartDate)
	require.NotNil(t, svc.gotQuery.EndDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *svc.gotQuery.StartDate)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *svc.gotQuery.EndDate)
	assert.Equal(t, 10, svc.gotQuery.Skip)
	assert.Equal(t, maxLimit, svc.gotQuery.Limit)

	status, _ = do(t, app, "GET", "/sales?start_date=01/03/2024", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = do(t, app, "GET", "/sales?limit=0", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestGetSaleNotFound(t *testing.T) {
	app := salesApp(&fakeSales{}, uuid.New())

	status, _ := do(t, app, "GET", "/sales/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, "GET", "/sales/42", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

type fakeAuth struct{}

func (fakeAuth) Authenticate(context.Context, string, string) (*model.User, error) {
	return nil, service.ErrInvalidCredentials
}

func (fakeAuth) Login(_ context.Context, email, password string) (*service.TokenResponse, error) {
	if email == "clerk@shop.test" && password == "password1" {
		return &service.TokenResponse{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 1800}, nil
	}
	return nil, service.ErrInvalidCredentials
}

func TestLoginAcceptsFormAndJSON(t *testing.T) {
	app := fiber.New()
	app.Post("/auth/token", NewAuthHandler(fakeAuth{}).Login)

	req := httptest.NewRequest("POST", "/auth/token", strings.NewReader("username=clerk%40shop.test&password=password1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, body := do(t, app, "POST", "/auth/token", `{"username": "clerk@shop.test", "password": "password1"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "bearer", body["token_type"])

	req = httptest.NewRequest("POST", "/auth/token", strings.NewReader(`{"username": "clerk@shop.test", "password": "nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestStatusFor(t *testing.T) {
	status, kind := statusFor(service.ErrEmailExists)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, service.ErrEmailExists, kind)

	status, kind = statusFor(fmt.Errorf("%w: category still has 2 product(s)", service.ErrConflict))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, service.ErrConflict, kind)

	status, _ = statusFor(service.ErrInvalidCredentials)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = statusFor(errors.New("boom"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
