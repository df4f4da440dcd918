package handler_test

import (
	"context"
	"credit-approval/internal/api/handler"
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCustomerHandler_Register(t *testing.T) {
	validBody := `{"first_name":"Aaron","last_name":"Garcia","age":30,"monthly_income":50000,"phone_number":9629317944}`

	t.Run("Success", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := handler.NewCustomerHandler(svc, testLogger)

		created := &customer.Customer{
			CustomerID:    301,
			FirstName:     "Aaron",
			LastName:      "Garcia",
			Age:           30,
			PhoneNumber:   9629317944,
			MonthlySalary: decimal.NewFromInt(50000),
			ApprovedLimit: decimal.NewFromInt(1800000),
		}
		svc.On("Register", mock.Anything, mock.MatchedBy(func(in customer.RegisterInput) bool {
			return in.FirstName == "Aaron" && in.LastName == "Garcia" && in.Age == 30 &&
				in.PhoneNumber == 9629317944 && in.MonthlyIncome.Equal(decimal.NewFromInt(50000)) &&
				in.ApprovedLimit == nil
		})).Return(created, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(validBody))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[dto.RegisterCustomerResponse](t, rec)
		assert.Equal(t, int64(301), resp.CustomerID)
		assert.Equal(t, "Aaron Garcia", resp.Name)
		assert.Equal(t, "50000.00", resp.MonthlyIncome)
		assert.Equal(t, "1800000.00", resp.ApprovedLimit)
		svc.AssertExpectations(t)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := handler.NewCustomerHandler(svc, testLogger)

		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"first_name":`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Underage", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := handler.NewCustomerHandler(svc, testLogger)

		body := strings.Replace(validBody, `"age":30`, `"age":17`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[dto.ErrorResponse](t, rec)
		assert.Equal(t, "age", resp.Error.Field)
	})

	t.Run("Duplicate phone number", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := handler.NewCustomerHandler(svc, testLogger)
		svc.On("Register", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: phone number already registered", apperrors.ErrAlreadyExists)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(validBody))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCustomerHandler_GetCustomer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := handler.NewCustomerHandler(svc, testLogger)
		svc.On("GetCustomer", mock.Anything, int64(7)).Return(&customer.Customer{
			CustomerID:    7,
			FirstName:     "Mia",
			LastName:      "Wong",
			Age:           41,
			MonthlySalary: decimal.NewFromInt(80000),
			ApprovedLimit: decimal.NewFromInt(2900000),
			CurrentDebt:   decimal.RequireFromString("1250.5"),
		}, nil).Once()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/customers/7", nil), "customerID", "7")
		rec := httptest.NewRecorder()
		h.GetCustomer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[dto.CustomerResponse](t, rec)
		assert.Equal(t, "Mia", resp.FirstName)
		assert.Equal(t, "1250.50", resp.CurrentDebt)
	})

	t.Run("Not found", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := handler.NewCustomerHandler(svc, testLogger)
		svc.On("GetCustomer", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/customers/99", nil), "customerID", "99")
		rec := httptest.NewRecorder()
		h.GetCustomer(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := handler.NewCustomerHandler(svc, testLogger)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/customers/abc", nil), "customerID", "abc")
		rec := httptest.NewRecorder()
		h.GetCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})
}

func TestNewCustomerHandler_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { handler.NewCustomerHandler(nil, testLogger) })
	assert.Panics(t, func() { handler.NewCustomerHandler(new(MockCustomerService), nil) })
}
