package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-report-api/infrastructure/repository"
	"github.com/vfg2006/sales-report-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-report-api/internal/usecases/registering"
	"github.com/vfg2006/sales-report-api/internal/usecases/reporting"
	"go.uber.org/mock/gomock"
)

func TestSubmitSale_FormRedirectsToReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().Append(gomock.Any()).Return(nil)

	handler := SubmitSale(registering.NewService(mockRepo))

	form := url.Values{}
	form.Set("date", "2024-01-01")
	form.Set("product", "Apple")
	form.Set("quantity", "2")
	form.Set("unit_price", "3.00")

	req := httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/v1/sales/report", rec.Header().Get("Location"))
}

func TestSubmitSale_JSONReturnsCreatedRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().Append(gomock.Any()).Return(nil)

	handler := SubmitSale(registering.NewService(mockRepo))

	body := `{"date":"2024-01-01","product":"Apple","quantity":2,"unit_price":3.00}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Apple", response["product"])
	assert.Equal(t, "6", response["total"])
}

func TestSubmitSale_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "data inválida",
			body:     `{"date":"2024-13-40","product":"Apple","quantity":2,"unit_price":3.00}`,
			wantCode: "VAL_003",
		},
		{
			name:     "quantidade zero",
			body:     `{"date":"2024-01-01","product":"Apple","quantity":0,"unit_price":3.00}`,
			wantCode: "VAL_004",
		},
		{
			name:     "preço negativo",
			body:     `{"date":"2024-01-01","product":"Apple","quantity":2,"unit_price":-1}`,
			wantCode: "VAL_005",
		},
		{
			name:     "campo ausente",
			body:     `{"product":"Apple","quantity":2,"unit_price":3.00}`,
			wantCode: "VAL_002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// Falha de validação: nada é persistido
			mockRepo := mocks.NewMockSaleRepository(ctrl)

			handler := SubmitSale(registering.NewService(mockRepo))

			req := httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var apiErr struct {
				Code    string            `json:"code"`
				Details map[string]string `json:"details"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.NotEmpty(t, apiErr.Details["field"])
		})
	}
}

func TestGetReport_EmptyStoreIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().ReadAll().Return(nil, nil)

	handler := GetReport(reporting.NewService(mockRepo))

	req := httptest.NewRequest(http.MethodGet, "/v1/sales/report", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, false, response["has_data"])
	assert.Equal(t, "no data", response["best_selling_product"])
}

func TestGetReport_SchemaErrorIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().ReadAll().Return(nil, &repository.SchemaError{
		Reason:  "colunas obrigatórias ausentes",
		Missing: []string{repository.ColumnUnitPrice},
	})

	handler := GetReport(reporting.NewService(mockRepo))

	req := httptest.NewRequest(http.MethodGet, "/v1/sales/report", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "STO_001", apiErr.Code)
}

func TestListSales(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().ReadAll().Return(nil, nil)

	handler := ListSales(reporting.NewService(mockRepo))

	req := httptest.NewRequest(http.MethodGet, "/v1/sales", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
}
