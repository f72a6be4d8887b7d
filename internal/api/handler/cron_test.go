package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-report-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-report-api/internal/config"
	"github.com/vfg2006/sales-report-api/internal/scheduler"
	"go.uber.org/mock/gomock"
)

func TestGetCronStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	backupService := scheduler.NewDailyBackupService(mockRepo, &config.Config{
		Backup: config.Backup{
			Dir:          "backups",
			CronSchedule: "0 23 * * *",
			Enabled:      true,
		},
	})

	handler := GetCronStatus(CronJobServices{DailyBackupService: backupService})

	req := httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	backup, ok := response["backup"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, backup["backup_enabled"])
}

func TestGetCronStatus_ServiceUnavailable(t *testing.T) {
	handler := GetCronStatus(CronJobServices{})

	req := httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "SRV_001", apiErr.Code)
}

func TestRunCronJob_UnknownType(t *testing.T) {
	handler := RunCronJob(CronJobServices{})

	req := httptest.NewRequest(http.MethodPost, "/v1/cron/vacuum/run", nil)
	params := httprouter.Params{{Key: "type", Value: "vacuum"}}
	req = req.WithContext(context.WithValue(req.Context(), httprouter.ParamsKey, params))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "VAL_001", apiErr.Code)
}
