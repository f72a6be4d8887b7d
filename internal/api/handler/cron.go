package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-report-api/internal/scheduler"
	"github.com/vfg2006/sales-report-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que pode ser executada
const (
	CronJobTypeBackup = "backup"
)

// CronJobServices contém os serviços de cron disponíveis para execução
// manual
type CronJobServices struct {
	DailyBackupService *scheduler.DailyBackupService
}

// RunCronJob executa manualmente uma cron job específica. O disparo é
// assíncrono: a resposta confirma o início, não a conclusão.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeBackup:
			if services.DailyBackupService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de backup não disponível", nil)
				return
			}
			services.DailyBackupService.TriggerManualBackup()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: backup", nil)
			return
		}

		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta de cron job")
		}
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if services.DailyBackupService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de backup não disponível", nil)
			return
		}

		status := map[string]any{
			"backup": services.DailyBackupService.GetStatus(),
		}

		if err := json.NewEncoder(w).Encode(status); err != nil {
			logrus.WithError(err).Error("Erro ao enviar status das cron jobs")
		}
	}
}
