// Package scheduler contém o serviço de agendamento do backup diário
// do arquivo de vendas
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-report-api/infrastructure/repository"
	"github.com/vfg2006/sales-report-api/internal/config"
)

type DailyBackupConfig struct {
	CronSchedule string
	Enabled      bool
	BackupDir    string
}

// DailyBackupService grava um snapshot do arquivo de vendas no máximo
// uma vez por dia-calendário. O snapshot roda fora do caminho da
// requisição e é idempotente por dia: se o arquivo do dia já existe,
// nada é feito. A corrida benigna entre dois gatilhos quase
// simultâneos (ambos veem "sem backup ainda" e ambos copiam) é aceita:
// o resultado é duplicação de esforço, não corrupção.
type DailyBackupService struct {
	scheduler          *gocron.Scheduler
	saleRepository     repository.SaleRepository
	config             DailyBackupConfig
	backupRunning      bool
	backupMutex        sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastBackupFile     string

	// now é substituível em testes
	now func() time.Time
}

func NewDailyBackupService(
	saleRepository repository.SaleRepository,
	cfg *config.Config,
) *DailyBackupService {
	backupConfig := DailyBackupConfig{
		CronSchedule: cfg.Backup.CronSchedule, // Default: 23h todos os dias
		Enabled:      cfg.Backup.Enabled,
		BackupDir:    cfg.Backup.Dir,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": backupConfig.CronSchedule,
		"backup_dir":    backupConfig.BackupDir,
	}).Info("Configuração do agendador de backup diário carregada")

	return &DailyBackupService{
		scheduler:      scheduler,
		saleRepository: saleRepository,
		config:         backupConfig,
		now:            time.Now,
	}
}

func (s *DailyBackupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de backup diário desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de backup diário do arquivo de vendas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunBackup(); err != nil {
			logrus.WithError(err).Error("Erro no backup diário do arquivo de vendas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar backup diário: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Parar o cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de backup diário")
		s.scheduler.Stop()
	}()

	return nil
}

// RunBackup executa o snapshot do dia corrente, se ainda não existir
func (s *DailyBackupService) RunBackup() error {
	s.backupMutex.Lock()
	defer s.backupMutex.Unlock()

	if s.backupRunning {
		logrus.Warn("Backup diário já está em execução")
		return nil
	}

	s.backupRunning = true
	s.lastRunStartedAt = s.now()
	defer func() {
		s.backupRunning = false
		s.lastRunCompletedAt = s.now()
	}()

	day := s.now().Format("2006-01-02")
	backupPath := filepath.Join(s.config.BackupDir, fmt.Sprintf("sales_%s.csv", day))

	// Verificar-então-copiar: no máximo um snapshot por dia-calendário
	if _, err := os.Stat(backupPath); err == nil {
		logrus.WithField("backup_file", backupPath).Debug("Backup do dia já existe, nada a fazer")
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("erro ao verificar backup existente: %w", err)
	}

	if err := s.saleRepository.Snapshot(backupPath); err != nil {
		return fmt.Errorf("erro ao gravar snapshot de backup: %w", err)
	}

	s.lastBackupFile = backupPath

	logrus.WithField("backup_file", backupPath).Info("Backup diário do arquivo de vendas concluído")

	return nil
}

// TriggerManualBackup inicia manualmente um backup em background, fora
// do caminho da requisição
func (s *DailyBackupService) TriggerManualBackup() {
	s.backupMutex.Lock()
	if s.backupRunning {
		s.backupMutex.Unlock()
		logrus.Info("Backup diário já em andamento, ignorando solicitação manual")
		return
	}
	s.backupMutex.Unlock()

	logrus.Info("Iniciando backup manual do arquivo de vendas")
	go func() {
		if err := s.RunBackup(); err != nil {
			logrus.WithError(err).Error("Erro no backup manual do arquivo de vendas")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *DailyBackupService) GetStatus() map[string]any {
	s.backupMutex.Lock()
	defer s.backupMutex.Unlock()

	return map[string]any{
		"backup_enabled":        s.config.Enabled,
		"backup_cron":           s.config.CronSchedule,
		"backup_dir":            s.config.BackupDir,
		"backup_running":        s.backupRunning,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
		"last_backup_file":      s.lastBackupFile,
	}
}
