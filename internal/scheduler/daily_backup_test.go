package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-report-api/infrastructure/repository"
	"github.com/vfg2006/sales-report-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-report-api/infrastructure/storage/csvfile"
	"go.uber.org/mock/gomock"
)

func fixedClock(day string) func() time.Time {
	moment, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return moment }
}

func TestDailyBackupService_RunBackup(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")

	store := csvfile.New(filepath.Join(dir, "sales.csv"))
	repo := repository.NewSaleRepository(store, true)
	require.NoError(t, repo.EnsureExists())

	service := &DailyBackupService{
		saleRepository: repo,
		config: DailyBackupConfig{
			BackupDir: backupDir,
			Enabled:   true,
		},
		now: fixedClock("2024-01-15"),
	}

	require.NoError(t, service.RunBackup())

	backupPath := filepath.Join(backupDir, "sales_2024-01-15.csv")
	original, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	copied, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, original, copied)

	status := service.GetStatus()
	assert.Equal(t, backupPath, status["last_backup_file"])
}

func TestDailyBackupService_IdempotentPerDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backupDir := t.TempDir()
	backupPath := filepath.Join(backupDir, "sales_2024-01-15.csv")

	// Snapshot do dia já existe: nenhuma cópia deve acontecer
	require.NoError(t, os.WriteFile(backupPath, []byte("Date,Product,Quantity,Unit Price\n"), 0o644))

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	// Nenhuma expectativa de Snapshot

	service := &DailyBackupService{
		saleRepository: mockRepo,
		config: DailyBackupConfig{
			BackupDir: backupDir,
			Enabled:   true,
		},
		now: fixedClock("2024-01-15"),
	}

	require.NoError(t, service.RunBackup())
}

func TestDailyBackupService_NewDayNewSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backupDir := t.TempDir()

	mockRepo := mocks.NewMockSaleRepository(ctrl)
	mockRepo.EXPECT().Snapshot(filepath.Join(backupDir, "sales_2024-01-15.csv")).Return(nil)
	mockRepo.EXPECT().Snapshot(filepath.Join(backupDir, "sales_2024-01-16.csv")).Return(nil)

	service := &DailyBackupService{
		saleRepository: mockRepo,
		config: DailyBackupConfig{
			BackupDir: backupDir,
			Enabled:   true,
		},
		now: fixedClock("2024-01-15"),
	}

	require.NoError(t, service.RunBackup())

	// Virada do dia-calendário: um novo snapshot é permitido
	service.now = fixedClock("2024-01-16")
	require.NoError(t, service.RunBackup())
}
