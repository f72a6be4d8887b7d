package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-report-api/infrastructure/repository"
	"github.com/vfg2006/sales-report-api/infrastructure/storage/csvfile"
	"github.com/vfg2006/sales-report-api/internal/api"
	"github.com/vfg2006/sales-report-api/internal/config"
	"github.com/vfg2006/sales-report-api/internal/scheduler"
	"github.com/vfg2006/sales-report-api/internal/usecases/registering"
	"github.com/vfg2006/sales-report-api/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Toda a dependência é construída aqui e injetada explicitamente;
	// não há estado global de armazenamento
	store := csvfile.New(cfg.Store.FilePath)
	saleRepo := repository.NewSaleRepository(store, cfg.Store.LenientRead)

	// Garante o arquivo com o esquema correto antes de aceitar tráfego
	if err := saleRepo.EnsureExists(); err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar arquivo de vendas")
	}
	logrus.WithField("sales_file", cfg.Store.FilePath).Info("Arquivo de vendas pronto")

	registrarService := registering.NewService(saleRepo)
	reporterService := reporting.NewService(saleRepo)

	backupService := scheduler.NewDailyBackupService(saleRepo, cfg)
	if err := backupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de backup diário")
	} else {
		logrus.Info("Agendador de backup diário iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		registrarService,
		reporterService,
		backupService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
