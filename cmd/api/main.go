package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/hugohenrick/erp-industria/docs"
	"github.com/hugohenrick/erp-industria/internal/infrastructure/config"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

func main() {
	// Carregar variáveis de ambiente
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("Aviso: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Criar aplicação
	app, err := NewApp(ctx, cfg, logger.NewLogger())
	if err != nil {
		log.Fatalf("Erro ao inicializar aplicação: %v", err)
	}

	// Iniciar o servidor
	err = app.Start(ctx)
	app.Close()
	if err != nil {
		log.Printf("Erro no servidor: %v", err)
		stop()
		os.Exit(1)
	}
}
