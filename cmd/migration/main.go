package main

import (
	"flag"
	"log"

	"github.com/hugohenrick/erp-industria/internal/infrastructure/database"
	"github.com/joho/godotenv"
)

func main() {
	path := flag.String("path", database.DefaultMigrationsPath, "diretório dos arquivos de migração")
	down := flag.Int("down", 0, "quantidade de migrações a desfazer (0 aplica as pendentes)")
	flag.Parse()

	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	config := database.NewPostgresConfigFromEnv()

	if *down > 0 {
		if err := database.RollbackMigrations(config, *path, *down); err != nil {
			log.Fatalf("Erro ao desfazer migrações: %v", err)
		}
		return
	}

	if err := database.RunMigrations(config, *path); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}

	log.Println("Migrações executadas com sucesso!")
}
