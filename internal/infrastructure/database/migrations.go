package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// DefaultMigrationsPath é o diretório padrão dos arquivos de migração
const DefaultMigrationsPath = "migrations"

// RunMigrations aplica as migrações pendentes do diretório informado
func RunMigrations(cfg *PostgresConfig, migrationsPath string) error {
	m, err := newMigrate(cfg, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("erro ao ler versão das migrações: %w", err)
	}
	log.Printf("Migrações aplicadas com sucesso (versão %d, dirty=%t)", version, dirty)
	return nil
}

// RollbackMigrations desfaz os últimos steps de migração
func RollbackMigrations(cfg *PostgresConfig, migrationsPath string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("quantidade de steps deve ser maior que zero")
	}

	m, err := newMigrate(cfg, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao desfazer migrações: %w", err)
	}
	log.Printf("%d migração(ões) desfeita(s)", steps)
	return nil
}

func newMigrate(cfg *PostgresConfig, migrationsPath string) (*migrate.Migrate, error) {
	if migrationsPath == "" {
		migrationsPath = DefaultMigrationsPath
	}
	m, err := migrate.New("file://"+migrationsPath, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("erro ao criar migrate: %w", err)
	}
	return m, nil
}
