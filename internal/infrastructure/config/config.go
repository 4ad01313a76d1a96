package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/internal/infrastructure/database"
	"github.com/joho/godotenv"
)

// Drivers de armazenamento aceitos em STORAGE_DRIVER
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config reúne toda a configuração da aplicação
type Config struct {
	ServerPort         string
	GinMode            string
	CORSAllowedOrigins []string
	EnableSwagger      bool

	StorageDriver string
	Database      *database.PostgresConfig
	// Arquivo JSON com faturas e dados de planejamento para o driver memory
	MemorySeedFile string

	JWTSecretKey       string
	JWTExpirationHours int

	Fiscal FiscalConfig
}

// FiscalConfig contém a configuração do provedor fiscal
type FiscalConfig struct {
	ProviderURL         string
	ProviderToken       string
	CertificatePath     string
	CertificatePassword string
	Environment         fiscal.FiscalEnvironment
	PollInterval        time.Duration
	Timeout             time.Duration
}

// UseSandbox informa se nenhum provedor real foi configurado
func (f FiscalConfig) UseSandbox() bool {
	return f.ProviderURL == ""
}

// LoadEnvFile carrega variáveis de um arquivo .env, se existir.
// Variáveis já definidas no ambiente não são sobrescritas.
func LoadEnvFile(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return fmt.Errorf("arquivo .env não encontrado")
	}
	return godotenv.Load(existing...)
}

// Load lê a configuração das variáveis de ambiente
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		EnableSwagger:      getEnvBool("SWAGGER_ENABLED", true),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		Database:           database.NewPostgresConfigFromEnv(),
		MemorySeedFile:     os.Getenv("MEMORY_SEED_FILE"),
		JWTSecretKey:       os.Getenv("JWT_SECRET_KEY"),
		JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
	}

	env, err := fiscal.ParseEnvironment(os.Getenv("FISCAL_ENVIRONMENT"))
	if err != nil {
		return nil, err
	}
	pollInterval, err := getEnvDuration("FISCAL_POLL_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("FISCAL_PROVIDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.Fiscal = FiscalConfig{
		ProviderURL:         os.Getenv("FISCAL_PROVIDER_URL"),
		ProviderToken:       os.Getenv("FISCAL_PROVIDER_TOKEN"),
		CertificatePath:     os.Getenv("FISCAL_CERTIFICATE_PATH"),
		CertificatePassword: os.Getenv("FISCAL_CERTIFICATE_PASSWORD"),
		Environment:         env,
		PollInterval:        pollInterval,
		Timeout:             timeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica combinações inválidas de configuração
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER inválido: %s", c.StorageDriver)
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY não configurada")
	}
	if c.JWTExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS deve ser maior que zero")
	}
	if c.Fiscal.PollInterval < 0 {
		return fmt.Errorf("FISCAL_POLL_INTERVAL não pode ser negativo")
	}
	return nil
}

// JWTExpiration retorna a validade dos tokens
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvDuration aceita "30s", "5m" ou um número inteiro de segundos
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
