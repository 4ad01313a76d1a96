package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hugohenrick/erp-industria/pkg/auth"
	"github.com/joho/godotenv"
)

// Emite um token JWT para ambientes de desenvolvimento e homologação.
// Em produção os tokens vêm do provedor de identidade.
func main() {
	tenantID := flag.String("tenant", "", "ID do tenant (obrigatório)")
	userID := flag.String("user", "dev", "ID do usuário")
	email := flag.String("email", "dev@localhost", "e-mail do usuário")
	name := flag.String("name", "Desenvolvedor", "nome do usuário")
	role := flag.String("role", auth.RoleAdmin, "papel: admin, fiscal, planner ou operator")
	branchID := flag.String("branch", "", "ID da filial")
	hours := flag.Int("hours", 0, "validade em horas (padrão JWT_EXPIRATION_HOURS)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	if *tenantID == "" {
		log.Fatal("informe o tenant com -tenant")
	}

	var svc *auth.JWTService
	var err error
	if *hours > 0 {
		svc, err = auth.NewJWTService(os.Getenv("JWT_SECRET_KEY"), time.Duration(*hours)*time.Hour)
	} else {
		svc, err = auth.NewJWTServiceFromEnv()
	}
	if err != nil {
		log.Fatalf("Erro ao configurar JWT: %v", err)
	}

	token, err := svc.GenerateToken(auth.Identity{
		UserID:   *userID,
		TenantID: *tenantID,
		Email:    *email,
		Name:     *name,
		Role:     *role,
		BranchID: *branchID,
	})
	if err != nil {
		log.Fatalf("Erro ao gerar token: %v", err)
	}

	fmt.Println(token)
}
