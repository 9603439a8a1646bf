// issue_token emite un JWT firmado con JWT_SECRET para probar la API en local.
//
// Uso: go run ./cmd/issue_token <user_id> [admin|staff]
// Por defecto el rol es staff. Imprime el token en stdout.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/smart-billing/pkg/config"
	"github.com/jhoicas/smart-billing/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: issue_token <user_id> [admin|staff]")
		os.Exit(2)
	}
	userID := os.Args[1]
	role := jwt.RoleStaff
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	if role != jwt.RoleAdmin && role != jwt.RoleStaff {
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET vacío")
		os.Exit(1)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
