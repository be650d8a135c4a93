// seed genera el script SQL que siembra los permisos de inventario y un rol admin con todos ellos.
// El script es idempotente (ON CONFLICT DO NOTHING).
//
// Uso: go run ./cmd/seed [ruta/salida.sql] [usuario_admin]
// Sin ruta escribe en stdout. Si se indica usuario_admin, se le asigna el rol admin.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jhoicas/pos-ledger/internal/domain/identity"
)

const adminRole = "admin"

func main() {
	var out io.Writer = os.Stdout
	if len(os.Args) > 1 && os.Args[1] != "-" {
		f, err := os.Create(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	var adminUser int64
	if len(os.Args) > 2 {
		id, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintf(os.Stderr, "usuario_admin inválido: %q\n", os.Args[2])
			os.Exit(1)
		}
		adminUser = id
	}

	if _, err := io.WriteString(out, buildSeed(identity.AllPermissions(), adminUser)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir script: %v\n", err)
		os.Exit(1)
	}
}

func buildSeed(perms []string, adminUser int64) string {
	var b strings.Builder
	b.WriteString("-- Permisos de inventario y rol admin (generado por cmd/seed)\n")
	b.WriteString("BEGIN;\n\n")

	b.WriteString("INSERT INTO permissions (name) VALUES\n")
	for i, p := range perms {
		sep := ","
		if i == len(perms)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    ('%s')%s\n", escape(p), sep)
	}
	b.WriteString("ON CONFLICT (name) DO NOTHING;\n\n")

	fmt.Fprintf(&b, "INSERT INTO roles (name) VALUES ('%s') ON CONFLICT (name) DO NOTHING;\n\n", adminRole)

	b.WriteString("INSERT INTO role_permissions (role_id, permission_id)\n")
	fmt.Fprintf(&b, "SELECT r.id, p.id FROM roles r CROSS JOIN permissions p WHERE r.name = '%s'\n", adminRole)
	b.WriteString("ON CONFLICT DO NOTHING;\n")

	if adminUser > 0 {
		b.WriteString("\nINSERT INTO user_roles (user_id, role_id)\n")
		fmt.Fprintf(&b, "SELECT %d, r.id FROM roles r WHERE r.name = '%s'\n", adminUser, adminRole)
		b.WriteString("ON CONFLICT DO NOTHING;\n")
	}

	b.WriteString("\nCOMMIT;\n")
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
