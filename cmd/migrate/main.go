// migrate applies the SQL migrations under migrations/ to the configured
// database.
//
// Usage: go run ./cmd/migrate [up|down|version]
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/retailcore/pos-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("load configuration: %v", err)
	}

	// The pgx5 driver registers under its own URL scheme.
	dbURL := strings.Replace(cfg.DB.ConnectionString(), "postgres://", "pgx5://", 1)
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		fail("open migrations: %v", err)
	}
	defer m.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			fail("read version: %v", verr)
		}
		fmt.Printf("version=%d dirty=%v\n", v, dirty)
		return
	default:
		fail("unknown command %q (use up, down or version)", cmd)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fail("run migrations: %v", err)
	}
	fmt.Println("migrations applied")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
