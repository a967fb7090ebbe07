package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/lunara/internal/db"
	"gorm.io/gorm"
)

func RunMigrateCommand(out io.Writer, database *gorm.DB) error {
	applied, err := db.ApplyMigrations(database)
	for _, name := range applied {
		fmt.Fprintf(out, "applied %s\n", name)
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "schema is up to date")
	}
	return nil
}
