package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate : применяет SQL-миграции по порядку имен файлов. Все скрипты идемпотентны.
func Migrate(ctx context.Context, exec sqlx.ExecerContext) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("[Migrate] ошибка чтения миграций: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("[Migrate] ошибка чтения %s: %w", name, err)
		}

		if _, err := exec.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("[Migrate] ошибка применения %s: %w", name, err)
		}
		log.Printf("миграция %s применена", name)
	}

	return nil
}
