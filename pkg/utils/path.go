package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDatabaseDir crea la carpeta que contiene el archivo SQLite.
// Para memoria o Postgres no hace nada.
func EnsureDatabaseDir(driver, name string) error {
	if driver != "" && driver != "sqlite" {
		return nil
	}
	if name == "" || name == ":memory:" {
		return nil
	}
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
