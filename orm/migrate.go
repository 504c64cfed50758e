package orm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EnsureSchema creates every table in defs, and its indexes, if absent.
// Existing tables are left untouched; there is no versioned migration.
func EnsureSchema(ctx context.Context, s *Session, defs ...TableDef) error {
	for _, def := range defs {
		for _, stmt := range s.dialect.CreateTableSQL(def) {
			if _, err := s.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("orm: ensure table %s: %w", def.Name, err)
			}
		}
		s.obs.Logger.Info("schema ensured",
			zap.String("table", def.Name),
			zap.Int("indexes", len(def.Indexes)),
		)
	}
	return nil
}
