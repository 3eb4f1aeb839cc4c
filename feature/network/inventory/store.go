package inventory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"netsync/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an entity referenced by an action does not exist in the store.
var ErrNotFound = errors.New("inventory entity not found")

// Store is the relational inventory. It loads the stored state as a graph and applies
// planned actions through the reconcile.Mutator methods.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a store on top of an open database.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the inventory tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Records()...); err != nil {
		return fmt.Errorf("failed to migrate inventory schema: %w", err)
	}
	s.logger.Info("Inventory schema migrated", zap.Int("tables", len(Records())))
	return nil
}

// SchemaProblem lists the columns a table is missing. Every column is listed when the
// table does not exist.
type SchemaProblem struct {
	Table   string   `json:"table"`
	Missing []string `json:"missing"`
}

// CheckSchema compares the live tables with the expected models.
func (s *Store) CheckSchema() ([]SchemaProblem, error) {
	var problems []SchemaProblem
	for _, model := range Records() {
		stmt := &gorm.Statement{DB: s.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		missing, err := database.MissingColumns(s.db, stmt.Schema.Table, stmt.Schema.DBNames)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", stmt.Schema.Table, err)
		}
		if len(missing) > 0 {
			problems = append(problems, SchemaProblem{Table: stmt.Schema.Table, Missing: missing})
		}
	}
	slices.SortFunc(problems, func(a, b SchemaProblem) int { return cmp.Compare(a.Table, b.Table) })
	return problems, nil
}

func notFound(kind, key string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, key)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
