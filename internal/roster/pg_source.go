package roster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Queryer is the subset of pgxpool.Pool the Postgres source needs.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource loads the roster from the physician_roster table. Row order
// follows the position column so resolver tie-breaking stays deterministic.
type PostgresSource struct {
	db Queryer
}

// NewPostgresSource initializes a source backed by pgx.
func NewPostgresSource(db Queryer) *PostgresSource {
	if db == nil {
		panic("roster: pgx pool required")
	}
	return &PostgresSource{db: db}
}

// Load reads the full table. Rows with an empty name are skipped, matching
// the CSV source's tolerance for malformed rows.
func (s *PostgresSource) Load(ctx context.Context) (*Roster, error) {
	query := `
		SELECT name, slots
		FROM physician_roster
		ORDER BY position
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("roster: query failed: %w", err)
	}
	defer rows.Close()

	var physicians []Physician
	for rows.Next() {
		var name string
		var slots []string
		if err := rows.Scan(&name, &slots); err != nil {
			return nil, fmt.Errorf("roster: scan failed: %w", err)
		}
		if name == "" {
			continue
		}
		var valid []string
		for _, slot := range slots {
			if _, err := minuteOfDay(slot); err != nil {
				continue
			}
			valid = append(valid, slot)
		}
		physicians = append(physicians, Physician{Name: name, Slots: valid})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roster: rows failed: %w", err)
	}
	if len(physicians) == 0 {
		return nil, fmt.Errorf("roster: no usable rows")
	}
	return New(physicians), nil
}
