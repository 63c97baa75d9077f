package cardb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Querier is the subset of *pgxpool.Pool used for loading.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Beginner is the subset of *pgxpool.Pool used for importing.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Schema creates the card_templates table.
const Schema = `CREATE TABLE IF NOT EXISTS card_templates (
	name       TEXT PRIMARY KEY,
	mana_cost  TEXT NOT NULL DEFAULT '',
	card_type  TEXT NOT NULL DEFAULT '',
	definition TEXT NOT NULL
)`

const upsertTemplate = `INSERT INTO card_templates (name, mana_cost, card_type, definition)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO UPDATE SET mana_cost = EXCLUDED.mana_cost, card_type = EXCLUDED.card_type, definition = EXCLUDED.definition`

const selectTemplates = `SELECT name, definition FROM card_templates ORDER BY name`

// LoadPostgres reads the card_templates table. The definition column holds
// the card as YAML (JSON is accepted too).
func LoadPostgres(ctx context.Context, q Querier, removed ...string) (*Store, error) {
	rows, err := q.Query(ctx, selectTemplates)
	if err != nil {
		return nil, &LoadError{Source: "postgres", Err: fmt.Errorf("query card_templates: %w", err)}
	}
	defer rows.Close()

	var out []Row
	for i := 1; rows.Next(); i++ {
		var name, definition string
		if err := rows.Scan(&name, &definition); err != nil {
			return nil, &LoadError{Source: "postgres", Row: i, Err: err}
		}
		var t Template
		if err := yaml.Unmarshal([]byte(definition), &t); err != nil {
			return nil, &LoadError{Source: "postgres", Row: i, Err: fmt.Errorf("card %q: %w", name, err)}
		}
		if t.Name != name {
			return nil, &LoadError{Source: "postgres", Row: i, Err: fmt.Errorf("row name %q does not match definition name %q", name, t.Name)}
		}
		out = append(out, Row{Template: &t, Source: "postgres", Index: i})
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: "postgres", Err: err}
	}
	return NewStore(out, removed...)
}

// MarshalDefinition renders a template for the definition column.
func MarshalDefinition(t *Template) (string, error) {
	b, err := yaml.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ImportPostgres upserts templates in batches, one transaction per batch.
// A failing batch is rolled back and reported; earlier batches stay committed.
func ImportPostgres(ctx context.Context, db Beginner, templates []*Template, batchSize int, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 1000
	}

	imported := 0
	for start := 0; start < len(templates); start += batchSize {
		end := min(start+batchSize, len(templates))
		if err := importBatch(ctx, db, templates[start:end]); err != nil {
			return imported, fmt.Errorf("import batch %d-%d: %w", start, end, err)
		}
		imported += end - start
		logger.Info("imported card batch",
			zap.Int("imported", imported),
			zap.Int("total", len(templates)),
		)
	}
	return imported, nil
}

func importBatch(ctx context.Context, db Beginner, batch []*Template) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, t := range batch {
		definition, err := MarshalDefinition(t)
		if err != nil {
			return fmt.Errorf("marshal %q: %w", t.Name, err)
		}
		if _, err := tx.Exec(ctx, upsertTemplate, t.Name, t.ManaCost, t.TypeLine(), definition); err != nil {
			return fmt.Errorf("insert %q: %w", t.Name, err)
		}
	}
	return tx.Commit(ctx)
}
