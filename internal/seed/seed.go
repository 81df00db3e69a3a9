package seed

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"surething-api/internal/domain"

	"go.uber.org/zap"
)

// Importer loads seed data into the database. Inserts are idempotent
// (ON CONFLICT DO NOTHING), so re-running an import never duplicates rows.
type Importer struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewImporter(db *sql.DB, logger *zap.Logger) *Importer {
	return &Importer{db: db, logger: logger}
}

// jsonSeedOrder parent tables first so foreign keys resolve.
var jsonSeedOrder = []string{"regions", "districts", "categories", "accounts", "requests"}

// ImportJSONDir loads <table>.json files from dir. Missing files are skipped.
// Each file holds a JSON array of row objects keyed by column name.
func (i *Importer) ImportJSONDir(ctx context.Context, dir string) error {
	for _, table := range jsonSeedOrder {
		path := filepath.Join(dir, table+".json")
		rows, err := loadJSONRows(path)
		if os.IsNotExist(err) {
			i.logger.Info("seed file missing, skipping", zap.String("file", table+".json"))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		n := 0
		for _, row := range rows {
			inserted, err := i.insertRow(ctx, table, row)
			if err != nil {
				return fmt.Errorf("failed to import %s row: %w", table, err)
			}
			if inserted {
				n++
			}
		}
		i.logger.Info("seed table imported",
			zap.String("table", table),
			zap.Int("rows", len(rows)),
			zap.Int("inserted", n))
	}
	return nil
}

// ImportCSVDir loads accounts.csv, categories.csv and requests.csv from dir.
// The first record is the header; empty cells become NULL.
func (i *Importer) ImportCSVDir(ctx context.Context, dir string) error {
	for _, table := range []string{"categories", "accounts", "requests"} {
		path := filepath.Join(dir, table+".csv")
		rows, err := loadCSVRows(path)
		if os.IsNotExist(err) {
			i.logger.Info("seed file missing, skipping", zap.String("file", table+".csv"))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		n := 0
		for _, row := range rows {
			inserted, err := i.insertRow(ctx, table, row)
			if err != nil {
				return fmt.Errorf("failed to import %s row: %w", table, err)
			}
			if inserted {
				n++
			}
		}
		i.logger.Info("seed table imported",
			zap.String("table", table),
			zap.Int("rows", len(rows)),
			zap.Int("inserted", n))
	}
	return nil
}

var seedColumns = map[string][]string{
	"regions":    {"id", "name"},
	"districts":  {"id", "region_id", "name"},
	"categories": {"id", "name", "description"},
	"accounts":   {"id", "email", "name", "phone", "role", "status", "affiliation_id"},
	"requests": {"id", "requester_id", "responder_id", "category_id", "district_id",
		"title", "description", "status", "start_at", "end_at", "created_at", "volunteers"},
}

// insertRow inserts only the columns the row actually carries, so optional
// fields (id, created_at) fall back to the database defaults.
func (i *Importer) insertRow(ctx context.Context, table string, row map[string]any) (bool, error) {
	known, ok := seedColumns[table]
	if !ok {
		return false, fmt.Errorf("unknown seed table %q", table)
	}

	cols := []string{}
	args := []any{}
	placeholders := []string{}
	for _, col := range known {
		val, present := row[col]
		if !present || val == nil {
			continue
		}
		if table == "requests" && col == "volunteers" {
			encoded, err := json.Marshal(domain.NormalizeVolunteers(val))
			if err != nil {
				return false, err
			}
			val = string(encoded)
		}
		cols = append(cols, col)
		args = append(args, val)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	if len(cols) == 0 {
		return false, nil
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	res, err := i.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func loadJSONRows(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		// a single object is accepted as a one-row seed
		var single map[string]any
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, err
		}
		rows = []map[string]any{single}
	}
	return rows, nil
}

func loadCSVRows(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows := []map[string]any{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := map[string]any{}
		for idx, col := range header {
			if idx >= len(record) {
				break
			}
			cell := strings.TrimSpace(record[idx])
			if cell == "" {
				continue // empty cell -> column omitted -> DB default/NULL
			}
			row[strings.TrimSpace(col)] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}
