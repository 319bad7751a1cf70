package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/impact-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id            TEXT PRIMARY KEY,
	zone          TEXT NOT NULL,
	building_type TEXT NOT NULL,
	units         INTEGER NOT NULL,
	stories       INTEGER NOT NULL,
	compliant     INTEGER NOT NULL,
	bottlenecks   INTEGER NOT NULL,
	response      TEXT NOT NULL,
	created_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_zone ON analyses(zone);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

// Migrate creates the analyses table if needed.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis inserts or replaces the analysis keyed by its building ID.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, resp *model.BuildingAnalysisResponse) error {
	if resp.BuildingID == "" {
		return eris.New("sqlite: save analysis: empty building id")
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analysis")
	}

	sum := resp.Summary()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, zone, building_type, units, stories, compliant, bottlenecks, response, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			zone = excluded.zone,
			building_type = excluded.building_type,
			units = excluded.units,
			stories = excluded.stories,
			compliant = excluded.compliant,
			bottlenecks = excluded.bottlenecks,
			response = excluded.response,
			created_at = excluded.created_at`,
		sum.BuildingID, sum.Zone, string(sum.Type), sum.Units, sum.Stories,
		sum.Compliant, sum.Bottlenecks, string(data), sum.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: save analysis %s", resp.BuildingID)
}

// GetAnalysis loads one analysis by building ID.
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.BuildingAnalysisResponse, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT response FROM analyses WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "analysis %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get analysis %s", id)
	}

	var resp model.BuildingAnalysisResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal analysis %s", id)
	}
	return &resp, nil
}

// ListAnalyses returns analysis summaries, newest first.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisSummary, error) {
	query := `SELECT id, zone, building_type, units, stories, compliant, bottlenecks, created_at FROM analyses WHERE 1=1`
	var args []any

	if filter.Zone != "" {
		query += ` AND zone = ?`
		args = append(args, filter.Zone)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, filter.limit())
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.AnalysisSummary{}
	for rows.Next() {
		var a model.AnalysisSummary
		var typ string
		if err := rows.Scan(&a.BuildingID, &a.Zone, &typ, &a.Units, &a.Stories, &a.Compliant, &a.Bottlenecks, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis")
		}
		a.Type = model.BuildingType(typ)
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}
