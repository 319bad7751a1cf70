package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/impact-cli/internal/db"
	"github.com/sells-group/impact-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Close does not close it.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying pool so the catalog loader can share it.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id            TEXT PRIMARY KEY,
	zone          TEXT NOT NULL,
	building_type TEXT NOT NULL,
	units         INTEGER NOT NULL,
	stories       INTEGER NOT NULL,
	compliant     BOOLEAN NOT NULL,
	bottlenecks   INTEGER NOT NULL,
	response      JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_analyses_zone ON analyses(zone);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
`

// Migrate creates the analyses table if needed.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Ping checks the pool.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

// Close closes the pool if this store created it.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveAnalysis upserts the analysis keyed by its building ID.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, resp *model.BuildingAnalysisResponse) error {
	if resp.BuildingID == "" {
		return eris.New("postgres: save analysis: empty building id")
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal analysis")
	}

	sum := resp.Summary()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (id, zone, building_type, units, stories, compliant, bottlenecks, response, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			zone = EXCLUDED.zone,
			building_type = EXCLUDED.building_type,
			units = EXCLUDED.units,
			stories = EXCLUDED.stories,
			compliant = EXCLUDED.compliant,
			bottlenecks = EXCLUDED.bottlenecks,
			response = EXCLUDED.response,
			created_at = EXCLUDED.created_at`,
		sum.BuildingID, sum.Zone, string(sum.Type), sum.Units, sum.Stories,
		sum.Compliant, sum.Bottlenecks, data, sum.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: save analysis %s", resp.BuildingID)
}

// GetAnalysis loads one analysis by building ID.
func (s *PostgresStore) GetAnalysis(ctx context.Context, id string) (*model.BuildingAnalysisResponse, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT response FROM analyses WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrNotFound, "analysis %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get analysis %s", id)
	}

	var resp model.BuildingAnalysisResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal analysis %s", id)
	}
	return &resp, nil
}

// ListAnalyses returns analysis summaries, newest first.
func (s *PostgresStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisSummary, error) {
	query := `SELECT id, zone, building_type, units, stories, compliant, bottlenecks, created_at FROM analyses WHERE 1=1`
	var args []any

	if filter.Zone != "" {
		args = append(args, filter.Zone)
		query += fmt.Sprintf(` AND zone = $%d`, len(args))
	}
	args = append(args, filter.limit())
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d`, len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyses")
	}
	defer rows.Close()

	out := []model.AnalysisSummary{}
	for rows.Next() {
		var a model.AnalysisSummary
		var typ string
		if err := rows.Scan(&a.BuildingID, &a.Zone, &typ, &a.Units, &a.Stories, &a.Compliant, &a.Bottlenecks, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan analysis")
		}
		a.Type = model.BuildingType(typ)
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list analyses iterate")
}
