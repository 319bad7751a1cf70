package catalog

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/db"
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Options selects where the catalog comes from.
type Options struct {
	Source          string // "file" (default) or "postgres"
	Path            string // YAML file; empty means the embedded Atlanta dataset
	ZoningShapefile string // optional, replaces zone boundaries
}

// Load builds the process-wide catalog. pool is only used for the postgres source.
func Load(ctx context.Context, opts Options, pool db.Pool) (*Catalog, error) {
	var (
		cat *Catalog
		err error
	)

	switch opts.Source {
	case SourcePostgres:
		if pool == nil {
			return nil, eris.New("catalog: postgres source requires a database connection")
		}
		cat, err = LoadPostgres(ctx, pool)
	case SourceFile, "":
		if opts.Path == "" {
			cat, err = Default()
		} else {
			cat, err = LoadFile(opts.Path)
		}
	default:
		return nil, eris.Errorf("catalog: unknown source %q", opts.Source)
	}
	if err != nil {
		return nil, err
	}

	if opts.ZoningShapefile != "" {
		bounds, err := LoadZoningShapefile(opts.ZoningShapefile)
		if err != nil {
			return nil, err
		}
		if err := cat.setZones(bounds); err != nil {
			return nil, eris.Wrapf(err, "catalog: apply %s", opts.ZoningShapefile)
		}
	}

	counts := cat.Counts()
	zap.L().Info("catalog loaded",
		zap.String("source", opts.Source),
		zap.String("path", opts.Path),
		zap.Int("schools", counts.Schools),
		zap.Int("stations", counts.Stations),
		zap.Int("intersections", counts.Intersections),
		zap.Int("zones", counts.Zones),
	)
	return cat, nil
}
