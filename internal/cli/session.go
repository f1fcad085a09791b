package cli

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-fasttrack/internal/config"
	"github.com/askiada/go-fasttrack/internal/logger"
	"github.com/askiada/go-fasttrack/pkg/era"
	"github.com/askiada/go-fasttrack/pkg/standard"
	"github.com/askiada/go-fasttrack/pkg/tracking"
)

type session struct {
	cfg  config.Config
	defs []tracking.Definition
	ctx  tracking.Context
}

func loadCatalog(ctx context.Context, dir string) (*standard.Catalog, error) {
	if dir == "" {
		return standard.Default()
	}

	catalog, err := standard.LoadDir(ctx, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load standard templates from %s", dir)
	}

	return catalog, nil
}

// newSession resolves the catalog, the eras and the step definitions. Steps
// given on the command line win over the configured ones.
func newSession(ctx context.Context, cfg config.Config, steps []string) (*session, error) {
	catalog, err := loadCatalog(ctx, cfg.Standard)
	if err != nil {
		return nil, err
	}

	eras, err := era.DefaultRegistry().ParseSet(cfg.ErasList())
	if err != nil {
		return nil, err
	}

	if len(steps) == 0 {
		steps = cfg.Steps
	}
	defs, err := tracking.Select(tracking.Variant(cfg.Variant), steps...)
	if err != nil {
		return nil, err
	}

	tctx, err := tracking.NewContext(catalog,
		tracking.WithEras(eras),
		tracking.WithLogger(logger.L()),
	)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, defs: defs, ctx: tctx}, nil
}

func (s *session) process() (*tracking.Process, error) {
	return tracking.BuildProcess(s.ctx, s.cfg.Process, s.defs...)
}
