// Package evaluator wires the pipeline end to end: resolve configuration,
// load the skill, scan for rule findings, score every dimension, optionally
// apply the deep-evaluation judge, and fold everything into an
// EvaluationReport. The CLI, HTTP API, and MCP surfaces all call through
// here so they stay thin.
package evaluator

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/dimensions"
	"github.com/jingkaihe/skillgrade/pkg/engine"
	"github.com/jingkaihe/skillgrade/pkg/judge"
	"github.com/jingkaihe/skillgrade/pkg/logger"
	"github.com/jingkaihe/skillgrade/pkg/report"
	"github.com/jingkaihe/skillgrade/pkg/rules"
	"github.com/jingkaihe/skillgrade/pkg/skill"
	"github.com/jingkaihe/skillgrade/pkg/telemetry"
)

// Options configures one evaluation run.
type Options struct {
	// ConfigPath overrides the layered configuration resolution.
	ConfigPath string
	// Deep enables the external judge for the subjective dimensions.
	Deep bool
	// Judge configures the judge when Deep is set.
	Judge judge.Options
}

// Evaluate runs the full pipeline over the skill directory at path.
// It returns an error only for unrecoverable input problems (the path
// missing or totally unparseable); everything else degrades into the
// report.
func Evaluate(ctx context.Context, path string, opts Options) (*report.EvaluationReport, error) {
	var out *report.EvaluationReport
	err := telemetry.WithSpan(ctx, "evaluate", func(ctx context.Context) error {
		r, err := evaluate(ctx, path, opts)
		out = r
		return err
	}, attribute.String("skill.path", path))
	return out, err
}

func evaluate(ctx context.Context, path string, opts Options) (*report.EvaluationReport, error) {
	sk, err := skill.Load(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading skill from %s", path)
	}

	cfg, err := config.Resolve(ctx, path, opts.ConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, "resolving configuration")
	}

	catalog, err := rules.NewCatalog(cfg.DisabledRules)
	if err != nil {
		return nil, errors.Wrap(err, "building rule catalog")
	}

	var findings []rules.Finding
	scanErr := telemetry.WithSpan(ctx, "engine.scan", func(ctx context.Context) error {
		var err error
		findings, err = engine.New(catalog, cfg).Scan(ctx, sk)
		return err
	})
	if scanErr != nil {
		// Per-file scan problems are recoverable; the affected files
		// already degraded to regex-only matching.
		logger.G(ctx).WithError(scanErr).Warn("some files could not be fully scanned")
	}

	dimScores := dimensions.EvaluateAll(dimensions.Input{Skill: sk, Findings: findings}, cfg)

	var judgeResults []judge.Result
	if opts.Deep {
		j := judge.New(opts.Judge)
		if !j.Available() {
			logger.G(ctx).Warn("deep evaluation requested but no judge backend is configured, using static scores")
		}
		telemetry.WithSpanFunc(ctx, "judge.apply", func(ctx context.Context) {
			judgeResults = j.Apply(ctx, sk, dimScores)
		})
	}

	return report.Build(report.Params{
		Skill:      sk,
		Config:     cfg,
		Dimensions: dimScores,
		Findings:   findings,
		Judge:      judgeResults,
	}), nil
}
