package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/evaluator"
	"github.com/jingkaihe/skillgrade/pkg/history"
	"github.com/jingkaihe/skillgrade/pkg/judge"
	"github.com/jingkaihe/skillgrade/pkg/logger"
	"github.com/jingkaihe/skillgrade/pkg/presenter"
	"github.com/jingkaihe/skillgrade/pkg/report"
)

// EvaluateConfig holds configuration for the evaluate command
type EvaluateConfig struct {
	ConfigPath   string
	Deep         bool
	Format       string
	Watch        bool
	Save         bool
	Model        string
	Passes       int
	DebounceTime int
}

// NewEvaluateConfig creates a new EvaluateConfig with default values
func NewEvaluateConfig() *EvaluateConfig {
	return &EvaluateConfig{
		Format:       "text",
		Passes:       1,
		DebounceTime: 500,
	}
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <path>",
	Short: "Evaluate a skill directory and print a graded report",
	Long: `Evaluate runs the full scoring pipeline over a skill directory: it
resolves configuration, parses SKILL.md, scans bundled scripts against
the security rule catalog, scores every quality dimension, and grades
the result A through F.

With --deep, the subjective dimensions (instruction clarity and value
add) are additionally scored by an LLM judge; the run falls back to the
static scores when no judge is reachable.

The command exits 0 whenever an evaluation completes, regardless of the
grade. It exits 1 only on unrecoverable input errors.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getEvaluateConfigFromFlags(cmd)
		runEvaluateCommand(ctx, args[0], config)
	},
}

func init() {
	defaults := NewEvaluateConfig()
	evaluateCmd.Flags().String("config", "", "Path to a configuration document (overrides layered resolution)")
	evaluateCmd.Flags().Bool("deep", false, "Score subjective dimensions with an LLM judge")
	evaluateCmd.Flags().String("format", defaults.Format, "Output format (text, markdown, json)")
	evaluateCmd.Flags().Bool("json", false, "Shorthand for --format json")
	evaluateCmd.Flags().Bool("watch", false, "Re-evaluate whenever files in the skill directory change")
	evaluateCmd.Flags().Bool("save", false, "Store the report in the local history database")
	evaluateCmd.Flags().String("model", "", "Judge model for --deep (defaults to "+judge.DefaultModel+")")
	evaluateCmd.Flags().Int("passes", defaults.Passes, "Judge passes per dimension for --deep (pass@k)")
	evaluateCmd.Flags().Int("debounce", defaults.DebounceTime, "Debounce time in milliseconds for --watch")
}

// getEvaluateConfigFromFlags extracts evaluate configuration from command flags
func getEvaluateConfigFromFlags(cmd *cobra.Command) *EvaluateConfig {
	config := NewEvaluateConfig()

	if configPath, err := cmd.Flags().GetString("config"); err == nil {
		config.ConfigPath = configPath
	}
	if deep, err := cmd.Flags().GetBool("deep"); err == nil {
		config.Deep = deep
	}
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if jsonShorthand, err := cmd.Flags().GetBool("json"); err == nil && jsonShorthand {
		config.Format = "json"
	}
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	if save, err := cmd.Flags().GetBool("save"); err == nil {
		config.Save = save
	}
	if model, err := cmd.Flags().GetString("model"); err == nil {
		config.Model = model
	}
	if passes, err := cmd.Flags().GetInt("passes"); err == nil {
		config.Passes = passes
	}
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounce
	}

	return config
}

func runEvaluateCommand(ctx context.Context, path string, config *EvaluateConfig) {
	formatter, err := report.NewFormatter(config.Format)
	if err != nil {
		presenter.Error(err, "invalid output format")
		os.Exit(1)
	}

	opts := evaluator.Options{
		ConfigPath: config.ConfigPath,
		Deep:       config.Deep,
		Judge: judge.Options{
			Model:  config.Model,
			Passes: config.Passes,
		},
	}

	if config.Watch {
		if err := runWatchMode(ctx, path, config, opts, formatter); err != nil {
			presenter.Error(err, "watch mode failed")
			os.Exit(1)
		}
		return
	}

	if err := evaluateOnce(ctx, path, config, opts, formatter); err != nil {
		presenter.Error(err, "evaluation failed")
		os.Exit(1)
	}
}

func evaluateOnce(ctx context.Context, path string, config *EvaluateConfig, opts evaluator.Options, formatter report.Formatter) error {
	rep, err := evaluator.Evaluate(ctx, path, opts)
	if err != nil {
		return err
	}

	out, err := formatter.Format(rep)
	if err != nil {
		return err
	}
	fmt.Println(out)

	if config.Deep && config.Format == "text" {
		printJudgeStats(rep)
	}

	if config.Save {
		if runID, err := saveReport(ctx, rep); err != nil {
			presenter.Error(err, "failed to save report to history")
		} else {
			presenter.Success(fmt.Sprintf("Saved to history (run id %s)", runID))
		}
	}
	return nil
}

func printJudgeStats(rep *report.EvaluationReport) {
	stats := &presenter.CostStats{}
	var consistencies []float64
	for _, res := range rep.Judge {
		stats.InputTokens += int64(res.Cost.InputTokens)
		stats.OutputTokens += int64(res.Cost.OutputTokens)
		stats.EstimatedCost += res.Cost.EstimatedCostUSD
		stats.Passes = res.Cost.Passes
		if res.Cost.Passes > 1 {
			consistencies = append(consistencies, res.Cost.ConsistencyScore)
		}
	}
	if len(consistencies) > 0 {
		var sum float64
		for _, c := range consistencies {
			sum += c
		}
		stats.Consistency = sum / float64(len(consistencies))
	}
	presenter.Stats(stats)
}

func saveReport(ctx context.Context, rep *report.EvaluationReport) (string, error) {
	dbPath, err := history.DefaultPath()
	if err != nil {
		return "", err
	}
	store, err := history.Open(ctx, dbPath)
	if err != nil {
		return "", err
	}
	defer store.Close()
	return store.Save(ctx, rep)
}

// runWatchMode re-evaluates the skill whenever a file under its
// directory changes, with debouncing so rapid edits produce one run.
func runWatchMode(ctx context.Context, path string, config *EvaluateConfig, opts evaluator.Options, formatter report.Formatter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(walkPath), ".") && walkPath != path {
				return filepath.SkipDir
			}
			return watcher.Add(walkPath)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// First run before waiting for changes.
	if err := evaluateOnce(ctx, path, config, opts, formatter); err != nil {
		presenter.Error(err, "evaluation failed")
	}

	presenter.Info("Watching for changes... Press Ctrl+C to stop")

	debounce := time.Duration(config.DebounceTime) * time.Millisecond
	var timer *time.Timer
	runs := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.G(ctx).WithFields(map[string]interface{}{
				"file":      event.Name,
				"operation": event.Op.String(),
			}).Debug("change detected")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})
		case <-runs:
			presenter.Separator()
			if err := evaluateOnce(ctx, path, config, opts, formatter); err != nil {
				presenter.Error(err, "evaluation failed")
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(watchErr).Error("file watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}
