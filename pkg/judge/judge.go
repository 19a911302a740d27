// Package judge scores subjective dimensions with an external language
// model. The judge is optional: when no backend is configured, or a call
// fails after retries, it degrades to a static heuristic and the caller
// keeps the rubric score. A judge failure never aborts an evaluation.
package judge

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgrade/pkg/logger"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// promptContentLimit caps how much of the skill document is sent per call.
const promptContentLimit = 8000

// responseMaxTokens bounds the judge's reply; the expected JSON is tiny.
const responseMaxTokens = 500

// JudgedDimensions are the dimensions the judge may substitute. All other
// dimensions are always scored statically.
var JudgedDimensions = []string{"instruction_clarity", "value_add"}

// modelCosts is USD per 1M tokens, keyed by model.
var modelCosts = map[string]struct{ input, output float64 }{
	"claude-opus-4-20250514":   {30.00, 150.00},
	"claude-sonnet-4-20250514": {3.00, 15.00},
	"claude-haiku-4-20250514":  {0.25, 1.25},
}

var defaultCost = struct{ input, output float64 }{3.00, 15.00}

// CostReport accounts for token usage across all passes of one dimension.
type CostReport struct {
	Model            string  `json:"model"`
	InputTokens      int     `json:"input_tokens"`
	OutputTokens     int     `json:"output_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	Passes           int     `json:"passes"`
	// ConsistencyScore is 100 minus the variance of the per-pass scores,
	// floored at zero. Only meaningful when Passes > 1.
	ConsistencyScore float64 `json:"consistency_score"`
}

// Result is the judge's verdict for one dimension.
type Result struct {
	Dimension    string     `json:"dimension"`
	Score        float64    `json:"score"`
	LevelName    string     `json:"level_name"`
	Reasoning    string     `json:"reasoning"`
	Criterion    string     `json:"criterion"`
	Cost         CostReport `json:"cost"`
	IsFallback   bool       `json:"is_fallback"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Backend is one model provider. Complete sends a single-turn prompt and
// returns the reply text plus token counts.
type Backend interface {
	Name() string
	Complete(ctx context.Context, model, prompt string, maxTokens int) (text string, inputTokens, outputTokens int, err error)
}

// Options configures a Judge.
type Options struct {
	// Model names the judge model. Empty means DefaultModel.
	Model string
	// Passes is the number of scoring passes per dimension (pass@k).
	// Values below 1 are treated as 1.
	Passes int
	// Timeout bounds each backend call. Zero means 30 seconds.
	Timeout time.Duration
	// Attempts is the retry budget per pass. Zero means 3.
	Attempts uint
	// Backend overrides provider auto-detection, mainly for tests.
	Backend Backend
}

// Judge evaluates subjective dimensions against structured rubrics.
type Judge struct {
	backend  Backend
	model    string
	passes   int
	timeout  time.Duration
	attempts uint
}

// New builds a Judge. When no backend is given and no provider API key is
// set in the environment, the Judge still works but every result is a
// static fallback.
func New(opts Options) *Judge {
	backend := opts.Backend
	if backend == nil {
		backend = detectBackend()
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	passes := opts.Passes
	if passes < 1 {
		passes = 1
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = 3
	}
	return &Judge{
		backend:  backend,
		model:    model,
		passes:   passes,
		timeout:  timeout,
		attempts: attempts,
	}
}

// Available reports whether a backend is configured. When false, every
// EvaluateDimension result is a fallback.
func (j *Judge) Available() bool {
	return j.backend != nil
}

// EvaluateDimension scores one dimension of the skill. Unsupported
// dimensions and any backend failure produce a fallback result rather
// than an error.
func (j *Judge) EvaluateDimension(ctx context.Context, sk *skill.Skill, dimension string) Result {
	criterion, ok := rubricFor(dimension)
	if !ok {
		return fallbackResult(dimension, "", "unknown", 50,
			"Unknown dimension '"+dimension+"', requires manual review")
	}

	document := sk.Document()
	if document == "" {
		return Result{
			Dimension:    dimension,
			Score:        0,
			LevelName:    "missing",
			Reasoning:    skill.DocumentName + " not found",
			Criterion:    criterion.Name,
			ErrorMessage: skill.DocumentName + " not found",
		}
	}

	if j.backend == nil {
		return staticFallback(dimension, criterion, document)
	}

	prompt := buildPrompt(sk.Name, document, criterion)
	return j.runPasses(ctx, sk, dimension, criterion, prompt, document)
}

// Apply runs the judge over each judged dimension and substitutes scores
// in place. Fallback results leave the static score untouched. Returns
// one Result per judged dimension so callers can surface cost and
// fallback status.
func (j *Judge) Apply(ctx context.Context, sk *skill.Skill, scores []rubric.DimensionScore) []Result {
	results := make([]Result, 0, len(JudgedDimensions))
	for _, dimension := range JudgedDimensions {
		res := j.EvaluateDimension(ctx, sk, dimension)
		results = append(results, res)
		if res.IsFallback || res.ErrorMessage != "" {
			logger.G(ctx).WithField("dimension", dimension).
				WithField("error", res.ErrorMessage).
				Warn("deep evaluation fell back to static score")
			continue
		}
		for i := range scores {
			if scores[i].Name != dimension {
				continue
			}
			scores[i].Score = res.Score
			scores[i].Findings = append([]string{formatJudgeFinding(res)}, scores[i].Findings...)
		}
	}
	return results
}

func formatJudgeFinding(res Result) string {
	reasoning := res.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}
	return "llm " + res.Criterion + ": " + res.LevelName + " - " + reasoning
}

func (j *Judge) runPasses(ctx context.Context, sk *skill.Skill, dimension string, criterion rubric.Criterion, prompt, document string) Result {
	var (
		inputTokens  int
		outputTokens int
		scores       []float64
		levelNames   []string
		reasoning    string
		lastErr      error
	)

	for pass := 0; pass < j.passes; pass++ {
		text, in, out, err := j.completeWithRetry(ctx, prompt)
		if err != nil {
			lastErr = err
			logger.G(ctx).WithError(err).
				WithField("dimension", dimension).
				WithField("pass", pass+1).
				Warn("judge call failed")
			continue
		}
		inputTokens += in
		outputTokens += out

		verdict, ok := parseResponse(text, criterion)
		if !ok {
			lastErr = errors.Errorf("unparseable judge response for %s", dimension)
			logger.G(ctx).WithField("dimension", dimension).
				WithField("pass", pass+1).
				Warn("failed to parse judge response")
			continue
		}

		scores = append(scores, verdict.score)
		levelNames = append(levelNames, verdict.levelName)
		if reasoning == "" {
			reasoning = verdict.reasoning
		}
	}

	if len(scores) == 0 {
		res := staticFallback(dimension, criterion, document)
		if lastErr != nil {
			res.ErrorMessage = lastErr.Error()
		}
		return res
	}

	return Result{
		Dimension: dimension,
		Score:     mean(scores),
		LevelName: majorityLevel(levelNames),
		Reasoning: reasoning,
		Criterion: criterion.Name,
		Cost: CostReport{
			Model:            j.model,
			InputTokens:      inputTokens,
			OutputTokens:     outputTokens,
			TotalTokens:      inputTokens + outputTokens,
			EstimatedCostUSD: estimateCost(j.model, inputTokens, outputTokens),
			Passes:           j.passes,
			ConsistencyScore: consistency(scores),
		},
	}
}

func (j *Judge) completeWithRetry(ctx context.Context, prompt string) (string, int, int, error) {
	var (
		text string
		in   int
		out  int
	)
	callCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	err := retry.Do(
		func() error {
			var callErr error
			text, in, out, callErr = j.backend.Complete(callCtx, j.model, prompt, responseMaxTokens)
			return callErr
		},
		retry.Attempts(j.attempts),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(callCtx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("attempt", n+1).
				WithField("backend", j.backend.Name()).
				Warn("retrying judge call")
		}),
	)
	if err != nil {
		return "", 0, 0, errors.Wrapf(err, "%s judge call failed", j.backend.Name())
	}
	return text, in, out, nil
}

type verdict struct {
	levelName string
	score     float64
	reasoning string
}

// parseResponse extracts the judge's JSON verdict, tolerating a markdown
// code fence around it. Unrecognized level names score 50 so a creative
// reply degrades to neutral rather than zero.
func parseResponse(response string, criterion rubric.Criterion) (verdict, bool) {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		lines := strings.Split(response, "\n")
		if strings.HasPrefix(lines[0], "```") {
			lines = lines[1:]
		}
		if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
			lines = lines[:len(lines)-1]
		}
		response = strings.Join(lines, "\n")
	}

	var payload struct {
		LevelName  string  `json:"level_name"`
		Reasoning  string  `json:"reasoning"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(response), &payload); err != nil {
		return verdict{}, false
	}
	if payload.LevelName == "" {
		return verdict{}, false
	}

	score := 50.0
	for _, level := range criterion.Levels {
		if level.Name == payload.LevelName {
			score = level.Score
			break
		}
	}
	return verdict{levelName: payload.LevelName, score: score, reasoning: payload.Reasoning}, true
}

func buildPrompt(skillName, content string, criterion rubric.Criterion) string {
	if len(content) > promptContentLimit {
		content = content[:promptContentLimit]
	}

	var levels strings.Builder
	for _, level := range criterion.Levels {
		levels.WriteString("- Level \"")
		levels.WriteString(level.Name)
		levels.WriteString("\": ")
		levels.WriteString(level.Description)
		levels.WriteString(" (score: ")
		levels.WriteString(strconv.Itoa(int(level.Score)))
		levels.WriteString(")\n")
	}

	return `You are evaluating a Claude Code skill for quality assessment.

## Skill Name: ` + skillName + `

## Skill Content:
` + "```\n" + content + "\n```" + `

## Rubric: ` + criterion.Name + `
` + criterion.Description + `

` + levels.String() + `
## Task
Evaluate this skill according to the rubric above. Provide your assessment in JSON format:
{
    "level_name": "exact level name from rubric",
    "reasoning": "brief explanation of why this level fits",
    "confidence": 0.0-1.0
}

Respond ONLY with the JSON object, no additional text.`
}

func estimateCost(model string, inputTokens, outputTokens int) float64 {
	costs, ok := modelCosts[model]
	if !ok {
		costs = defaultCost
	}
	return float64(inputTokens)/1_000_000*costs.input +
		float64(outputTokens)/1_000_000*costs.output
}

// EstimateTokens approximates token count at four characters per token.
func EstimateTokens(text string) int {
	return len(text) / 4
}

func mean(scores []float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func consistency(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	m := mean(scores)
	var variance float64
	for _, s := range scores {
		variance += (s - m) * (s - m)
	}
	variance /= float64(len(scores))
	if variance > 100 {
		return 0
	}
	return 100 - variance
}

func majorityLevel(names []string) string {
	counts := make(map[string]int, len(names))
	best := names[0]
	for _, name := range names {
		counts[name]++
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}

func fallbackResult(dimension, criterion, level string, score float64, reasoning string) Result {
	return Result{
		Dimension:  dimension,
		Score:      score,
		LevelName:  level,
		Reasoning:  reasoning,
		Criterion:  criterion,
		IsFallback: true,
	}
}

// staticFallback approximates the judged dimensions from surface signals
// in the document. It is intentionally coarse; the static rubric score
// the caller already holds stays authoritative.
func staticFallback(dimension string, criterion rubric.Criterion, document string) Result {
	lower := strings.ToLower(document)

	switch dimension {
	case "instruction_clarity":
		hasExamples := strings.Contains(lower, "example:") || strings.Contains(lower, "```")
		hasTriggers := strings.Contains(lower, "trigger")
		hasSteps := strings.Contains(lower, "step") || strings.Contains(lower, "when") || strings.Contains(lower, "how")

		switch {
		case hasExamples && hasTriggers && hasSteps:
			return fallbackResult(dimension, criterion.Name, "good", 75,
				"Static analysis: contains examples, triggers, and step guidance")
		case hasExamples || hasTriggers:
			return fallbackResult(dimension, criterion.Name, "fair", 50,
				"Static analysis: some clarity indicators present")
		default:
			return fallbackResult(dimension, criterion.Name, "poor", 25,
				"Static analysis: limited clarity indicators")
		}

	case "value_add":
		hasDependencies := strings.Contains(lower, "requires:")
		hasArtifacts := strings.Contains(lower, "artifacts:")
		hasWorkflows := strings.Contains(lower, "workflow")

		switch {
		case hasDependencies && hasArtifacts && hasWorkflows:
			return fallbackResult(dimension, criterion.Name, "significant", 75,
				"Static analysis: shows unique dependencies, artifacts, and workflows")
		case hasDependencies || hasArtifacts:
			return fallbackResult(dimension, criterion.Name, "moderate", 50,
				"Static analysis: some value indicators present")
		default:
			return fallbackResult(dimension, criterion.Name, "minimal", 25,
				"Static analysis: limited value indicators")
		}
	}

	return fallbackResult(dimension, criterion.Name, "unknown", 50,
		"Unknown dimension '"+dimension+"', requires manual review")
}
