// Package evaluation scores answers and attributes sources. The
// confidence score is a heuristic, not a calibrated probability: it
// blends retrieval strength, lexical context coverage and answer-shape
// penalties into a single [0,1] value.
package evaluation

import (
	"math"
	"regexp"
	"strings"
)

var wordToken = regexp.MustCompile(`\w+`)

// vagueMarkers trigger the answer-shape penalty. Checked once; the
// penalty is not cumulative per marker.
var vagueMarkers = []string{
	"generally",
	"usually",
	"commonly",
	"often",
	"in most cases",
}

// Config holds the evaluator weights and thresholds. The defaults come
// with no deeper rationale than field experience; they are configuration,
// not hard truths.
type Config struct {
	RetrievalWeight float64 `yaml:"retrieval_weight"`
	CoverageWeight  float64 `yaml:"coverage_weight"`
	ShapeWeight     float64 `yaml:"shape_weight"`
	LongAnswerWords int     `yaml:"long_answer_words"`
	PenaltyStep     float64 `yaml:"penalty_step"`
}

// DefaultConfig returns the standard weighting.
func DefaultConfig() Config {
	return Config{
		RetrievalWeight: 0.4,
		CoverageWeight:  0.4,
		ShapeWeight:     0.2,
		LongAnswerWords: 120,
		PenaltyStep:     0.2,
	}
}

// Evaluator computes confidence scores for guarded answers.
type Evaluator struct {
	cfg Config
}

// New creates an Evaluator. Zero-valued config fields fall back to the
// defaults.
func New(cfg Config) *Evaluator {
	def := DefaultConfig()
	if cfg.RetrievalWeight == 0 && cfg.CoverageWeight == 0 && cfg.ShapeWeight == 0 {
		cfg.RetrievalWeight = def.RetrievalWeight
		cfg.CoverageWeight = def.CoverageWeight
		cfg.ShapeWeight = def.ShapeWeight
	}
	if cfg.LongAnswerWords == 0 {
		cfg.LongAnswerWords = def.LongAnswerWords
	}
	if cfg.PenaltyStep == 0 {
		cfg.PenaltyStep = def.PenaltyStep
	}
	return &Evaluator{cfg: cfg}
}

// Evaluate scores an answer against the retrieval context and similarity
// scores. Refusals and empty answers score 0. The result is clamped to
// [0,1] and rounded to 2 decimals. Never fails: malformed input degrades
// to a low score rather than an error.
func (e *Evaluator) Evaluate(answer, context string, similarityScores []float64) float64 {
	if answer == "" || strings.Contains(strings.ToLower(answer), "i don't know") {
		return 0.0
	}

	retrieval := 0.0
	if len(similarityScores) > 0 {
		sum := 0.0
		for _, s := range similarityScores {
			sum += s
		}
		retrieval = math.Min(sum/float64(len(similarityScores)), 1.0)
	}

	coverage := coverageScore(answer, context)

	penalty := 0.0
	if len(strings.Fields(answer)) > e.cfg.LongAnswerWords {
		penalty += e.cfg.PenaltyStep
	}
	lower := strings.ToLower(answer)
	for _, marker := range vagueMarkers {
		if strings.Contains(lower, marker) {
			penalty += e.cfg.PenaltyStep
			break
		}
	}

	confidence := e.cfg.RetrievalWeight*retrieval +
		e.cfg.CoverageWeight*coverage +
		e.cfg.ShapeWeight*(1-penalty)

	confidence = math.Max(0.0, math.Min(confidence, 1.0))
	return math.Round(confidence*100) / 100
}

// coverageScore is the fraction of distinct answer tokens that also
// appear in the context. Tokens are lowercased word-character runs;
// punctuation separates.
func coverageScore(answer, context string) float64 {
	answerTokens := tokenSet(answer)
	if len(answerTokens) == 0 {
		return 0.0
	}
	contextTokens := tokenSet(context)

	overlap := 0
	for token := range answerTokens {
		if _, ok := contextTokens[token]; ok {
			overlap++
		}
	}
	return math.Min(float64(overlap)/float64(len(answerTokens)), 1.0)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range wordToken.FindAllString(strings.ToLower(s), -1) {
		set[token] = struct{}{}
	}
	return set
}
