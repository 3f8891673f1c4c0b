package scoring

import (
	"math"
	"time"

	"github.com/quantlab/feargreed/internal/contracts"
	"github.com/quantlab/feargreed/internal/factorconfig"
	"github.com/quantlab/feargreed/pkg/logger"
)

// Scorer computes percentile sub-scores for the factor catalogue.
// Nothing here ever fails a run: every degenerate input collapses to the
// neutral default at this boundary, with the cause kept on the score.
type Scorer struct {
	cfg *factorconfig.Config
	log *logger.Logger
}

// NewScorer creates a new scorer
func NewScorer(cfg *factorconfig.Config, log *logger.Logger) *Scorer {
	return &Scorer{
		cfg: cfg,
		log: log.WithComponent("scoring"),
	}
}

// ScoreAll scores every catalogue factor as of the evaluation date.
// Each input series is truncated to observations at or before asOf first,
// so post-date data can never leak into the result.
func (s *Scorer) ScoreAll(set contracts.SeriesSet, asOf time.Time) []contracts.FactorScore {
	truncated := set.Truncate(asOf)

	scores := make([]contracts.FactorScore, 0, len(s.cfg.Factors))

	if len(truncated.Close) < s.cfg.Scoring.MinObservations {
		for _, f := range s.cfg.Factors {
			scores = append(scores, s.neutral(f.Name, asOf, "insufficient price history"))
		}
		return scores
	}

	for _, f := range s.cfg.Factors {
		scores = append(scores, s.scoreFactor(f, truncated, asOf))
	}
	return scores
}

// scoreFactor scores a single factor against an already-truncated set.
func (s *Scorer) scoreFactor(f factorconfig.Factor, set contracts.SeriesSet, asOf time.Time) contracts.FactorScore {
	stat, err := statSeries(f, set)
	if err != nil {
		return s.neutral(f.Name, asOf, err.Error())
	}
	if len(stat) == 0 {
		return s.neutral(f.Name, asOf, "empty statistic series")
	}

	// Current value is the statistic at the evaluation date; the history it
	// is ranked against is the same series with undefined entries removed.
	current := stat[len(stat)-1]
	history := dropNaN(stat)

	if len(history) < s.cfg.Scoring.MinStatObservations {
		return s.neutral(f.Name, asOf, "insufficient statistic history")
	}

	rank := WeakPercentile(history, current)
	if math.IsNaN(rank) {
		return s.neutral(f.Name, asOf, "current statistic undefined")
	}

	if f.Invert {
		rank = 100 - rank
	}

	return contracts.FactorScore{Name: f.Name, Score: round2(rank)}
}

func (s *Scorer) neutral(name string, asOf time.Time, reason string) contracts.FactorScore {
	s.log.WithFields(map[string]interface{}{
		"factor": name,
		"as_of":  asOf.Format("2006-01-02"),
		"reason": reason,
	}).Warn("factor defaulted to neutral")

	return contracts.FactorScore{
		Name:    name,
		Score:   contracts.NeutralScore,
		Neutral: true,
		Reason:  reason,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
