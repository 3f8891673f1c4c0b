package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/quantlab/feargreed/internal/contracts"
	"github.com/quantlab/feargreed/internal/factorconfig"
	"github.com/quantlab/feargreed/internal/ledger"
	"github.com/quantlab/feargreed/internal/scoring"
	"github.com/quantlab/feargreed/internal/weights"
	"github.com/quantlab/feargreed/pkg/config"
	"github.com/quantlab/feargreed/pkg/logger"
)

// SeriesProvider supplies the daily input series. Implementations may
// return empty series; the pipeline degrades the affected factors to
// neutral instead of aborting.
type SeriesProvider interface {
	FetchIndexDaily(ctx context.Context, symbol string) (closeSeries, volumeSeries contracts.Series, err error)
	FetchFuturesDaily(ctx context.Context, symbol string) (contracts.Series, error)
	FetchValuation(ctx context.Context, symbol string) (contracts.Series, error)
	FetchBondYield(ctx context.Context) (contracts.Series, error)
	FetchMarginBalance(ctx context.Context) (contracts.Series, error)
}

// GroundTruthSource supplies the externally observed value for a date,
// or nil while it has not arrived.
type GroundTruthSource interface {
	Value(date time.Time) *float64
}

// LedgerStore persists the scoring history.
type LedgerStore interface {
	Load() ([]contracts.LedgerRow, error)
	Save(rows []contracts.LedgerRow) error
}

// Notifier delivers the run summary to the chat sink.
type Notifier interface {
	Send(ctx context.Context, msg contracts.Notification) error
}

// Pipeline is the single straight-line batch job: reconcile the ledger,
// fit weights over recently closed rows, score today, apply the bias
// correction, persist, notify. Nothing past the initial ledger load is
// fatal; the design goal is to always produce some score.
type Pipeline struct {
	cfg      *config.Config
	factors  *factorconfig.Config
	provider SeriesProvider
	truth    GroundTruthSource
	store    LedgerStore
	notifier Notifier
	scorer   *scoring.Scorer
	fitter   *weights.Fitter
	log      *logger.Logger
}

// New wires the pipeline
func New(
	cfg *config.Config,
	factors *factorconfig.Config,
	provider SeriesProvider,
	truth GroundTruthSource,
	store LedgerStore,
	notifier Notifier,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		factors:  factors,
		provider: provider,
		truth:    truth,
		store:    store,
		notifier: notifier,
		scorer:   scoring.NewScorer(factors, log),
		fitter:   weights.NewFitter(factors, log),
		log:      log.WithComponent("pipeline"),
	}
}

// Result summarizes one run.
type Result struct {
	Date          time.Time
	Scores        []contracts.FactorScore
	Weights       contracts.WeightVector
	WeightsFitted bool
	Composite     float64 // weighted sum before correction
	Correction    float64 // applied bias
	Final         float64 // clamped corrected prediction
	Reconciled    int     // ledger rows closed this run
}

// Run executes the full pipeline for today and persists the outcome.
func (p *Pipeline) Run(ctx context.Context, today time.Time) (*Result, error) {
	today = contracts.Day(today)
	p.log.WithField("date", today.Format("2006-01-02")).Info("pipeline run started")

	set := p.fetchSeries(ctx)

	rows, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	rows, reconciled := p.reconcile(set, rows, today)

	result := p.evaluate(set, rows, today)
	result.Reconciled = reconciled

	// Today's row is written open; reconciliation closes it once the
	// ground truth arrives.
	rows = ledger.Upsert(rows, contracts.LedgerRow{
		Date:      today,
		Scores:    contracts.ScoreMap(result.Scores),
		Predicted: result.Composite,
	})

	if err := p.store.Save(rows); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	if err := p.notifier.Send(ctx, p.buildNotification(result)); err != nil {
		// Delivery failure never fails the computation
		p.log.WithError(err).Warn("notification delivery failed")
	}

	p.log.WithFields(map[string]interface{}{
		"final":      result.Final,
		"composite":  result.Composite,
		"correction": result.Correction,
		"reconciled": reconciled,
	}).Info("pipeline run completed")

	return result, nil
}

// Preview computes the score for a date without persisting or notifying.
func (p *Pipeline) Preview(ctx context.Context, date time.Time) (*Result, error) {
	date = contracts.Day(date)

	set := p.fetchSeries(ctx)

	rows, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	result := p.evaluate(set, rows, date)
	return result, nil
}

// RunReconcile performs only ledger reconciliation and persists it.
func (p *Pipeline) RunReconcile(ctx context.Context, today time.Time) (int, error) {
	today = contracts.Day(today)

	set := p.fetchSeries(ctx)

	rows, err := p.store.Load()
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}

	rows, reconciled := p.reconcile(set, rows, today)

	if err := p.store.Save(rows); err != nil {
		return 0, fmt.Errorf("save ledger: %w", err)
	}
	return reconciled, nil
}

// FitWeights fits the weight vector from the current ledger.
func (p *Pipeline) FitWeights() (contracts.WeightVector, bool, error) {
	rows, err := p.store.Load()
	if err != nil {
		return nil, false, fmt.Errorf("load ledger: %w", err)
	}

	if w, ok := p.fitter.Fit(rows); ok {
		return w, true, nil
	}
	return contracts.UniformWeights(p.factors.FactorNames()), false, nil
}

// evaluate scores one date against the given ledger state.
func (p *Pipeline) evaluate(set contracts.SeriesSet, rows []contracts.LedgerRow, date time.Time) *Result {
	vector := contracts.UniformWeights(p.factors.FactorNames())
	fitted := false
	if w, ok := p.fitter.Fit(rows); ok {
		vector = w
		fitted = true
	}

	scores := p.scorer.ScoreAll(set, date)
	composite := weights.Combine(scores, vector)

	correction := p.biasCorrection(rows)
	final := clamp(round2(composite+correction), 0, 100)

	return &Result{
		Date:          date,
		Scores:        scores,
		Weights:       vector,
		WeightsFitted: fitted,
		Composite:     composite,
		Correction:    correction,
		Final:         final,
	}
}

// reconcile backfills the trailing lookback window: any weekday whose
// ground truth has arrived and whose ledger row is missing or still open
// is rescored as of that day and closed. Rerunning over unchanged ground
// truth is a no-op: past factor inputs do not change, so the recomputed
// row is identical.
func (p *Pipeline) reconcile(set contracts.SeriesSet, rows []contracts.LedgerRow, today time.Time) ([]contracts.LedgerRow, int) {
	// Backfilled composites use the uniform vector: the fit happens after
	// reconciliation, over the rows produced here.
	uniform := contracts.UniformWeights(p.factors.FactorNames())

	reconciled := 0
	for i := p.factors.Reconcile.LookbackDays; i >= 1; i-- {
		day := contracts.Day(today.AddDate(0, 0, -i))
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		actual := p.truth.Value(day)
		if actual == nil {
			continue
		}

		if row, ok := ledger.Find(rows, day); ok && row.Closed() {
			continue
		}

		scores := p.scorer.ScoreAll(set, day)
		composite := weights.Combine(scores, uniform)
		bias := round2(*actual - composite)

		rows = ledger.Upsert(rows, contracts.LedgerRow{
			Date:      day,
			Scores:    contracts.ScoreMap(scores),
			Predicted: composite,
			Actual:    actual,
			Bias:      &bias,
		})
		reconciled++

		p.log.WithFields(map[string]interface{}{
			"date":      day.Format("2006-01-02"),
			"predicted": composite,
			"actual":    *actual,
			"bias":      bias,
		}).Debug("ledger row closed")
	}

	return rows, reconciled
}

// biasCorrection derives the correction from closed rows: the most recent
// bias, or an EMA over closed-row biases when smoothing is configured.
func (p *Pipeline) biasCorrection(rows []contracts.LedgerRow) float64 {
	decay := p.factors.Bias.Smoothing
	if decay == 0 {
		if last, ok := ledger.LastClosed(rows); ok {
			return round2(*last.Bias)
		}
		return 0
	}

	var ema float64
	seen := false
	for _, r := range rows {
		if !r.Closed() {
			continue
		}
		if !seen {
			ema = *r.Bias
			seen = true
			continue
		}
		ema = decay*ema + (1-decay)*(*r.Bias)
	}
	if !seen {
		return 0
	}
	return round2(ema)
}

// fetchSeries gathers every input series. Any individual fetch failure is
// logged and leaves that series empty; the affected factors score neutral.
func (p *Pipeline) fetchSeries(ctx context.Context) contracts.SeriesSet {
	var set contracts.SeriesSet
	var err error

	set.Close, set.Volume, err = p.provider.FetchIndexDaily(ctx, p.cfg.IndexSymbol)
	if err != nil {
		p.log.WithError(err).Warn("index daily fetch failed, factors will default to neutral")
	}

	if set.Valuation, err = p.provider.FetchValuation(ctx, p.cfg.ValuationSymbol); err != nil {
		p.log.WithError(err).Warn("valuation fetch failed")
	}

	if set.BondYield, err = p.provider.FetchBondYield(ctx); err != nil {
		p.log.WithError(err).Warn("bond yield fetch failed")
	}

	if set.FuturesClose, err = p.provider.FetchFuturesDaily(ctx, p.cfg.FuturesSymbol); err != nil {
		p.log.WithError(err).Warn("futures fetch failed")
	}

	if set.MarginBalance, err = p.provider.FetchMarginBalance(ctx); err != nil {
		p.log.WithError(err).Warn("margin balance fetch failed")
	}

	return set
}

// buildNotification renders the run summary card.
func (p *Pipeline) buildNotification(r *Result) contracts.Notification {
	names := p.factors.FactorNames()

	weightParts := make([]string, 0, len(names))
	scoreParts := make([]string, 0, len(names))
	scoreMap := contracts.ScoreMap(r.Scores)
	for _, name := range names {
		weightParts = append(weightParts, fmt.Sprintf("%s:%.0f%%", name, r.Weights[name]*100))
		scoreParts = append(scoreParts, fmt.Sprintf("%.2f", scoreMap[name]))
	}

	weightSource := "uniform"
	if r.WeightsFitted {
		weightSource = "fitted"
	}

	body := fmt.Sprintf(
		"**Today's level: %.2f**\nraw composite: %.2f | correction: %+.2f\n\n**Weights (%s):**\n%s",
		r.Final, r.Composite, r.Correction, weightSource, strings.Join(weightParts, " | "),
	)

	template := "purple"
	switch {
	case r.Final >= 70:
		template = "red"
	case r.Final <= 30:
		template = "green"
	}

	return contracts.Notification{
		Title:    fmt.Sprintf("Fear/Greed Index Forecast (%s)", r.Date.Format("2006-01-02")),
		Body:     body,
		Note:     "factor scores: " + strings.Join(scoreParts, " / "),
		Template: template,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
