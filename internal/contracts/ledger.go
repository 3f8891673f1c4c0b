package contracts

import "time"

// LedgerRow is one persisted scoring record. A row is created open
// (Actual and Bias nil) when a date is first scored, and closed once the
// external ground-truth source supplies a value for that date.
type LedgerRow struct {
	Date      time.Time
	Scores    map[string]float64 // sub-score per factor
	Predicted float64            // weighted composite before bias correction
	Actual    *float64           // externally observed ground truth, nil while open
	Bias      *float64           // Actual - Predicted, nil while open
}

// Closed reports whether ground truth has been recorded for this row.
func (r LedgerRow) Closed() bool {
	return r.Actual != nil && r.Bias != nil
}
