package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/quantlab/feargreed/internal/contracts"
	"github.com/quantlab/feargreed/pkg/logger"
)

// Repository persists the scoring history as one CSV file:
// date, one sub-score column per factor, predicted, actual, bias.
// Actual and bias are blank while a row is still open. The whole file is
// read, modified and rewritten each run; this process is the only writer.
type Repository struct {
	path        string
	factorNames []string
	log         *logger.Logger
}

// NewRepository creates a ledger repository. factorNames fixes the score
// column order, which must stay stable across runs for the file to stay
// parseable.
func NewRepository(path string, factorNames []string, log *logger.Logger) *Repository {
	return &Repository{
		path:        path,
		factorNames: factorNames,
		log:         log.WithComponent("ledger"),
	}
}

// Load reads all ledger rows, sorted ascending by date. A missing file is
// an empty ledger, not an error.
func (r *Repository) Load() ([]contracts.LedgerRow, error) {
	file, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.WithField("path", r.path).Debug("ledger file not found, starting empty")
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}
	if _, ok := columns["date"]; !ok {
		return nil, fmt.Errorf("ledger header missing date column")
	}

	var rows []contracts.LedgerRow
	for i, record := range records[1:] {
		row, err := r.parseRow(record, columns)
		if err != nil {
			// Tolerate individual damaged rows rather than losing the ledger
			r.log.WithFields(map[string]interface{}{
				"line":  i + 2,
				"error": err.Error(),
			}).Warn("skipping malformed ledger row")
			continue
		}
		rows = append(rows, row)
	}

	sortRows(rows)
	return rows, nil
}

// Save writes the full ledger, ascending by date, replacing the previous
// file atomically.
func (r *Repository) Save(rows []contracts.LedgerRow) error {
	sortRows(rows)

	tmp := r.path + ".tmp"
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}

	writer := csv.NewWriter(file)

	header := append([]string{"date"}, r.factorNames...)
	header = append(header, "predicted", "actual", "bias")
	if err := writer.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Date.Format("2006-01-02"))
		for _, name := range r.factorNames {
			record = append(record, formatFloat(row.Scores[name]))
		}
		record = append(record, formatFloat(row.Predicted))
		record = append(record, formatOptional(row.Actual))
		record = append(record, formatOptional(row.Bias))

		if err := writer.Write(record); err != nil {
			file.Close()
			return fmt.Errorf("write ledger row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"path": r.path,
		"rows": len(rows),
	}).Debug("ledger saved")
	return nil
}

// Upsert replaces the row for row.Date or inserts it: at most one row per
// date, a recomputation wins over the prior row.
func Upsert(rows []contracts.LedgerRow, row contracts.LedgerRow) []contracts.LedgerRow {
	row.Date = contracts.Day(row.Date)
	for i := range rows {
		if rows[i].Date.Equal(row.Date) {
			rows[i] = row
			return rows
		}
	}
	rows = append(rows, row)
	sortRows(rows)
	return rows
}

// Find returns the row for a date, if present.
func Find(rows []contracts.LedgerRow, date time.Time) (contracts.LedgerRow, bool) {
	day := contracts.Day(date)
	for _, r := range rows {
		if r.Date.Equal(day) {
			return r, true
		}
	}
	return contracts.LedgerRow{}, false
}

// LastClosed returns the most recent row with ground truth.
func LastClosed(rows []contracts.LedgerRow) (contracts.LedgerRow, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Closed() {
			return rows[i], true
		}
	}
	return contracts.LedgerRow{}, false
}

func (r *Repository) parseRow(record []string, columns map[string]int) (contracts.LedgerRow, error) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	date, err := time.Parse("2006-01-02", get("date"))
	if err != nil {
		return contracts.LedgerRow{}, fmt.Errorf("parse date %q: %w", get("date"), err)
	}

	row := contracts.LedgerRow{
		Date:   contracts.Day(date),
		Scores: make(map[string]float64, len(r.factorNames)),
	}

	for _, name := range r.factorNames {
		v, err := strconv.ParseFloat(get(name), 64)
		if err != nil {
			return contracts.LedgerRow{}, fmt.Errorf("parse %s %q: %w", name, get(name), err)
		}
		row.Scores[name] = v
	}

	row.Predicted, err = strconv.ParseFloat(get("predicted"), 64)
	if err != nil {
		return contracts.LedgerRow{}, fmt.Errorf("parse predicted %q: %w", get("predicted"), err)
	}

	row.Actual = parseOptional(get("actual"))
	row.Bias = parseOptional(get("bias"))

	return row, nil
}

func sortRows(rows []contracts.LedgerRow) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseOptional(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
