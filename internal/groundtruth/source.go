package groundtruth

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab/feargreed/pkg/logger"
)

// Source reads externally supplied ground-truth values from a directory of
// single-value text files, one per date, named by an 8-digit date stamp
// (for example 20260102.txt). Absence of a file means "not yet known",
// never zero.
type Source struct {
	dir string
	log *logger.Logger
}

// NewSource creates a ground-truth source
func NewSource(dir string, log *logger.Logger) *Source {
	return &Source{
		dir: dir,
		log: log.WithComponent("groundtruth"),
	}
}

// Value returns the ground truth for a date, or nil when none has arrived
// yet. A missing directory and unreadable or unparsable files all count as
// "not yet known" rather than errors: late or damaged drops must not stop
// a scoring run.
func (s *Source) Value(date time.Time) *float64 {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("ground-truth directory unreadable")
		}
		return nil
	}

	stamp := date.Format("20060102")
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") || !strings.Contains(name, stamp) {
			continue
		}

		v, err := s.readValue(filepath.Join(s.dir, name))
		if err != nil {
			s.log.WithFields(map[string]interface{}{
				"file":  name,
				"error": err.Error(),
			}).Warn("skipping unparsable ground-truth file")
			continue
		}
		return v
	}

	return nil
}

func (s *Source) readValue(path string) (*float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", strings.TrimSpace(string(data)), err)
	}
	return &v, nil
}
