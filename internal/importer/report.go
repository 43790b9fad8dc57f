package importer

import (
	"github.com/sirupsen/logrus"
)

// FailureCategory classifies one failed source row.
type FailureCategory string

const (
	// FailureEmptyFields marks a row missing one or more required fields.
	FailureEmptyFields FailureCategory = "empty required fields"
	// FailureDuplicateKey marks a row rejected by the business-key unique constraint.
	FailureDuplicateKey FailureCategory = "duplicate key"
	// FailureUnexpected marks any other per-row error, including rows lost
	// to a failed batch commit.
	FailureUnexpected FailureCategory = "unexpected"
)

// RowFailure records one failed source row. Row is the 1-indexed position in
// the original sheet, counting the header row.
type RowFailure struct {
	Row      int
	Category FailureCategory
	Detail   string
}

// Report accumulates the outcome of importing one table.
type Report struct {
	Source            string
	TotalRows         int
	DuplicatesRemoved int
	KeyCollisions     int
	Succeeded         int
	Failed            int
	Failures          []RowFailure
}

func (r *Report) addFailure(row int, category FailureCategory, detail string) {
	r.Failed++
	r.Failures = append(r.Failures, RowFailure{Row: row, Category: category, Detail: detail})
}

// Log emits a structured summary of the import outcome.
func (r *Report) Log(logger *logrus.Logger) {
	if logger == nil {
		return
	}

	byCategory := map[FailureCategory]int{}
	for _, failure := range r.Failures {
		byCategory[failure.Category]++
	}

	logger.WithFields(logrus.Fields{
		"source":             r.Source,
		"total_rows":         r.TotalRows,
		"duplicates_removed": r.DuplicatesRemoved,
		"key_collisions":     r.KeyCollisions,
		"succeeded":          r.Succeeded,
		"failed":             r.Failed,
	}).Info("import completed")

	for category, count := range byCategory {
		logger.WithFields(logrus.Fields{
			"source":   r.Source,
			"category": string(category),
			"count":    count,
		}).Warn("import failures")
	}

	for _, failure := range r.Failures {
		logger.WithFields(logrus.Fields{
			"source":   r.Source,
			"row":      failure.Row,
			"category": string(failure.Category),
			"detail":   failure.Detail,
		}).Warn("row skipped")
	}
}

// AggregateReport covers a dual-source run: office pages plus the optional
// franchise development pages.
type AggregateReport struct {
	Office  *Report
	Frandev *Report
}

// Succeeded sums successful rows across both sources.
func (a *AggregateReport) Succeeded() int {
	total := 0
	if a.Office != nil {
		total += a.Office.Succeeded
	}
	if a.Frandev != nil {
		total += a.Frandev.Succeeded
	}
	return total
}

// Failed sums failed rows across both sources.
func (a *AggregateReport) Failed() int {
	total := 0
	if a.Office != nil {
		total += a.Office.Failed
	}
	if a.Frandev != nil {
		total += a.Frandev.Failed
	}
	return total
}
