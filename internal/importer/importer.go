package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"officepages/app/internal/pages"
	"officepages/app/internal/sheets"
)

// headerRowOffset maps a 0-based data row index back to its 1-indexed
// position in the source sheet, counting the header row.
const headerRowOffset = 2

// Importer replaces page table contents from spreadsheet snapshots. It is a
// single sequential worker: a failed run is re-triggered from scratch.
type Importer struct {
	db        *gorm.DB
	logger    *logrus.Logger
	batchSize int
}

// New constructs an importer writing through the given database connection.
func New(db *gorm.DB, logger *logrus.Logger, batchSize int) (*Importer, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}
	if batchSize <= 0 {
		return nil, eris.Errorf("batch size must be positive, got %d", batchSize)
	}

	return &Importer{db: db, logger: logger, batchSize: batchSize}, nil
}

// target describes how one sheet maps onto one page table.
type target struct {
	name       string
	required   []string
	keyColumns []string
	deleteAll  func(tx *gorm.DB) error
	newRecord  func(table *sheets.Table, row []string) interface{}
}

func officeTarget() target {
	return target{
		name:       "office_pages",
		required:   pages.RequiredFields,
		keyColumns: []string{"state_office_token", "area_served_token", "service_token"},
		deleteAll: func(tx *gorm.DB) error {
			return tx.Unscoped().Where("1 = 1").Delete(&pages.OfficePage{}).Error
		},
		newRecord: func(table *sheets.Table, row []string) interface{} {
			return &pages.OfficePage{
				StateOfficeToken: table.Value(row, "state_office_token"),
				AreaServedToken:  table.Value(row, "area_served_token"),
				ServiceToken:     table.Value(row, "service_token"),
				MetaTitle:        table.Value(row, "meta_title"),
				MetaDescription:  table.Value(row, "meta_description"),
				PageTitle:        table.Value(row, "page_title"),
				PageContent:      table.Value(row, "page_content"),
			}
		},
	}
}

func frandevTarget() target {
	return target{
		name:       "frandev_pages",
		required:   []string{"state_token", "city_token", "clai_page_token"},
		keyColumns: []string{"state_token", "city_token", "clai_page_token"},
		deleteAll: func(tx *gorm.DB) error {
			return tx.Unscoped().Where("1 = 1").Delete(&pages.FrandevPage{}).Error
		},
		newRecord: func(table *sheets.Table, row []string) interface{} {
			return &pages.FrandevPage{
				StateToken:      table.Value(row, "state_token"),
				CityToken:       table.Value(row, "city_token"),
				PageToken:       table.Value(row, "clai_page_token"),
				MetaTitle:       table.Value(row, "meta_title"),
				MetaDescription: table.Value(row, "meta_description"),
				PageTitle:       table.Value(row, "page_title"),
				PageContent:     table.Value(row, "page_content"),
				LinkLabel:       table.Value(row, "link_label"),
			}
		},
	}
}

// ImportOfficePages replaces the office page table from the given source.
func (i *Importer) ImportOfficePages(ctx context.Context, source sheets.Source) (*Report, error) {
	return i.importTable(ctx, source, officeTarget())
}

// ImportFrandevPages replaces the franchise development page table from the
// given source.
func (i *Importer) ImportFrandevPages(ctx context.Context, source sheets.Source) (*Report, error) {
	return i.importTable(ctx, source, frandevTarget())
}

// Run imports the office sheet and, when a frandev source is supplied, the
// franchise development sheet, returning an aggregate report. Either import
// failing fatally aborts the run.
func (i *Importer) Run(ctx context.Context, office, frandev sheets.Source) (*AggregateReport, error) {
	if office == nil {
		return nil, eris.New("office sheet source is required")
	}

	aggregate := &AggregateReport{}

	officeReport, err := i.ImportOfficePages(ctx, office)
	if err != nil {
		return nil, eris.Wrap(err, "importing office pages")
	}
	aggregate.Office = officeReport

	if frandev != nil {
		frandevReport, err := i.ImportFrandevPages(ctx, frandev)
		if err != nil {
			return nil, eris.Wrap(err, "importing frandev pages")
		}
		aggregate.Frandev = frandevReport
	}

	return aggregate, nil
}

// sourceRow keeps a data row together with its 1-indexed sheet position so
// failures can be reported against the original sheet.
type sourceRow struct {
	number int
	cells  []string
}

func (i *Importer) importTable(ctx context.Context, source sheets.Source, tgt target) (*Report, error) {
	table, err := source.FetchTable(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "fetching %s sheet", tgt.name)
	}

	if missing := table.MissingColumns(tgt.required); len(missing) > 0 {
		return nil, eris.Errorf("missing required columns in %s sheet: %s", tgt.name, strings.Join(missing, ", "))
	}

	report := &Report{Source: tgt.name, TotalRows: len(table.Rows)}

	rows := i.dedupe(table, tgt, report)

	if err := tgt.deleteAll(i.db.WithContext(ctx)); err != nil {
		return nil, eris.Wrapf(err, "deleting existing %s rows", tgt.name)
	}
	if i.logger != nil {
		i.logger.WithFields(logrus.Fields{"source": tgt.name, "rows": len(rows)}).Info("deleted existing rows, importing")
	}

	for start := 0; start < len(rows); start += i.batchSize {
		end := start + i.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		i.importBatch(ctx, table, tgt, rows[start:end], report)
	}

	report.Log(i.logger)
	return report, nil
}

// dedupe drops rows that are exact duplicates across every column and counts
// business-key collisions without dropping them; collisions surface later as
// constraint violations.
func (i *Importer) dedupe(table *sheets.Table, tgt target, report *Report) []sourceRow {
	seen := make(map[string]bool, len(table.Rows))
	seenKeys := make(map[string]bool, len(table.Rows))
	rows := make([]sourceRow, 0, len(table.Rows))

	for idx, cells := range table.Rows {
		signature := rowSignature(table, table.Headers, cells)
		if seen[signature] {
			report.DuplicatesRemoved++
			continue
		}
		seen[signature] = true

		key := rowSignature(table, tgt.keyColumns, cells)
		if seenKeys[key] {
			report.KeyCollisions++
		}
		seenKeys[key] = true

		rows = append(rows, sourceRow{number: idx + headerRowOffset, cells: cells})
	}

	if report.DuplicatesRemoved > 0 && i.logger != nil {
		i.logger.WithFields(logrus.Fields{
			"source":             tgt.name,
			"duplicates_removed": report.DuplicatesRemoved,
		}).Warn("removed exact duplicate rows")
	}
	if report.KeyCollisions > 0 && i.logger != nil {
		i.logger.WithFields(logrus.Fields{
			"source":         tgt.name,
			"key_collisions": report.KeyCollisions,
		}).Warn("rows collide on the business key and will fail the unique constraint")
	}

	return rows
}

// importBatch stages each row inside one transaction, using a savepoint per
// row so a constraint violation rolls back only that row, then commits the
// batch. A failed commit fails every row staged in the batch.
func (i *Importer) importBatch(ctx context.Context, table *sheets.Table, tgt target, rows []sourceRow, report *Report) {
	tx := i.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		for _, row := range rows {
			report.addFailure(row.number, FailureUnexpected, "opening batch transaction: "+tx.Error.Error())
		}
		return
	}

	var staged []int
	for _, row := range rows {
		if empty := emptyRequired(table, tgt.required, row.cells); len(empty) > 0 {
			report.addFailure(row.number, FailureEmptyFields, strings.Join(empty, ", "))
			continue
		}

		savepoint := fmt.Sprintf("row_%d", row.number)
		tx.SavePoint(savepoint)

		if err := tx.Create(tgt.newRecord(table, row.cells)).Error; err != nil {
			tx.RollbackTo(savepoint)
			if eris.Is(err, gorm.ErrDuplicatedKey) {
				report.addFailure(row.number, FailureDuplicateKey, rowSignature(table, tgt.keyColumns, row.cells))
			} else {
				report.addFailure(row.number, FailureUnexpected, err.Error())
			}
			continue
		}

		staged = append(staged, row.number)
	}

	if err := tx.Commit().Error; err != nil {
		for _, number := range staged {
			report.addFailure(number, FailureUnexpected, "batch commit failed: "+err.Error())
		}
		return
	}

	report.Succeeded += len(staged)
}

func emptyRequired(table *sheets.Table, required []string, cells []string) []string {
	var empty []string
	for _, column := range required {
		if table.Value(cells, column) == "" {
			empty = append(empty, column)
		}
	}

	return empty
}

func rowSignature(table *sheets.Table, columns []string, cells []string) string {
	values := make([]string, 0, len(columns))
	for _, column := range columns {
		values = append(values, table.Value(cells, column))
	}

	return strings.Join(values, "\x1f")
}
