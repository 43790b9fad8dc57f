package pages

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository defines persistence operations for office pages.
type Repository interface {
	GetByKey(ctx context.Context, stateOffice, area, service string) (*OfficePage, error)
	FindByStatePrefix(ctx context.Context, state, area, service string) ([]OfficePage, error)
	ListSummaries(ctx context.Context, stateOffice, area string) ([]PageSummary, error)
	DistinctStateOfficeTokens(ctx context.Context) ([]string, error)
	ListKeys(ctx context.Context, stateOffice string) ([]PageKey, error)
	Create(ctx context.Context, page *OfficePage) error
}

// GormRepository persists office pages using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// GetByKey returns the page matching the business key exactly, or nil when
// no row matches. The unique index means at most one row can match; if the
// data is ever in a corrupt state the first row wins.
func (r *GormRepository) GetByKey(ctx context.Context, stateOffice, area, service string) (*OfficePage, error) {
	var page OfficePage
	err := r.db.WithContext(ctx).
		Where("state_office_token = ? AND area_served_token = ? AND service_token = ?", stateOffice, area, service).
		Order("id ASC").
		First(&page).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"state_office_token": stateOffice}, err, "fetching page by key")
		return nil, eris.Wrapf(err, "fetching page by key: %s/%s/%s", stateOffice, area, service)
	}

	return &page, nil
}

// FindByStatePrefix returns every page whose state office token starts with
// the given state followed by a slash, filtered by exact area and service.
func (r *GormRepository) FindByStatePrefix(ctx context.Context, state, area, service string) ([]OfficePage, error) {
	var matches []OfficePage
	err := r.db.WithContext(ctx).
		Where("state_office_token LIKE ? ESCAPE '\\' AND area_served_token = ? AND service_token = ?", escapeLike(state)+"/%", area, service).
		Order("state_office_token ASC").
		Find(&matches).Error
	if err != nil {
		r.logError(logrus.Fields{"state": state}, err, "fetching pages by state prefix")
		return nil, eris.Wrapf(err, "fetching pages by state prefix: %s", state)
	}

	return matches, nil
}

// ListSummaries returns the service summaries for one office and area,
// ordered by service token. Content bodies are not selected.
func (r *GormRepository) ListSummaries(ctx context.Context, stateOffice, area string) ([]PageSummary, error) {
	var summaries []PageSummary
	err := r.db.WithContext(ctx).
		Model(&OfficePage{}).
		Select("id", "state_office_token", "area_served_token", "service_token", "page_title").
		Where("state_office_token = ? AND area_served_token = ?", stateOffice, area).
		Order("service_token ASC").
		Find(&summaries).Error
	if err != nil {
		r.logError(logrus.Fields{"state_office_token": stateOffice, "area_served_token": area}, err, "listing page summaries")
		return nil, eris.Wrapf(err, "listing page summaries: %s/%s", stateOffice, area)
	}

	return summaries, nil
}

// DistinctStateOfficeTokens returns the sorted set of unique state office
// tokens across all pages.
func (r *GormRepository) DistinctStateOfficeTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&OfficePage{}).
		Distinct("state_office_token").
		Order("state_office_token ASC").
		Pluck("state_office_token", &tokens).Error
	if err != nil {
		r.logError(nil, err, "listing distinct state office tokens")
		return nil, eris.Wrap(err, "listing distinct state office tokens")
	}

	return tokens, nil
}

// ListKeys returns every business-key triple for one state office token.
func (r *GormRepository) ListKeys(ctx context.Context, stateOffice string) ([]PageKey, error) {
	var keys []PageKey
	err := r.db.WithContext(ctx).
		Model(&OfficePage{}).
		Select("state_office_token", "area_served_token", "service_token").
		Where("state_office_token = ?", stateOffice).
		Order("area_served_token ASC, service_token ASC").
		Find(&keys).Error
	if err != nil {
		r.logError(logrus.Fields{"state_office_token": stateOffice}, err, "listing page keys")
		return nil, eris.Wrapf(err, "listing page keys: %s", stateOffice)
	}

	return keys, nil
}

// Create inserts a new page. A unique-index collision comes back wrapped
// around gorm.ErrDuplicatedKey so callers can translate it to a conflict.
func (r *GormRepository) Create(ctx context.Context, page *OfficePage) error {
	if page == nil {
		return eris.New("page is nil")
	}

	if err := r.db.WithContext(ctx).Create(page).Error; err != nil {
		if !eris.Is(err, gorm.ErrDuplicatedKey) {
			r.logError(logrus.Fields{"state_office_token": page.StateOfficeToken}, err, "creating page")
		}
		return eris.Wrapf(err, "creating page: %s/%s/%s", page.StateOfficeToken, page.AreaServedToken, page.ServiceToken)
	}

	return nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

// escapeLike neutralises LIKE wildcards in a token before it is used as a
// prefix pattern.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
