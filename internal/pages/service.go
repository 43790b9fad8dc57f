package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service defines higher-level page operations built on top of the repository.
type Service interface {
	GetPage(ctx context.Context, stateOffice, area, service string) (*OfficePage, error)
	FindPages(ctx context.Context, state, area, service string) ([]OfficePage, error)
	ListServices(ctx context.Context, stateOffice, area string) ([]PageSummary, error)
	SitemapIndex(ctx context.Context) ([]string, error)
	Sitemap(ctx context.Context, stateOffice string) ([]PageKey, error)
	CreatePage(ctx context.Context, input CreatePageInput) (uint, error)
}

// ErrPageNotFound indicates no page matches the requested key.
var ErrPageNotFound = eris.New("page not found")

// ErrPageExists indicates a page with the same business key already exists.
var ErrPageExists = eris.New("page already exists")

// RequiredFields lists the request fields a page cannot be created without,
// in reporting order. The importer applies the same rule to sheet columns.
var RequiredFields = []string{
	"state_office_token",
	"area_served_token",
	"service_token",
	"meta_title",
	"meta_description",
	"page_title",
	"page_content",
}

// MissingFieldsError reports which required fields were absent or blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// CreatePageInput carries the full set of fields for a new office page.
type CreatePageInput struct {
	StateOfficeToken string
	AreaServedToken  string
	ServiceToken     string
	MetaTitle        string
	MetaDescription  string
	PageTitle        string
	PageContent      string
}

type service struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the page service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("page repository is required")
	}

	return &service{repo: repo, logger: logger, sentryHub: hub}, nil
}

func (s *service) GetPage(ctx context.Context, stateOffice, area, service string) (*OfficePage, error) {
	page, err := s.repo.GetByKey(ctx, stateOffice, area, service)
	if err != nil {
		s.recordError(logrus.Fields{"state_office_token": stateOffice}, err, "retrieving page from repository")
		return nil, eris.Wrapf(err, "retrieving page: %s/%s/%s", stateOffice, area, service)
	}

	if page == nil {
		return nil, eris.Wrapf(ErrPageNotFound, "retrieving page: %s/%s/%s", stateOffice, area, service)
	}

	return page, nil
}

func (s *service) FindPages(ctx context.Context, state, area, service string) ([]OfficePage, error) {
	matches, err := s.repo.FindByStatePrefix(ctx, state, area, service)
	if err != nil {
		s.recordError(logrus.Fields{"state": state}, err, "searching pages by state")
		return nil, eris.Wrapf(err, "searching pages by state: %s", state)
	}

	if len(matches) == 0 {
		return nil, eris.Wrapf(ErrPageNotFound, "searching pages by state: %s", state)
	}

	return matches, nil
}

func (s *service) ListServices(ctx context.Context, stateOffice, area string) ([]PageSummary, error) {
	summaries, err := s.repo.ListSummaries(ctx, stateOffice, area)
	if err != nil {
		s.recordError(logrus.Fields{"state_office_token": stateOffice}, err, "listing services")
		return nil, eris.Wrapf(err, "listing services: %s/%s", stateOffice, area)
	}

	if len(summaries) == 0 {
		return nil, eris.Wrapf(ErrPageNotFound, "listing services: %s/%s", stateOffice, area)
	}

	return summaries, nil
}

func (s *service) SitemapIndex(ctx context.Context) ([]string, error) {
	tokens, err := s.repo.DistinctStateOfficeTokens(ctx)
	if err != nil {
		s.recordError(nil, err, "building sitemap index")
		return nil, eris.Wrap(err, "building sitemap index")
	}

	if len(tokens) == 0 {
		return nil, eris.Wrap(ErrPageNotFound, "building sitemap index")
	}

	return tokens, nil
}

func (s *service) Sitemap(ctx context.Context, stateOffice string) ([]PageKey, error) {
	keys, err := s.repo.ListKeys(ctx, stateOffice)
	if err != nil {
		s.recordError(logrus.Fields{"state_office_token": stateOffice}, err, "building sitemap")
		return nil, eris.Wrapf(err, "building sitemap: %s", stateOffice)
	}

	if len(keys) == 0 {
		return nil, eris.Wrapf(ErrPageNotFound, "building sitemap: %s", stateOffice)
	}

	return keys, nil
}

// CreatePage validates the input, pre-checks the business key, and inserts
// the page. The pre-check narrows the common case; the unique index is the
// actual guarantee under concurrent creators, so a duplicate-key error from
// the insert is still reported as ErrPageExists.
func (s *service) CreatePage(ctx context.Context, input CreatePageInput) (uint, error) {
	if missing := missingFields(input); len(missing) > 0 {
		return 0, &MissingFieldsError{Fields: missing}
	}

	existing, err := s.repo.GetByKey(ctx, input.StateOfficeToken, input.AreaServedToken, input.ServiceToken)
	if err != nil {
		s.recordError(logrus.Fields{"state_office_token": input.StateOfficeToken}, err, "checking for existing page")
		return 0, eris.Wrap(err, "checking for existing page")
	}
	if existing != nil {
		return 0, eris.Wrapf(ErrPageExists, "creating page: %s/%s/%s", input.StateOfficeToken, input.AreaServedToken, input.ServiceToken)
	}

	page := &OfficePage{
		StateOfficeToken: input.StateOfficeToken,
		AreaServedToken:  input.AreaServedToken,
		ServiceToken:     input.ServiceToken,
		MetaTitle:        input.MetaTitle,
		MetaDescription:  input.MetaDescription,
		PageTitle:        input.PageTitle,
		PageContent:      input.PageContent,
	}

	if err := s.repo.Create(ctx, page); err != nil {
		if eris.Is(err, gorm.ErrDuplicatedKey) {
			return 0, eris.Wrapf(ErrPageExists, "creating page: %s/%s/%s", input.StateOfficeToken, input.AreaServedToken, input.ServiceToken)
		}
		s.recordError(logrus.Fields{"state_office_token": input.StateOfficeToken}, err, "persisting page")
		return 0, eris.Wrap(err, "persisting page")
	}

	return page.ID, nil
}

func missingFields(input CreatePageInput) []string {
	values := map[string]string{
		"state_office_token": input.StateOfficeToken,
		"area_served_token":  input.AreaServedToken,
		"service_token":      input.ServiceToken,
		"meta_title":         input.MetaTitle,
		"meta_description":   input.MetaDescription,
		"page_title":         input.PageTitle,
		"page_content":       input.PageContent,
	}

	var missing []string
	for _, field := range RequiredFields {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}

	return missing
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
