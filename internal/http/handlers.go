package http

import (
	"context"
	stdhttp "net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"officepages/app/internal/db"
	"officepages/app/internal/pages"
)

const metadataPublic = "public"

// pageView is the full JSON projection of one office page.
type pageView struct {
	ID               uint   `json:"id"`
	StateOfficeToken string `json:"state_office_token"`
	AreaServedToken  string `json:"area_served_token"`
	ServiceToken     string `json:"service_token"`
	MetaTitle        string `json:"meta_title"`
	MetaDescription  string `json:"meta_description"`
	PageTitle        string `json:"page_title"`
	PageContent      string `json:"page_content"`
}

func newPageView(page pages.OfficePage) pageView {
	return pageView{
		ID:               page.ID,
		StateOfficeToken: page.StateOfficeToken,
		AreaServedToken:  page.AreaServedToken,
		ServiceToken:     page.ServiceToken,
		MetaTitle:        page.MetaTitle,
		MetaDescription:  page.MetaDescription,
		PageTitle:        page.PageTitle,
		PageContent:      page.PageContent,
	}
}

type officePageInput struct {
	State   string `path:"state"`
	Office  string `path:"office"`
	Area    string `path:"area"`
	Service string `path:"service"`
}

type pageResponse struct {
	Body pageView
}

type serviceSearchInput struct {
	State   string `path:"state"`
	Area    string `path:"area"`
	Service string `path:"service"`
}

// serviceSearchResponse carries either a single page object when exactly one
// page matches, or an array of page objects otherwise. Existing consumers
// depend on the single-object shape for the common case.
type serviceSearchResponse struct {
	Body any
}

type serviceListInput struct {
	State  string `path:"state"`
	Office string `path:"office"`
	Area   string `path:"area"`
}

type serviceListResponse struct {
	Body []pages.PageSummary
}

type sitemapInput struct {
	State  string `path:"state"`
	Office string `path:"office"`
}

type sitemapResponse struct {
	Body []pages.PageKey
}

type sitemapIndexResponse struct {
	Body []string
}

type createPageInput struct {
	Body struct {
		StateOfficeToken string `json:"state_office_token,omitempty"`
		AreaServedToken  string `json:"area_served_token,omitempty"`
		ServiceToken     string `json:"service_token,omitempty"`
		MetaTitle        string `json:"meta_title,omitempty"`
		MetaDescription  string `json:"meta_description,omitempty"`
		PageTitle        string `json:"page_title,omitempty"`
		PageContent      string `json:"page_content,omitempty"`
	}
}

type createPageResponse struct {
	Body struct {
		ID      uint   `json:"id"`
		Message string `json:"message"`
	}
}

type healthResponse struct {
	Body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
}

type healthzResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func (s *Server) registerRoutes() {
	huma.Get(s.api, "/", s.healthHandler, publicOperation("Liveness check"))
	huma.Get(s.api, "/healthz", s.healthzHandler, publicOperation("Health check"))

	huma.Get(s.api, "/offices/{state}/{office}/areas/{area}/services/{service}/page", s.getOfficePageHandler,
		jsonOperation("Fetch office page", stdhttp.StatusNotFound))
	huma.Get(s.api, "/services/{state}/{area}/{service}", s.findServicesHandler,
		jsonOperation("Find pages by state, area and service", stdhttp.StatusNotFound))
	huma.Get(s.api, "/offices/{state}/{office}/areas/{area}/services", s.listServicesHandler,
		jsonOperation("List services for an office area", stdhttp.StatusNotFound))
	huma.Post(s.api, "/offices", s.createOfficePageHandler,
		jsonOperation("Create office page", stdhttp.StatusConflict), withDefaultStatus(stdhttp.StatusCreated))
	huma.Get(s.api, "/offices/{state}/{office}/areas/services/sitemap.xml", s.sitemapHandler,
		jsonOperation("List page keys for an office", stdhttp.StatusNotFound))
	huma.Get(s.api, "/sitemap-index.json", s.sitemapIndexHandler,
		jsonOperation("List distinct state office tokens", stdhttp.StatusNotFound))
}

func (s *Server) healthHandler(_ context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Message = "Office Services API is running"
	return resp, nil
}

func (s *Server) healthzHandler(ctx context.Context, _ *struct{}) (*healthzResponse, error) {
	resp := &healthzResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"

	sqlDB, err := db.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}

func (s *Server) getOfficePageHandler(ctx context.Context, input *officePageInput) (*pageResponse, error) {
	stateOffice := input.State + "/" + input.Office

	page, err := s.pages.GetPage(ctx, stateOffice, input.Area, input.Service)
	if err != nil {
		if eris.Is(err, pages.ErrPageNotFound) {
			return nil, pageNotFoundError()
		}
		s.recordError(ctx, err, "loading office page", logrus.Fields{"state_office_token": stateOffice})
		return nil, serverError()
	}

	return &pageResponse{Body: newPageView(*page)}, nil
}

func (s *Server) findServicesHandler(ctx context.Context, input *serviceSearchInput) (*serviceSearchResponse, error) {
	matches, err := s.pages.FindPages(ctx, input.State, input.Area, input.Service)
	if err != nil {
		if eris.Is(err, pages.ErrPageNotFound) {
			return nil, pageNotFoundError()
		}
		s.recordError(ctx, err, "searching pages by state", logrus.Fields{"state": input.State})
		return nil, serverError()
	}

	if len(matches) == 1 {
		return &serviceSearchResponse{Body: newPageView(matches[0])}, nil
	}

	views := make([]pageView, 0, len(matches))
	for _, match := range matches {
		views = append(views, newPageView(match))
	}

	return &serviceSearchResponse{Body: views}, nil
}

func (s *Server) listServicesHandler(ctx context.Context, input *serviceListInput) (*serviceListResponse, error) {
	stateOffice := input.State + "/" + input.Office

	summaries, err := s.pages.ListServices(ctx, stateOffice, input.Area)
	if err != nil {
		if eris.Is(err, pages.ErrPageNotFound) {
			return nil, pageNotFoundError()
		}
		s.recordError(ctx, err, "listing services", logrus.Fields{"state_office_token": stateOffice})
		return nil, serverError()
	}

	return &serviceListResponse{Body: summaries}, nil
}

func (s *Server) createOfficePageHandler(ctx context.Context, input *createPageInput) (*createPageResponse, error) {
	id, err := s.pages.CreatePage(ctx, pages.CreatePageInput{
		StateOfficeToken: input.Body.StateOfficeToken,
		AreaServedToken:  input.Body.AreaServedToken,
		ServiceToken:     input.Body.ServiceToken,
		MetaTitle:        input.Body.MetaTitle,
		MetaDescription:  input.Body.MetaDescription,
		PageTitle:        input.Body.PageTitle,
		PageContent:      input.Body.PageContent,
	})
	if err != nil {
		var missing *pages.MissingFieldsError
		if eris.As(err, &missing) {
			return nil, missingFieldsError(missing.Fields)
		}
		if eris.Is(err, pages.ErrPageExists) {
			return nil, conflictError()
		}
		s.recordError(ctx, err, "creating office page", logrus.Fields{"state_office_token": input.Body.StateOfficeToken})
		return nil, serverError()
	}

	resp := &createPageResponse{}
	resp.Body.ID = id
	resp.Body.Message = "Page created successfully"
	return resp, nil
}

func (s *Server) sitemapHandler(ctx context.Context, input *sitemapInput) (*sitemapResponse, error) {
	stateOffice := input.State + "/" + input.Office

	keys, err := s.pages.Sitemap(ctx, stateOffice)
	if err != nil {
		if eris.Is(err, pages.ErrPageNotFound) {
			return nil, pageNotFoundError()
		}
		s.recordError(ctx, err, "building sitemap", logrus.Fields{"state_office_token": stateOffice})
		return nil, serverError()
	}

	return &sitemapResponse{Body: keys}, nil
}

func (s *Server) sitemapIndexHandler(ctx context.Context, _ *struct{}) (*sitemapIndexResponse, error) {
	tokens, err := s.pages.SitemapIndex(ctx)
	if err != nil {
		if eris.Is(err, pages.ErrPageNotFound) {
			return nil, pageNotFoundError()
		}
		s.recordError(ctx, err, "building sitemap index", nil)
		return nil, serverError()
	}

	return &sitemapIndexResponse{Body: tokens}, nil
}

func publicOperation(summary string) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		op.Summary = summary
		if op.Metadata == nil {
			op.Metadata = map[string]any{}
		}
		op.Metadata[metadataPublic] = true
	}
}

func jsonOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		op.Summary = summary
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{
			stdhttp.StatusBadRequest,
			stdhttp.StatusUnauthorized,
			stdhttp.StatusInternalServerError,
		}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
			}
		}
	}
}

func withDefaultStatus(status int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		op.DefaultStatus = status
	}
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
