package sheets

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Source provides one full tabular snapshot per fetch.
type Source interface {
	FetchTable(ctx context.Context) (*Table, error)
}

// ClientOptions configures a Google Sheets values fetch.
type ClientOptions struct {
	APIKey        string
	SpreadsheetID string
	ReadRange     string
	Logger        *logrus.Logger
}

// Client reads a spreadsheet through the Google Sheets values API using API
// key authentication.
type Client struct {
	service       *sheetsapi.Service
	spreadsheetID string
	readRange     string
	logger        *logrus.Logger
}

var _ Source = (*Client)(nil)

// NewClient constructs a Sheets API client for one spreadsheet range.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.APIKey == "" {
		return nil, eris.New("google API key is required")
	}
	if opts.SpreadsheetID == "" {
		return nil, eris.New("spreadsheet ID is required")
	}

	readRange := opts.ReadRange
	if readRange == "" {
		readRange = "Sheet1"
	}

	service, err := sheetsapi.NewService(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, eris.Wrap(err, "creating sheets service")
	}

	return &Client{
		service:       service,
		spreadsheetID: opts.SpreadsheetID,
		readRange:     readRange,
		logger:        opts.Logger,
	}, nil
}

// FetchTable downloads the configured range and shapes it into a Table.
func (c *Client) FetchTable(ctx context.Context) (*Table, error) {
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"spreadsheet_id": c.spreadsheetID,
			"range":          c.readRange,
		}).Info("fetching sheet data")
	}

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("FORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, eris.Wrapf(err, "downloading sheet: %s", c.spreadsheetID)
	}

	table, err := NewTable(resp.Values)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.WithField("rows", len(table.Rows)).Info("fetched sheet data")
	}

	return table, nil
}
