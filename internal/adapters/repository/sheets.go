package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/presion/internal/domain/model"
	"github.com/okian/presion/pkg/logger"
	"github.com/okian/presion/pkg/metrics"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	sheetsBackend          = "sheets"
	defaultSpreadsheetName = "registro_presion"
	spreadsheetMimeType    = "application/vnd.google-apps.spreadsheet"

	// RAW keeps "15-01-2024" as text instead of letting Sheets turn it into a date.
	valueInputRaw = "RAW"
	// Formatted values return cells as the sheet shows them; the decoder
	// converts numeric text.
	valueRenderFormatted = "FORMATTED_VALUE"
)

// Scopes requested for the service credential: spreadsheet read/write and
// Drive access to find the spreadsheet by name.
var Scopes = []string{sheets.SpreadsheetsScope, drive.DriveScope}

// CredentialsOption turns a service-account JSON key into a client option.
// It also returns the account email for logging.
func CredentialsOption(ctx context.Context, keyJSON []byte) (option.ClientOption, string, error) {
	if len(keyJSON) == 0 {
		return nil, "", wrapKind(ErrCredentials, errors.New("empty key"))
	}
	cfg, err := google.JWTConfigFromJSON(keyJSON, Scopes...)
	if err != nil {
		return nil, "", wrapKind(ErrCredentials, err)
	}
	return option.WithTokenSource(cfg.TokenSource(ctx)), cfg.Email, nil
}

// SheetsStore keeps records in the first worksheet of a Google spreadsheet.
// The first row of the worksheet is the header.
type SheetsStore struct {
	spreadsheetID   string
	spreadsheetName string
	worksheet       string
	timeout         time.Duration
	logger          logger.Logger
	clientOpts      []option.ClientOption

	sheets *sheets.Service
}

// OpenSheets builds the API clients and resolves the spreadsheet and its
// first worksheet. Any failure here is a startup failure.
func OpenSheets(ctx context.Context, opts ...Option) (*SheetsStore, error) {
	s := &SheetsStore{spreadsheetName: defaultSpreadsheetName}
	for _, opt := range opts {
		opt(s)
	}

	svc, err := sheets.NewService(ctx, s.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	s.sheets = svc

	if s.spreadsheetID == "" {
		drv, err := drive.NewService(ctx, s.clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("create drive client: %w", err)
		}
		id, err := s.findSpreadsheet(ctx, drv)
		if err != nil {
			return nil, err
		}
		s.spreadsheetID = id
	}

	title, err := s.firstWorksheet(ctx)
	if err != nil {
		return nil, err
	}
	s.worksheet = title

	s.info(ctx, "row store opened",
		logger.String("spreadsheet_id", s.spreadsheetID),
		logger.String("worksheet", s.worksheet),
	)
	return s, nil
}

// SpreadsheetID returns the resolved spreadsheet id.
func (s *SheetsStore) SpreadsheetID() string { return s.spreadsheetID }

// Worksheet returns the title of the worksheet records live in.
func (s *SheetsStore) Worksheet() string { return s.worksheet }

func (s *SheetsStore) findSpreadsheet(ctx context.Context, drv *drive.Service) (string, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(s.spreadsheetName), spreadsheetMimeType)
	list, err := drv.Files.List().Q(q).Fields("files(id, name)").PageSize(10).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrSpreadsheetNotFound, s.spreadsheetName, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, s.spreadsheetName)
	}
	if len(list.Files) > 1 {
		s.warn(ctx, "several spreadsheets share the name; using the first",
			logger.String("name", s.spreadsheetName),
			logger.Int("matches", len(list.Files)),
		)
	}
	return list.Files[0].Id, nil
}

func (s *SheetsStore) firstWorksheet(ctx context.Context) (string, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	ss, err := s.sheets.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties(sheetId,title,index)").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSpreadsheetNotFound, s.spreadsheetID, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("%w: %s", ErrNoWorksheet, s.spreadsheetID)
	}
	return ss.Sheets[0].Properties.Title, nil
}

// Append adds r as a new row after the last row of the worksheet.
func (s *SheetsStore) Append(ctx context.Context, r model.Record) error {
	start := time.Now()
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	body := &sheets.ValueRange{Values: [][]any{r.Row()}}
	_, err := s.sheets.Spreadsheets.Values.
		Append(s.spreadsheetID, quoteSheet(s.worksheet)+"!A1", body).
		ValueInputOption(valueInputRaw).
		Context(ctx).Do()
	if err != nil {
		metrics.RecordRowStoreError(sheetsBackend, "append")
		s.errorf(ctx, "append row failed", err)
		return wrapKind(ErrAppend, err)
	}
	metrics.RecordRowStoreLatency(sheetsBackend, "append", sinceMs(start))
	return nil
}

// All fetches the whole worksheet and decodes it.
func (s *SheetsStore) All(ctx context.Context) ([]model.Record, error) {
	start := time.Now()
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.sheets.Spreadsheets.Values.
		Get(s.spreadsheetID, quoteSheet(s.worksheet)).
		ValueRenderOption(valueRenderFormatted).
		Context(ctx).Do()
	if err != nil {
		metrics.RecordRowStoreError(sheetsBackend, "fetch")
		s.errorf(ctx, "fetch rows failed", err)
		return nil, wrapKind(ErrFetch, err)
	}
	metrics.RecordRowStoreLatency(sheetsBackend, "fetch", sinceMs(start))

	records, err := DecodeRows(resp.Values)
	if err != nil {
		metrics.RecordRowStoreError(sheetsBackend, "decode")
		s.errorf(ctx, "decode rows failed", err)
		return nil, err
	}
	return records, nil
}

func (s *SheetsStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}

func (s *SheetsStore) info(ctx context.Context, msg string, fields ...logger.Field) {
	if s.logger != nil {
		s.logger.Info(ctx, msg, fields...)
	}
}

func (s *SheetsStore) warn(ctx context.Context, msg string, fields ...logger.Field) {
	if s.logger != nil {
		s.logger.Warn(ctx, msg, fields...)
	}
}

func (s *SheetsStore) errorf(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.Error(ctx, msg, logger.String("spreadsheet_id", s.spreadsheetID), logger.Error(err))
	}
}

// quoteSheet quotes a worksheet title for A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// escapeQuery escapes a literal for a Drive files query.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
