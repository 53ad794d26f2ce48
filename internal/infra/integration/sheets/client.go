package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

var ErrMissingConfig = errors.New("configuração do Google Sheets incompleta (GOOGLE_SHEETS_API_KEY, SPREADSHEET_ID, SPREADSHEET_SHEET_NAME)")

// Client lê a faixa inteira de valores da planilha configurada,
// autenticando só por API key. Sem cache: cada webhook busca de novo.
type Client struct {
	spreadsheetID string
	sheetName     string
	apiKey        string
	opts          []option.ClientOption
}

func NewClient(spreadsheetID, sheetName, apiKey string) *Client {
	return &Client{
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		apiKey:        apiKey,
	}
}

// NewClientWithEndpoint existe para os testes apontarem num httptest.Server
func NewClientWithEndpoint(spreadsheetID, sheetName, endpoint string) *Client {
	return &Client{
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		opts: []option.ClientOption{
			option.WithEndpoint(endpoint),
			option.WithoutAuthentication(),
		},
	}
}

func (c *Client) FetchRows(ctx context.Context) ([]entity.SheetRow, error) {
	// Config faltando corta antes de qualquer chamada de rede
	if c.spreadsheetID == "" || c.sheetName == "" || (c.apiKey == "" && len(c.opts) == 0) {
		return nil, ErrMissingConfig
	}

	opts := c.opts
	if len(opts) == 0 {
		opts = []option.ClientOption{option.WithAPIKey(c.apiKey)}
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar serviço do Sheets: %w", err)
	}

	resp, err := svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName).Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			return nil, &usecase.DomainError{
				Code:    usecase.CodeUpstreamLookupFailure,
				Message: fmt.Sprintf("Google Sheets respondeu %d: %s", gErr.Code, gErr.Body),
			}
		}
		return nil, fmt.Errorf("falha ao buscar planilha: %w", err)
	}

	rows := make([]entity.SheetRow, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make(entity.SheetRow, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}

	return rows, nil
}
