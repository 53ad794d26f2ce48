package sheets_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/sheets"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func TestFetchRowsMissingConfig(t *testing.T) {
	cases := []struct {
		name   string
		client *sheets.Client
	}{
		{"sem api key", sheets.NewClient("sheet-1", "Leads", "")},
		{"sem spreadsheet id", sheets.NewClient("", "Leads", "key")},
		{"sem nome da aba", sheets.NewClient("sheet-1", "", "key")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := tc.client.FetchRows(context.Background())

			assert.Nil(t, rows)
			assert.ErrorIs(t, err, sheets.ErrMissingConfig)
		})
	}
}

func TestFetchRowsConvertsValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/spreadsheets/sheet-1/values/")
		// Células numéricas viram string na conversão
		fmt.Fprint(w, `{"range":"Leads!A1:E3","majorDimension":"ROWS","values":[
			["Jane","Bob","linkedin.com/bob","Acme Inc","CTO"],
			["Mark","Alice","linkedin.com/alice",42,"CEO"]]}`)
	}))
	defer srv.Close()

	client := sheets.NewClientWithEndpoint("sheet-1", "Leads", srv.URL)

	rows, err := client.FetchRows(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, entity.SheetRow{"Jane", "Bob", "linkedin.com/bob", "Acme Inc", "CTO"}, rows[0])
	assert.Equal(t, "42", rows[1].CompanyName())
}

// Planilha sem values no range não é erro, é zero linhas
func TestFetchRowsEmptyRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"range":"Leads!A1:E1","majorDimension":"ROWS"}`)
	}))
	defer srv.Close()

	client := sheets.NewClientWithEndpoint("sheet-1", "Leads", srv.URL)

	rows, err := client.FetchRows(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchRowsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quota exceeded","status":"PERMISSION_DENIED"}}`)
	}))
	defer srv.Close()

	client := sheets.NewClientWithEndpoint("sheet-1", "Leads", srv.URL)

	_, err := client.FetchRows(context.Background())

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeUpstreamLookupFailure, usecase.DomainCode(err))
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "quota exceeded")
}
