package usecase

import (
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// NormalizeCompanyName: minúsculas + trim. Célula vazia vira "".
func NormalizeCompanyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindMatch procura a primeira linha cuja coluna de empresa bate com o
// nome vindo do CRM. O match é igualdade exata após normalização —
// a primeira linha na ordem da planilha ganha.
func FindMatch(companyName string, rows []entity.SheetRow) (entity.SheetRow, bool) {
	target := NormalizeCompanyName(companyName)
	if target == "" {
		return nil, false
	}

	for _, row := range rows {
		if NormalizeCompanyName(row.CompanyName()) == target {
			return row, true
		}
	}
	return nil, false
}
