package entity

// SheetRow é uma linha crua da planilha. As posições das colunas são
// fixas pelo layout da planilha, não por cabeçalho:
// 0=adviser, 1=lead, 2=linkedin, 3=empresa, 4=cargo
type SheetRow []string

const (
	colAdviserName = 0
	colLeadName    = 1
	colLinkedinURL = 2
	colCompanyName = 3
	colLeadTitle   = 4
)

func (r SheetRow) cell(i int) string {
	if i >= len(r) {
		return ""
	}
	return r[i]
}

func (r SheetRow) AdviserName() string { return r.cell(colAdviserName) }
func (r SheetRow) LeadName() string    { return r.cell(colLeadName) }
func (r SheetRow) LinkedinURL() string { return r.cell(colLinkedinURL) }
func (r SheetRow) CompanyName() string { return r.cell(colCompanyName) }
func (r SheetRow) LeadTitle() string   { return r.cell(colLeadTitle) }
