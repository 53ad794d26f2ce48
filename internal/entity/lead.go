package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLeadAlreadyExists = errors.New("lead já existe para essa empresa")

// Lead representa a linha da planilha que bateu com a empresa do CRM.
// No máximo um por company_name (case-insensitive).
type Lead struct {
	ID          string    `json:"id"`
	AdviserName string    `json:"adviser_name"`
	LeadName    string    `json:"lead_name"`
	LinkedinURL string    `json:"linkedin_url"`
	LeadTitle   string    `json:"lead_title"`
	CompanyName string    `json:"company_name"`
	Domain      string    `json:"domain,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByCompanyName(ctx context.Context, companyName string) (*Lead, error)
	List(ctx context.Context) ([]Lead, error)
}

// NewLead monta o lead a partir da linha da planilha e da empresa do CRM
func NewLead(row SheetRow, companyName, domain string) *Lead {
	return &Lead{
		ID:          uuid.New().String(),
		AdviserName: row.AdviserName(),
		LeadName:    row.LeadName(),
		LinkedinURL: row.LinkedinURL(),
		LeadTitle:   row.LeadTitle(),
		CompanyName: companyName,
		Domain:      domain,
		CreatedAt:   time.Now(),
	}
}
