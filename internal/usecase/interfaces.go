package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Company é o que o CRM devolve depois de resolver o evento
type Company struct {
	Name   string
	Domain string
}

// CompanyResolver abstrai a variante de CRM (HubSpot ou Pipedrive).
// Cada variante sabe extrair o nome da empresa a partir do seu próprio
// identificador no input.
type CompanyResolver interface {
	ResolveCompany(ctx context.Context, input ProcessWebhookInput) (*Company, error)
}

type SheetGateway interface {
	FetchRows(ctx context.Context) ([]entity.SheetRow, error)
}

type EmailService interface {
	SendLeadMatched(to string, lead *entity.Lead) error
}
