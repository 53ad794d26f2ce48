package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// ProcessWebhookUseCase é o caminho único de orquestração: resolve a
// empresa no CRM, busca a planilha, faz o match e persiste o Lead uma
// única vez por empresa. A variante de CRM entra pelo CompanyResolver.
type ProcessWebhookUseCase struct {
	Resolver     CompanyResolver
	Sheets       SheetGateway
	LeadRepo     entity.LeadRepositoryInterface
	EmailService EmailService
	NotifyEmail  string
}

func NewProcessWebhookUseCase(
	resolver CompanyResolver,
	sheets SheetGateway,
	leadRepo entity.LeadRepositoryInterface,
	emailService EmailService,
	notifyEmail string,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		Resolver:     resolver,
		Sheets:       sheets,
		LeadRepo:     leadRepo,
		EmailService: emailService,
		NotifyEmail:  notifyEmail,
	}
}

func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, input ProcessWebhookInput) (*ProcessWebhookOutput, error) {
	if input.ContactID == "" && input.OrganizationID == "" {
		return nil, &DomainError{
			Code:    CodeBadPayload,
			Message: "evento sem identificador (contact_id ou organization_id)",
		}
	}

	// 1. Resolve a empresa no CRM
	company, err := uc.Resolver.ResolveCompany(ctx, input)
	if err != nil {
		return nil, err
	}
	log.Printf("🔎 Empresa resolvida no CRM: %s", company.Name)

	// 2. Planilha sempre fresca, sem cache entre requests
	rows, err := uc.Sheets.FetchRows(ctx)
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		return nil, &DomainError{
			Code:    CodeUpstreamLookupFailure,
			Message: "falha ao buscar planilha: " + err.Error(),
		}
	}

	// 3. Match exato após normalização
	row, ok := FindMatch(company.Name, rows)
	if !ok {
		log.Printf("Nenhuma empresa da planilha bateu com '%s'", company.Name)
		return &ProcessWebhookOutput{
			Outcome:     OutcomeNoMatch,
			CompanyName: company.Name,
			Message:     fmt.Sprintf("No matching company found for '%s'", company.Name),
		}, nil
	}

	// 4. Idempotência: no máximo um Lead por empresa
	existing, err := uc.LeadRepo.FindByCompanyName(ctx, company.Name)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodePersistenceFailure,
			Message: "falha ao consultar leads: " + err.Error(),
		}
	}
	if existing != nil {
		log.Printf("Pulando: empresa '%s' já tem lead salvo", company.Name)
		return &ProcessWebhookOutput{
			Outcome:     OutcomeDuplicateSkipped,
			CompanyName: company.Name,
			LeadID:      existing.ID,
			Message:     fmt.Sprintf("Skipping: company '%s' already exists in the database", company.Name),
		}, nil
	}

	lead := entity.NewLead(row, company.Name, company.Domain)
	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		// Corrida entre o check e o insert: a constraint única do banco
		// decide, e o perdedor vira duplicate-skipped
		if err == entity.ErrLeadAlreadyExists {
			return &ProcessWebhookOutput{
				Outcome:     OutcomeDuplicateSkipped,
				CompanyName: company.Name,
				Message:     fmt.Sprintf("Skipping: company '%s' already exists in the database", company.Name),
			}, nil
		}
		return nil, &TechnicalError{
			Code:    CodePersistenceFailure,
			Message: "falha ao salvar lead: " + err.Error(),
		}
	}

	log.Printf("✅ Lead salvo para '%s' (%s)", lead.CompanyName, lead.LeadName)

	// Notificação best-effort, fora do caminho da resposta
	if uc.EmailService != nil && uc.NotifyEmail != "" {
		go func(l entity.Lead) {
			if err := uc.EmailService.SendLeadMatched(uc.NotifyEmail, &l); err != nil {
				log.Printf("⚠️ Falha ao enviar email de lead: %v", err)
			}
		}(*lead)
	}

	return &ProcessWebhookOutput{
		Outcome:     OutcomeCreated,
		CompanyName: company.Name,
		LeadID:      lead.ID,
		Message:     fmt.Sprintf("Lead for '%s' has been saved to the database", company.Name),
	}, nil
}
