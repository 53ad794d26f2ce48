package usecase

// Outcomes do processamento de webhook. "no-match" e "duplicate-skipped"
// são estados finais esperados, não erros.
const (
	OutcomeCreated          = "created"
	OutcomeNoMatch          = "no-match"
	OutcomeDuplicateSkipped = "duplicate-skipped"
)

// ProcessWebhookInput carrega o identificador extraído do evento.
// ContactID vem do HubSpot (objectId); CreatorID/OrganizationID do Pipedrive.
type ProcessWebhookInput struct {
	ContactID      string `json:"contact_id,omitempty"`
	CreatorID      string `json:"creator_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type ProcessWebhookOutput struct {
	Outcome     string `json:"outcome"`
	CompanyName string `json:"company_name,omitempty"`
	LeadID      string `json:"lead_id,omitempty"`
	Message     string `json:"message"`
}

type RegisterUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterUserOutput struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUserOutput struct {
	Token string `json:"token"`
}
