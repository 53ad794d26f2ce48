package entity

import (
	"context"
	"time"
)

// Providers suportados
const (
	ProviderHubspot   = "hubspot"
	ProviderPipedrive = "pipedrive"
)

// OAuthToken é o token de acesso persistido por provider.
// CreatorID "" é a chave global (variante single-tenant do HubSpot).
type OAuthToken struct {
	ID           int       `json:"id"`
	Provider     string    `json:"provider"`
	UserEmail    string    `json:"user_email,omitempty"`
	CreatorID    string    `json:"creator_id,omitempty"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired: token vencido vale o mesmo que token ausente
func (t *OAuthToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

type TokenRepositoryInterface interface {
	Get(ctx context.Context, provider, creatorID string) (*OAuthToken, error)
	GetByEmail(ctx context.Context, provider, email string) (*OAuthToken, error)
	Save(ctx context.Context, token *OAuthToken) error
	Delete(ctx context.Context, provider, creatorID string) error
	DeleteAll(ctx context.Context, provider string) error
}
