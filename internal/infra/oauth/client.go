package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Política de expiração: o expires_in do provider sempre ganha; quando o
// endpoint não manda, assumimos 1 hora.
const defaultTokenTTL = 3600 * time.Second

// ExchangeError carrega o status/corpo que o endpoint de token devolveu
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange rejeitado (status %d): %s", e.StatusCode, e.Body)
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scope        string
	AuthURL      string
	TokenURL     string
}

// Client faz o fluxo authorization-code contra o OAuth do CRM e persiste
// o resultado no TokenRepository. Uma instância por provider.
type Client struct {
	provider string
	cfg      *oauth2.Config
	tokens   entity.TokenRepositoryInterface
}

func NewClient(provider string, cfg Config, tokens entity.TokenRepositoryInterface) *Client {
	return &Client{
		provider: provider,
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		tokens: tokens,
	}
}

// AuthorizeURL é construção pura, sem chamada de rede
func (c *Client) AuthorizeURL(state string) string {
	return c.cfg.AuthCodeURL(state)
}

// Exchange troca o authorization code por token e salva. Email e
// creatorID ficam na linha persistida ("" na variante single-tenant).
func (c *Client) Exchange(ctx context.Context, code, email, creatorID string) (*entity.OAuthToken, error) {
	tok, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, asExchangeError(err)
	}

	token := c.toEntity(tok, email, creatorID)
	if err := c.tokens.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("falha ao persistir token: %w", err)
	}

	return token, nil
}

// Refresh renova o token de forma síncrona via refresh_token grant e
// devolve o novo token direto, sem sleep nem releitura do banco.
// O token recusado vem por parâmetro porque a essa altura a linha já
// pode ter sido apagada do store.
func (c *Client) Refresh(ctx context.Context, stale *entity.OAuthToken) (*entity.OAuthToken, error) {
	if stale == nil || stale.RefreshToken == "" {
		return nil, errors.New("nenhum refresh token disponível para renovar")
	}

	src := c.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: stale.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, asExchangeError(err)
	}

	token := c.toEntity(tok, stale.UserEmail, stale.CreatorID)
	if token.RefreshToken == "" {
		token.RefreshToken = stale.RefreshToken
	}
	if err := c.tokens.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("falha ao persistir token renovado: %w", err)
	}

	return token, nil
}

func (c *Client) toEntity(tok *oauth2.Token, email, creatorID string) *entity.OAuthToken {
	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(defaultTokenTTL)
	}
	return &entity.OAuthToken{
		Provider:     c.provider,
		UserEmail:    email,
		CreatorID:    creatorID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiry,
	}
}

func asExchangeError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		status := 0
		if rErr.Response != nil {
			status = rErr.Response.StatusCode
		}
		return &ExchangeError{StatusCode: status, Body: string(rErr.Body)}
	}
	return fmt.Errorf("falha na troca de token: %w", err)
}
