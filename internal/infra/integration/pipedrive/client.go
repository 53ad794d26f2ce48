package pipedrive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type TokenRefresher interface {
	Refresh(ctx context.Context, stale *entity.OAuthToken) (*entity.OAuthToken, error)
}

type Client struct {
	baseURL   string
	http      *http.Client
	tokens    entity.TokenRepositoryInterface
	refresher TokenRefresher
}

func NewClient(tokens entity.TokenRepositoryInterface, refresher TokenRefresher) *Client {
	return &Client{
		baseURL:   "https://api.pipedrive.com/v1",
		http:      &http.Client{Timeout: 10 * time.Second},
		tokens:    tokens,
		refresher: refresher,
	}
}

func NewClientWithBaseURL(baseURL string, tokens entity.TokenRepositoryInterface, refresher TokenRefresher) *Client {
	c := NewClient(tokens, refresher)
	c.baseURL = baseURL
	return c
}

// ResolveCompany implementa usecase.CompanyResolver para a variante
// Pipedrive: o token é o do creator que disparou o evento.
func (c *Client) ResolveCompany(ctx context.Context, input usecase.ProcessWebhookInput) (*usecase.Company, error) {
	if input.CreatorID == "" {
		return nil, &usecase.DomainError{
			Code:    usecase.CodeBadPayload,
			Message: "No creator_id found",
		}
	}
	if input.OrganizationID == "" {
		return nil, &usecase.DomainError{
			Code:    usecase.CodeBadPayload,
			Message: "No organization_id found",
		}
	}
	return c.GetOrganization(ctx, input.OrganizationID, input.CreatorID)
}

// GetOrganization busca a organização com o token do creator
func (c *Client) GetOrganization(ctx context.Context, orgID, creatorID string) (*usecase.Company, error) {
	url := fmt.Sprintf("%s/organizations/%s", c.baseURL, orgID)
	body, err := c.authenticatedGet(ctx, url, creatorID)
	if err != nil {
		return nil, err
	}

	var org organizationResponse
	if err := json.Unmarshal(body, &org); err != nil {
		return nil, fmt.Errorf("resposta de organização inválida: %w", err)
	}

	return &usecase.Company{Name: org.Data.Name}, nil
}

// GetCurrentUserID descobre o creator_id do dono do token recém-trocado
func (c *Client) GetCurrentUserID(ctx context.Context, accessToken string) (string, error) {
	body, status, err := c.doGet(ctx, c.baseURL+"/users/me", accessToken)
	if err != nil {
		return "", fmt.Errorf("falha ao buscar usuário atual: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("falha ao buscar usuário atual: %d - %s", status, string(body))
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("resposta de usuário inválida: %w", err)
	}
	if user.Data.ID == 0 {
		return "", fmt.Errorf("resposta de usuário sem id")
	}

	return strconv.FormatInt(user.Data.ID, 10), nil
}

// EnsureWebhook registra o webhook de criação de lead se ainda não
// existir um ativo apontando pra mesma subscription URL.
// Devolve true quando já existia.
func (c *Client) EnsureWebhook(ctx context.Context, accessToken, subscriptionURL string) (bool, error) {
	url := c.baseURL + "/webhooks"

	body, status, err := c.doGet(ctx, url, accessToken)
	if err != nil {
		return false, fmt.Errorf("falha ao listar webhooks: %w", err)
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("falha ao listar webhooks: %d - %s", status, string(body))
	}

	var existing webhooksResponse
	if err := json.Unmarshal(body, &existing); err != nil {
		return false, fmt.Errorf("resposta de webhooks inválida: %w", err)
	}

	for _, wh := range existing.Data {
		if wh.EventAction == "create" && wh.EventObject == "lead" &&
			wh.SubscriptionURL == subscriptionURL && wh.IsActive == 1 {
			log.Println("Webhook de lead já existe e está ativo")
			return true, nil
		}
	}

	payload, _ := json.Marshal(createWebhookRequest{
		Version:         "2.0",
		Type:            "general",
		EventAction:     "create",
		EventObject:     "lead",
		SubscriptionURL: subscriptionURL,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("falha ao criar webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("falha ao criar webhook: %d - %s", resp.StatusCode, string(respBody))
	}

	log.Println("✅ Webhook de lead criado no Pipedrive")
	return false, nil
}

// authenticatedGet: mesmo ciclo do HubSpot, só que a chave do token é o
// creator_id do evento.
func (c *Client) authenticatedGet(ctx context.Context, url, creatorID string) ([]byte, error) {
	stored, err := c.tokens.Get(ctx, entity.ProviderPipedrive, creatorID)
	if err != nil {
		return nil, &usecase.TechnicalError{
			Code:    usecase.CodePersistenceFailure,
			Message: "falha ao ler token: " + err.Error(),
		}
	}
	if stored == nil {
		return nil, &usecase.DomainError{
			Code:    usecase.CodeUpstreamAuthFailure,
			Message: fmt.Sprintf("No access token for creator_id %s", creatorID),
		}
	}

	body, status, err := c.doGet(ctx, url, stored.AccessToken)
	if err != nil {
		return nil, &usecase.DomainError{
			Code:    usecase.CodeUpstreamLookupFailure,
			Message: "falha na request ao Pipedrive: " + err.Error(),
		}
	}

	if status == http.StatusUnauthorized {
		log.Printf("🔑 Pipedrive recusou o token do creator %s (401), renovando...", creatorID)
		middleware.RecordTokenRefresh(entity.ProviderPipedrive)

		if err := c.tokens.DeleteAll(ctx, entity.ProviderPipedrive); err != nil {
			return nil, &usecase.TechnicalError{
				Code:    usecase.CodePersistenceFailure,
				Message: "falha ao invalidar tokens: " + err.Error(),
			}
		}

		fresh, err := c.refresher.Refresh(ctx, stored)
		if err != nil {
			return nil, &usecase.DomainError{
				Code:    usecase.CodeUpstreamAuthFailure,
				Message: "falha ao renovar token do Pipedrive: " + err.Error(),
			}
		}

		body, status, err = c.doGet(ctx, url, fresh.AccessToken)
		if err != nil {
			return nil, &usecase.DomainError{
				Code:    usecase.CodeUpstreamLookupFailure,
				Message: "falha na request ao Pipedrive: " + err.Error(),
			}
		}
		if status == http.StatusUnauthorized {
			return nil, &usecase.DomainError{
				Code:    usecase.CodeUpstreamAuthFailure,
				Message: http.StatusText(http.StatusUnauthorized),
			}
		}
	}

	if status < 200 || status > 299 {
		middleware.RecordIntegrationError("pipedrive")
		return nil, &usecase.DomainError{
			Code:    usecase.CodeUpstreamLookupFailure,
			Message: fmt.Sprintf("Pipedrive respondeu %d: %s", status, string(body)),
		}
	}

	return body, nil
}

func (c *Client) doGet(ctx context.Context, url, bearer string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode, nil
}
