package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// TokenRefresher renova um token recusado e devolve o novo na hora
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
		baseURL:   "https://api.hubapi.com",
		http:      &http.Client{Timeout: 10 * time.Second},
		tokens:    tokens,
		refresher: refresher,
	}
}

// NewClientWithBaseURL existe para os testes apontarem num httptest.Server
func NewClientWithBaseURL(baseURL string, tokens entity.TokenRepositoryInterface, refresher TokenRefresher) *Client {
	c := NewClient(tokens, refresher)
	c.baseURL = baseURL
	return c
}

// ResolveCompany implementa usecase.CompanyResolver para a variante HubSpot
func (c *Client) ResolveCompany(ctx context.Context, input usecase.ProcessWebhookInput) (*usecase.Company, error) {
	if input.ContactID == "" {
		return nil, &usecase.DomainError{
			Code:    usecase.CodeBadPayload,
			Message: "No objectId found",
		}
	}
	return c.GetCompanyForContact(ctx, input.ContactID)
}

// GetCompanyForContact: duas chamadas em sequência — lista as associações
// de empresa do contato e busca o detalhe da primeira.
func (c *Client) GetCompanyForContact(ctx context.Context, contactID string) (*usecase.Company, error) {
	url := fmt.Sprintf("%s/crm/v3/objects/contacts/%s/associations/companies", c.baseURL, contactID)
	body, err := c.authenticatedGet(ctx, url)
	if err != nil {
		return nil, err
	}

	var assoc associationsResponse
	if err := json.Unmarshal(body, &assoc); err != nil {
		return nil, fmt.Errorf("resposta de associações inválida: %w", err)
	}

	if len(assoc.Results) == 0 || assoc.Results[0].ID == "" {
		return nil, &usecase.DomainError{
			Code:    usecase.CodeNoCompanyAssociated,
			Message: "No company associated",
		}
	}

	url = fmt.Sprintf("%s/crm/v3/objects/companies/%s", c.baseURL, assoc.Results[0].ID)
	body, err = c.authenticatedGet(ctx, url)
	if err != nil {
		return nil, err
	}

	var company companyResponse
	if err := json.Unmarshal(body, &company); err != nil {
		return nil, fmt.Errorf("resposta de empresa inválida: %w", err)
	}

	return &usecase.Company{
		Name:   company.Properties.Name,
		Domain: company.Properties.Domain,
	}, nil
}

// authenticatedGet faz o GET com o bearer do store. Sem token salvo vai
// com bearer vazio mesmo — deixa o 401 acontecer e aciona a renovação.
// Num 401: apaga os tokens do provider, renova de forma síncrona e
// repete o GET exatamente uma vez.
func (c *Client) authenticatedGet(ctx context.Context, url string) ([]byte, error) {
	stored, err := c.tokens.Get(ctx, entity.ProviderHubspot, "")
	if err != nil {
		return nil, &usecase.TechnicalError{
			Code:    usecase.CodePersistenceFailure,
			Message: "falha ao ler token: " + err.Error(),
		}
	}

	bearer := ""
	if stored != nil {
		bearer = stored.AccessToken
	}

	body, status, err := c.doGet(ctx, url, bearer)
	if err != nil {
		return nil, &usecase.DomainError{
			Code:    usecase.CodeUpstreamLookupFailure,
			Message: "falha na request ao HubSpot: " + err.Error(),
		}
	}

	if status == http.StatusUnauthorized {
		log.Printf("🔑 HubSpot recusou o token (401), renovando...")
		middleware.RecordTokenRefresh(entity.ProviderHubspot)

		if err := c.tokens.DeleteAll(ctx, entity.ProviderHubspot); err != nil {
			return nil, &usecase.TechnicalError{
				Code:    usecase.CodePersistenceFailure,
				Message: "falha ao invalidar tokens: " + err.Error(),
			}
		}

		fresh, err := c.refresher.Refresh(ctx, stored)
		if err != nil {
			return nil, &usecase.DomainError{
				Code:    usecase.CodeUpstreamAuthFailure,
				Message: "falha ao renovar token do HubSpot: " + err.Error(),
			}
		}

		body, status, err = c.doGet(ctx, url, fresh.AccessToken)
		if err != nil {
			return nil, &usecase.DomainError{
				Code:    usecase.CodeUpstreamLookupFailure,
				Message: "falha na request ao HubSpot: " + err.Error(),
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
		middleware.RecordIntegrationError("hubspot")
		return nil, &usecase.DomainError{
			Code:    usecase.CodeUpstreamLookupFailure,
			Message: fmt.Sprintf("HubSpot respondeu %d: %s", status, string(body)),
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
