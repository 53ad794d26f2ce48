package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/pipedrive"
	"github.com/xavierca1/ligue-leads/internal/infra/oauth"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type OAuthHandler struct {
	HubspotAuth         *oauth.Client
	PipedriveAuth       *oauth.Client
	Pipedrive           *pipedrive.Client
	Tokens              entity.TokenRepositoryInterface
	PipedriveWebhookURL string
}

func NewOAuthHandler(
	hubspotAuth *oauth.Client,
	pipedriveAuth *oauth.Client,
	pipedriveClient *pipedrive.Client,
	tokens entity.TokenRepositoryInterface,
	pipedriveWebhookURL string,
) *OAuthHandler {
	return &OAuthHandler{
		HubspotAuth:         hubspotAuth,
		PipedriveAuth:       pipedriveAuth,
		Pipedrive:           pipedriveClient,
		Tokens:              tokens,
		PipedriveWebhookURL: pipedriveWebhookURL,
	}
}

// exchangeFailed rotula a falha da troca de code por token
func exchangeFailed(err error) *usecase.DomainError {
	return &usecase.DomainError{
		Code:    usecase.CodeOAuthExchangeFailed,
		Message: "Failed to exchange authorization code: " + err.Error(),
	}
}

// HandleHubspotAuth manda o usuário pra tela de consentimento do HubSpot
func (h *OAuthHandler) HandleHubspotAuth(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.HubspotAuth.AuthorizeURL("hubspot"), http.StatusFound)
}

// HandleHubspotCallback troca o code por token e persiste
func (h *OAuthHandler) HandleHubspotCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "No authorization code provided")
		return
	}

	token, err := h.HubspotAuth.Exchange(r.Context(), code, "", "")
	if err != nil {
		log.Printf("❌ Troca de token do HubSpot falhou: %v", err)
		writeError(w, http.StatusInternalServerError, exchangeFailed(err).Error())
		return
	}

	log.Printf("✅ Token do HubSpot salvo (expira em %s)", token.ExpiresAt.Format(time.RFC3339))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Authorization successful! Access token generated.",
	})
}

// HandlePipedriveAuth: se já existe token vivo pro email, só garante o
// webhook; senão redireciona pro consentimento.
func (h *OAuthHandler) HandlePipedriveAuth(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email != "" {
		token, err := h.Tokens.GetByEmail(r.Context(), entity.ProviderPipedrive, email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if token != nil && !token.Expired(time.Now()) {
			exists, err := h.Pipedrive.EnsureWebhook(r.Context(), token.AccessToken, h.PipedriveWebhookURL)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			message := "Webhook registered."
			if exists {
				message = "Webhook already exists and is active."
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": message})
			return
		}
	}

	http.Redirect(w, r, h.PipedriveAuth.AuthorizeURL("pipedrive"), http.StatusFound)
}

// HandlePipedriveCallback: troca o code, descobre o creator_id do dono
// do token e persiste a linha com essa chave.
func (h *OAuthHandler) HandlePipedriveCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	email := r.URL.Query().Get("email")
	if code == "" {
		writeError(w, http.StatusBadRequest, "No authorization code provided")
		return
	}

	token, err := h.PipedriveAuth.Exchange(r.Context(), code, email, "")
	if err != nil {
		log.Printf("❌ Troca de token do Pipedrive falhou: %v", err)
		writeError(w, http.StatusInternalServerError, exchangeFailed(err).Error())
		return
	}

	creatorID, err := h.Pipedrive.GetCurrentUserID(r.Context(), token.AccessToken)
	if err != nil {
		log.Printf("❌ Falha ao buscar creator_id: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token.CreatorID = creatorID
	if err := h.Tokens.Save(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// A troca persistiu a linha sem creator_id; com a chave real salva,
	// a linha provisória sai pra ficar uma por creator
	if creatorID != "" {
		if err := h.Tokens.Delete(r.Context(), entity.ProviderPipedrive, ""); err != nil {
			log.Printf("⚠️ Falha ao remover token provisório do Pipedrive: %v", err)
		}
	}
	log.Printf("✅ Token do Pipedrive salvo para creator %s", creatorID)

	if _, err := h.Pipedrive.EnsureWebhook(r.Context(), token.AccessToken, h.PipedriveWebhookURL); err != nil {
		// Token salvo, registro de webhook pode ser retomado depois
		log.Printf("⚠️ Token salvo mas webhook não registrado: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Authorization successful! Access token generated for creator " + creatorID + ".",
	})
}
