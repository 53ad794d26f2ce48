package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// WebhookHandler é a borda HTTP dos dois CRMs. O processamento é o
// mesmo usecase; só muda o resolver injetado em cada um.
type WebhookHandler struct {
	HubspotUC   *usecase.ProcessWebhookUseCase
	PipedriveUC *usecase.ProcessWebhookUseCase
}

func NewWebhookHandler(hubspotUC, pipedriveUC *usecase.ProcessWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{
		HubspotUC:   hubspotUC,
		PipedriveUC: pipedriveUC,
	}
}

// hubspotEvent: objectId chega como número ou string dependendo da
// versão do webhook do HubSpot
type hubspotEvent struct {
	ObjectID any `json:"objectId"`
}

type pipedriveEvent struct {
	Data struct {
		CreatorID      any `json:"creator_id"`
		OrganizationID any `json:"organization_id"`
	} `json:"data"`
}

// HandleHubspot processa POST /webhook (array de eventos do HubSpot)
func (h *WebhookHandler) HandleHubspot(w http.ResponseWriter, r *http.Request) {
	var events []hubspotEvent
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil || len(events) == 0 {
		writeError(w, http.StatusBadRequest, "No data received")
		return
	}

	contactID := asID(events[0].ObjectID)
	if contactID == "" {
		writeError(w, http.StatusBadRequest, "No objectId found")
		return
	}

	h.process(w, r, h.HubspotUC, "hubspot", usecase.ProcessWebhookInput{ContactID: contactID})
}

// HandlePipedrive processa POST /pipedrive/webhook/lead
func (h *WebhookHandler) HandlePipedrive(w http.ResponseWriter, r *http.Request) {
	var event pipedriveEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "No data received")
		return
	}

	creatorID := asID(event.Data.CreatorID)
	if creatorID == "" {
		log.Println("Webhook do Pipedrive sem creator_id")
		writeError(w, http.StatusBadRequest, "No creator_id found")
		return
	}

	h.process(w, r, h.PipedriveUC, "pipedrive", usecase.ProcessWebhookInput{
		CreatorID:      creatorID,
		OrganizationID: asID(event.Data.OrganizationID),
	})
}

// process é o único ponto que traduz erro em status code e linha de log
func (h *WebhookHandler) process(w http.ResponseWriter, r *http.Request, uc *usecase.ProcessWebhookUseCase, source string, input usecase.ProcessWebhookInput) {
	output, err := uc.Execute(r.Context(), input)
	if err != nil {
		log.Printf("❌ Webhook %s falhou: %v", source, err)
		middleware.RecordWebhookOutcome(source, "error")
		writeError(w, statusForError(err), err.Error())
		return
	}

	middleware.RecordWebhookOutcome(source, output.Outcome)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(output)
}

func statusForError(err error) int {
	switch usecase.DomainCode(err) {
	case usecase.CodeBadPayload:
		return http.StatusBadRequest
	case usecase.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case usecase.CodeEmailTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// asID normaliza ids que chegam como número ou string no JSON
func asID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}
