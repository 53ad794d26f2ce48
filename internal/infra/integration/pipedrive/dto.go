package pipedrive

type organizationResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

type userResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"data"`
}

type webhookInfo struct {
	ID              int64  `json:"id"`
	EventAction     string `json:"event_action"`
	EventObject     string `json:"event_object"`
	SubscriptionURL string `json:"subscription_url"`
	IsActive        int    `json:"is_active"`
}

type webhooksResponse struct {
	Status string        `json:"status"`
	Data   []webhookInfo `json:"data"`
}

type createWebhookRequest struct {
	Version         string `json:"version"`
	Type            string `json:"type"`
	EventAction     string `json:"event_action"`
	EventObject     string `json:"event_object"`
	SubscriptionURL string `json:"subscription_url"`
}
