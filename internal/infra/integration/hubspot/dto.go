package hubspot

type associationsResponse struct {
	Results []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"results"`
}

type companyResponse struct {
	ID         string `json:"id"`
	Properties struct {
		Name   string `json:"name"`
		Domain string `json:"domain"`
	} `json:"properties"`
}
