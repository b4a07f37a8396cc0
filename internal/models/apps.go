package models

// AppCreationRequest is the payload posted to create a new app. For global
// templates ReplacementString is left empty and omitted from the wire payload;
// the server derives it.
type AppCreationRequest struct {
	TemplateOrg       string `json:"template_org"`
	TemplateRepo      string `json:"template_repo"`
	Language          string `json:"language"`
	Visibility        string `json:"visibility"`
	Description       string `json:"description,omitempty"`
	ReplacementString string `json:"replacement_string,omitempty"`
}

// CreateAppResponse is the creation endpoint's envelope. Success is inspected
// independent of the HTTP status: a 200 with Success false is still a failure.
type CreateAppResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    struct {
		ResultantRepos map[string]string `json:"resultant_repos"`
	} `json:"data"`
}
