package models

// TemplateSummary is one row of a template listing.
type TemplateSummary struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// TemplateDescriptor describes a source-repository template used to scaffold
// a new app. Global templates are platform-provided; account templates belong
// to the caller's account and carry a replacement string that the scaffolder
// substitutes with the new app name.
type TemplateDescriptor struct {
	OrgLogin          string `json:"org_login"`
	SourceRepo        string `json:"source_repo"`
	IsGlobal          bool   `json:"is_global"`
	Language          string `json:"language"`
	ReplacementString string `json:"replacement_string,omitempty"`
}
