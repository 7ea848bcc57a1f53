// Package dto defines the wire types of the signing app.
package dto

// SigningFileView describes one file of a signing request without exposing
// its content.
type SigningFileView struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	IsSigned bool   `json:"isSigned"`
}

// SigningView is the signing app's view model for a decoded bucket.
type SigningView struct {
	Message    string            `json:"message"`
	Files      []SigningFileView `json:"files"`
	SuccessURL string            `json:"successUrl"`
	FailURL    string            `json:"failUrl"`
	SignAction string            `json:"signAction"`
}

// PartnerCredentialsResponse carries everything a partner integration needs
// to call the signing service.
type PartnerCredentialsResponse struct {
	Username          string `json:"username"`
	PartnerID         string `json:"partnerId"`
	AuthorizationCode string `json:"authorizationCode"`
	APIBaseURL        string `json:"apiBaseUrl"`
}
