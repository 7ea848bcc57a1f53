// Package dto defines the citizen app's view models.
package dto

import "encoding/json"

// IdentityView is the citizen's identity as shown in the app.
type IdentityView struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
}

// CitizenView is the citizen app index view model.
type CitizenView struct {
	State          string        `json:"state"`
	LoginRequired  bool          `json:"loginRequired"`
	LoginURL       string        `json:"loginUrl,omitempty"`
	ConsentGranted bool          `json:"consentGranted"`
	ConsentAction  string        `json:"consentAction,omitempty"`
	StartAction    string        `json:"startAction,omitempty"`
	LogoutURL      string        `json:"logoutUrl,omitempty"`
	Identity       *IdentityView `json:"identity,omitempty"`
}

// SubmissionResult reports a completed submission. Receipt is the gateway
// response forwarded as-is.
type SubmissionResult struct {
	State   string          `json:"state"`
	Receipt json.RawMessage `json:"receipt"`
}

// FailureView is the terminal failure view model.
type FailureView struct {
	State   string `json:"state"`
	Message string `json:"message"`
}
