package domain

import "time"

// ============================================================
// Auth request/response shapes (upstream platform contract)
// ============================================================

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is returned by login and refresh. RefreshToken may be empty
// when the backend decides not to rotate it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest is the body for POST /auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RegisterRequest is the body for POST /auth/register (end users).
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterClientRequest creates a business together with its admin user
// in one atomic upstream call (POST /auth/register-client).
type RegisterClientRequest struct {
	User   RegisterRequest `json:"user"`
	Client Client          `json:"client"`
}

// RegisterClientResponse mirrors the upstream response for register-client.
// The backend has shipped several shapes for the created identifiers over
// time, so every known field is kept and resolution happens in one place
// (ResolveClientID).
type RegisterClientResponse struct {
	ID       string       `json:"id,omitempty"`
	ClientID string       `json:"client_id,omitempty"`
	User     *UserProfile `json:"user,omitempty"`
	Client   *Client      `json:"client,omitempty"`
}

// ResolveClientID extracts the created business identifier from the
// register-client response. The upstream contract is ambiguous: four shapes
// have been observed in the wild. Priority order is newest-first.
func (r *RegisterClientResponse) ResolveClientID() string {
	if r == nil {
		return ""
	}
	if r.User != nil && r.User.ID != "" {
		return r.User.ID
	}
	if r.Client != nil && r.Client.ID != "" {
		return r.Client.ID
	}
	if r.ClientID != "" {
		return r.ClientID
	}
	return r.ID
}

// SessionStatus describes the locally stored session for the dashboard's
// session widget. ExpiresAt comes from the unverified access-token claims.
type SessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
}

// UploadResponse is returned by the multipart image upload endpoint.
type UploadResponse struct {
	URL string `json:"url"`
}

// ClientActionRequest carries the operator-supplied reason for reject and
// suspend actions.
type ClientActionRequest struct {
	Reason string `json:"reason"`
}

// UpdateModulesRequest sets a user's enabled dashboard modules.
type UpdateModulesRequest struct {
	Modules []ModuleID `json:"modules"`
}
