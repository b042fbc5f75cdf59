package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/session"
)

// Login authenticates against the platform and persists the returned token
// pair. A failed login never triggers the refresh path.
func (c *Client) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "Platform.Login")
	defer span.End()

	var pair domain.TokenPair
	if err := c.do(ctx, http.MethodPost, loginPath, req, &pair); err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, &domain.ErrUnauthorized{Message: "login returned no access token"}
	}

	c.tokens.Set(session.Tokens{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	return &pair, nil
}

// Logout revokes the session upstream and clears stored credentials.
// Local credentials are dropped even when the upstream call fails; a dead
// backend must not keep the operator logged in.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Platform.Logout")
	defer span.End()

	tok := c.tokens.Get()
	err := c.do(ctx, http.MethodPost, "/auth/logout", &domain.LogoutRequest{RefreshToken: tok.RefreshToken}, nil)
	c.tokens.Clear()
	return err
}

// Register creates an end-user account.
func (c *Client) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Platform.Register")
	defer span.End()

	var user domain.UserProfile
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterClient creates a business together with its admin user in one
// atomic upstream call.
func (c *Client) RegisterClient(ctx context.Context, req *domain.RegisterClientRequest) (*domain.RegisterClientResponse, error) {
	ctx, span := tracer.Start(ctx, "Platform.RegisterClient")
	defer span.End()

	var resp domain.RegisterClientResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register-client", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Platform.Profile")
	defer span.End()

	var user domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadImage sends a multipart form body. The multipart writer owns the
// content type (boundary included); no JSON content type is ever attached.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.UploadResponse, error) {
	ctx, span := tracer.Start(ctx, "Platform.UploadImage")
	defer span.End()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	form := &formPayload{
		contentType: mw.FormDataContentType(),
		data:        buf.Bytes(),
	}

	var resp domain.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/auth/upload", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
