package firebase

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const signUpEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signUp"

// Client creates Firebase Auth identities over the identity toolkit REST API
type Client struct {
	apiKey string
	http   *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type signUpRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signUpResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateUser provisions a Firebase identity and returns its uid
func (c *Client) CreateUser(ctx context.Context, email, password, phoneNumber string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing firebase api key")
	}

	body, err := json.Marshal(signUpRequest{
		Email:             email,
		Password:          password,
		PhoneNumber:       phoneNumber,
		ReturnSecureToken: true,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", signUpEndpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("firebase request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read firebase response: %w", err)
	}

	var parsed signUpResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode firebase response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("firebase signup rejected (%d): %s", resp.StatusCode, msg)
	}

	if parsed.LocalID == "" {
		return "", errors.New("firebase response missing uid")
	}

	return parsed.LocalID, nil
}

// PlaceholderUID builds a local stand-in uid for accounts whose Firebase
// provisioning failed. The account stays usable; the uid marks it for later
// reconciliation.
func PlaceholderUID() string {
	id := uuid.New()
	return "temp_" + hex.EncodeToString(id[:])[:20]
}
