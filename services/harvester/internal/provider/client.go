package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/stoik/spf-harvester/internal/models"
)

// MicrosoftProvider implements the Provider interface for Microsoft Graph
type MicrosoftProvider struct {
	baseURL string
	client  *http.Client
	log     *zap.SugaredLogger
}

// NewHTTPClient returns the client shared by the token and listing requests.
// A zero timeout means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewMicrosoftProvider creates a Graph client rooted at baseURL
// (e.g. https://graph.microsoft.com/v1.0)
func NewMicrosoftProvider(baseURL string, client *http.Client, log *zap.SugaredLogger) *MicrosoftProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &MicrosoftProvider{
		baseURL: baseURL,
		client:  client,
		log:     log,
	}
}

// MessagesURL returns the listing URL for the first page of folder in mailbox
func (m *MicrosoftProvider) MessagesURL(mailbox, folder string) string {
	return fmt.Sprintf("%s/users/%s/mailFolders/%s/messages?$top=%d",
		m.baseURL, url.PathEscape(mailbox), url.PathEscape(folder), PageSize)
}

// GetEmails implements Provider.GetEmails for Microsoft Graph
func (m *MicrosoftProvider) GetEmails(ctx context.Context, token, mailbox, folder string) ([]models.ProviderEmail, error) {
	reqURL := m.MessagesURL(mailbox, folder)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	m.log.Debugw("requesting messages", "mailbox", mailbox, "folder", folder, "top", PageSize)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var list models.MessageList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	if list.NextLink != "" {
		m.log.Debugw("more messages available, only the first page is read",
			"mailbox", mailbox, "folder", folder, "next_link", list.NextLink)
	}

	if list.Value == nil {
		return []models.ProviderEmail{}, nil
	}
	return list.Value, nil
}
