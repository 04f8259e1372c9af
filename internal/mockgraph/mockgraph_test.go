package mockgraph

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoik/spf-harvester/internal/models"
)

var testOpts = Options{TenantID: "tenant", ClientID: "client", ClientSecret: "secret"}

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenRequest(t *testing.T, r http.Handler, tenant string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, LoginPrefix+"/"+tenant+"/oauth2/v2.0/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"client"},
		"client_secret": {"secret"},
		"scope":         {graphScope},
	}
}

func issueToken(t *testing.T, r http.Handler) string {
	t.Helper()
	w := tokenRequest(t, r, "tenant", validForm())
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func listRequest(r http.Handler, token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, GraphPrefix+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenEndpoint(t *testing.T) {
	s := New(testOpts)
	r := s.Router()

	issueToken(t, r)
	assert.Equal(t, 1, s.IssuedTokens())

	tests := []struct {
		name   string
		tenant string
		modify func(url.Values)
		status int
		code   string
	}{
		{"unknown tenant", "other", func(url.Values) {}, http.StatusBadRequest, "invalid_request"},
		{"wrong grant", "tenant", func(v url.Values) { v.Set("grant_type", "password") }, http.StatusBadRequest, "unsupported_grant_type"},
		{"bad secret", "tenant", func(v url.Values) { v.Set("client_secret", "nope") }, http.StatusUnauthorized, "invalid_client"},
		{"bad scope", "tenant", func(v url.Values) { v.Set("scope", "openid") }, http.StatusBadRequest, "invalid_scope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.modify(form)
			w := tokenRequest(t, r, tt.tenant, form)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"])
		})
	}
	assert.Equal(t, 1, s.IssuedTokens())
}

func TestListMessages(t *testing.T) {
	s := New(testOpts)
	s.SetMessages("Box@Example.com", "Inbox", GenerateEmails(1, 25, time.Now()))
	r := s.Router()
	token := issueToken(t, r)

	w := listRequest(r, token, "/users/box@example.com/mailFolders/inbox/messages?$top=20")
	require.Equal(t, http.StatusOK, w.Code)

	var page models.MessageList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Value, 20)
	assert.Contains(t, page.NextLink, "$skip=20")

	w = listRequest(r, token, "/users/box@example.com/mailFolders/inbox/messages?$top=20&$skip=20")
	require.Equal(t, http.StatusOK, w.Code)
	page = models.MessageList{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Value, 5)
	assert.Empty(t, page.NextLink)
}

func TestListMessagesDefaultTop(t *testing.T) {
	s := New(testOpts)
	s.SetMessages("box@example.com", "Inbox", GenerateEmails(1, 3, time.Now()))
	r := s.Router()

	w := listRequest(r, issueToken(t, r), "/users/box@example.com/mailFolders/Inbox/messages")
	require.Equal(t, http.StatusOK, w.Code)

	var page models.MessageList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Value, 3)
}

func TestListMessagesErrors(t *testing.T) {
	s := New(testOpts)
	s.SetMessages("box@example.com", "Inbox", nil)
	r := s.Router()
	token := issueToken(t, r)

	tests := []struct {
		name   string
		token  string
		path   string
		status int
		code   string
	}{
		{"no token", "", "/users/box@example.com/mailFolders/Inbox/messages", http.StatusUnauthorized, "InvalidAuthenticationToken"},
		{"unknown token", "forged", "/users/box@example.com/mailFolders/Inbox/messages", http.StatusUnauthorized, "InvalidAuthenticationToken"},
		{"unknown folder", token, "/users/box@example.com/mailFolders/Archive/messages", http.StatusNotFound, "ErrorItemNotFound"},
		{"bad top", token, "/users/box@example.com/mailFolders/Inbox/messages?$top=0", http.StatusBadRequest, "BadRequest"},
		{"bad skip", token, "/users/box@example.com/mailFolders/Inbox/messages?$skip=x", http.StatusBadRequest, "BadRequest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := listRequest(r, tt.token, tt.path)
			assert.Equal(t, tt.status, w.Code)

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestGenerateEmailsCount(t *testing.T) {
	start := time.Now()
	assert.Len(t, GenerateEmails(1, 3, start), 3)
	assert.Empty(t, GenerateEmails(1, 0, start))
	assert.NotPanics(t, func() {
		assert.Empty(t, GenerateEmails(1, -1, start))
	})
}

func TestGenerateEmailsDeterministic(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := GenerateEmails(42, 10, start)
	b := GenerateEmails(42, 10, start)
	assert.Equal(t, a, b)

	for _, email := range a {
		require.NotEmpty(t, email.InternetMessageHeaders)
		assert.Equal(t, "Received", email.InternetMessageHeaders[0].Name)
		assert.True(t, strings.HasPrefix(email.InternetMessageHeaders[0].Value, "from mail."))
		assert.NotNil(t, email.InternetMessageID)
	}
}
