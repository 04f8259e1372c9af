package mockgraph

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stoik/spf-harvester/internal/models"
)

// Route prefixes served by the router
const (
	LoginPrefix = "/login"
	GraphPrefix = "/graph/v1.0"

	graphScope     = "https://graph.microsoft.com/.default"
	defaultTop     = 10
	maxTop         = 1000
	tokenExpirySec = 3599
)

// Options configure the app registration the mock accepts
type Options struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// Server emulates the Microsoft identity token endpoint and the Graph
// message-listing endpoint
type Server struct {
	opts Options

	mu      sync.RWMutex
	tokens  map[string]struct{}
	folders map[string][]models.ProviderEmail
}

func New(opts Options) *Server {
	return &Server{
		opts:    opts,
		tokens:  make(map[string]struct{}),
		folders: make(map[string][]models.ProviderEmail),
	}
}

// folderKey matches Graph's case-insensitive mailbox and folder names
func folderKey(mailbox, folder string) string {
	return strings.ToLower(mailbox) + "/" + strings.ToLower(folder)
}

// SetMessages replaces the messages listed for folder in mailbox
func (s *Server) SetMessages(mailbox, folder string, emails []models.ProviderEmail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.ProviderEmail, len(emails))
	copy(copied, emails)
	s.folders[folderKey(mailbox, folder)] = copied
}

// IssuedTokens returns how many tokens the server has handed out
func (s *Server) IssuedTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// Router returns the gin engine serving the mock endpoints
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	login := r.Group(LoginPrefix)
	{
		login.POST("/:tenant/oauth2/v2.0/token", s.handleToken)
	}

	graph := r.Group(GraphPrefix)
	{
		graph.GET("/users/:mailbox/mailFolders/:folder/messages", s.handleListMessages)
	}

	return r
}

func oauthError(c *gin.Context, status int, code, description string) {
	c.JSON(status, gin.H{
		"error":             code,
		"error_description": description,
	})
}

func graphError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func (s *Server) handleToken(c *gin.Context) {
	tenant := c.Param("tenant")
	if tenant != s.opts.TenantID {
		oauthError(c, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("AADSTS90002: Tenant '%s' not found.", tenant))
		return
	}

	if c.PostForm("grant_type") != "client_credentials" {
		oauthError(c, http.StatusBadRequest, "unsupported_grant_type",
			"AADSTS70003: The app requested an unsupported grant type.")
		return
	}

	if c.PostForm("client_id") != s.opts.ClientID || c.PostForm("client_secret") != s.opts.ClientSecret {
		oauthError(c, http.StatusUnauthorized, "invalid_client",
			"AADSTS7000215: Invalid client secret provided.")
		return
	}

	if c.PostForm("scope") != graphScope {
		oauthError(c, http.StatusBadRequest, "invalid_scope",
			fmt.Sprintf("AADSTS1002012: The provided value for scope %s is not valid.", c.PostForm("scope")))
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"token_type":     "Bearer",
		"expires_in":     tokenExpirySec,
		"ext_expires_in": tokenExpirySec,
		"access_token":   token,
	})
}

func (s *Server) validToken(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.tokens[token]
	return exists
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid value '%s' for query option '%s'", raw, key)
	}
	return n, nil
}

func (s *Server) handleListMessages(c *gin.Context) {
	if !s.validToken(c.GetHeader("Authorization")) {
		graphError(c, http.StatusUnauthorized, "InvalidAuthenticationToken", "Access token validation failure.")
		return
	}

	top, err := queryInt(c, "$top", defaultTop)
	if err == nil && (top < 1 || top > maxTop) {
		err = fmt.Errorf("'$top' must be between 1 and %d", maxTop)
	}
	if err != nil {
		graphError(c, http.StatusBadRequest, "BadRequest", err.Error())
		return
	}
	skip, err := queryInt(c, "$skip", 0)
	if err != nil {
		graphError(c, http.StatusBadRequest, "BadRequest", err.Error())
		return
	}

	mailbox := c.Param("mailbox")
	folder := c.Param("folder")

	s.mu.RLock()
	emails, exists := s.folders[folderKey(mailbox, folder)]
	s.mu.RUnlock()
	if !exists {
		graphError(c, http.StatusNotFound, "ErrorItemNotFound", "The specified object was not found in the store.")
		return
	}

	page := []models.ProviderEmail{}
	if skip < len(emails) {
		end := skip + top
		if end > len(emails) {
			end = len(emails)
		}
		page = emails[skip:end]
	}

	resp := gin.H{"value": page}
	if skip+top < len(emails) {
		resp["@odata.nextLink"] = fmt.Sprintf("%s://%s%s/users/%s/mailFolders/%s/messages?$top=%d&$skip=%d",
			scheme(c), c.Request.Host, GraphPrefix, mailbox, folder, top, skip+top)
	}
	c.JSON(http.StatusOK, resp)
}

func scheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
