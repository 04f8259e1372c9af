package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/stoik/spf-harvester/internal/logger"
	"github.com/stoik/spf-harvester/internal/mockgraph"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log, err := logger.New(getEnv("LOG_LEVEL", "info"), true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	port := getEnv("PORT", "8080")
	mailbox := getEnv("MOCK_MAILBOX", "SPF_review@yourdomain.com")
	folder := getEnv("MOCK_FOLDER", "Inbox")

	count, err := strconv.Atoi(getEnv("MOCK_MESSAGES", "75"))
	if err != nil || count < 0 {
		log.Fatalf("invalid MOCK_MESSAGES %q: must be a non-negative integer", getEnv("MOCK_MESSAGES", "75"))
	}

	server := mockgraph.New(mockgraph.Options{
		TenantID:     getEnv("MOCK_TENANT_ID", "00000000-0000-0000-0000-000000000001"),
		ClientID:     getEnv("MOCK_CLIENT_ID", "mock-client"),
		ClientSecret: getEnv("MOCK_CLIENT_SECRET", "mock-secret"),
	})
	server.SetMessages(mailbox, folder, mockgraph.GenerateEmails(time.Now().UnixNano(), count, time.Now()))

	addr := fmt.Sprintf(":%s", port)
	log.Infow("starting mock Graph server",
		"addr", addr,
		"messages", count,
		"mailbox", mailbox,
		"folder", folder,
		"login_url", "http://localhost"+addr+mockgraph.LoginPrefix,
		"graph_url", "http://localhost"+addr+mockgraph.GraphPrefix,
	)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalw("mock server stopped", "error", err)
	}
}
