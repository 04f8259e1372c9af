package provider

import (
	"context"

	"github.com/stoik/spf-harvester/internal/models"
)

// PageSize is the number of messages requested from the listing endpoint.
// Only the first page is read.
const PageSize = 50

// Provider defines the interface for mailbox listing clients
type Provider interface {
	// GetEmails retrieves the first page of messages in folder of mailbox
	GetEmails(ctx context.Context, token, mailbox, folder string) ([]models.ProviderEmail, error)
}
