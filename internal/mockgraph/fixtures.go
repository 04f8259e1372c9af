package mockgraph

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/stoik/spf-harvester/internal/models"
)

var (
	firstNames = []string{"John", "Jane", "Bob", "Alice", "Charlie", "Diana", "Eve", "Frank"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
	domains    = []string{"example.com", "company.com", "business.org", "enterprise.net"}
	subjects   = []string{
		"Meeting tomorrow",
		"Project update",
		"Budget review",
		"Team lunch",
		"Quarterly report",
		"Client feedback",
		"Urgent: Action required",
		"Follow up",
	}
	spfResults   = []string{"pass", "fail", "softfail", "neutral", "none"}
	dmarcResults = []string{"pass", "fail", "bestguesspass", "none"}
)

// GenerateEmails returns n messages with realistic authentication headers.
// The same seed always yields the same messages. A negative n yields none.
func GenerateEmails(seed int64, n int, start time.Time) []models.ProviderEmail {
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewSource(seed))

	emails := make([]models.ProviderEmail, 0, n)
	for i := 0; i < n; i++ {
		// newest first, as Graph lists them
		receivedAt := start.Add(-time.Duration(i) * time.Duration(30+rng.Intn(600)) * time.Second)
		emails = append(emails, generateEmail(rng, i, receivedAt))
	}
	return emails
}

func generateEmail(rng *rand.Rand, index int, receivedAt time.Time) models.ProviderEmail {
	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]
	domain := domains[rng.Intn(len(domains))]
	from := fmt.Sprintf("%s.%s@%s", first, last, domain)

	messageID := uuid.Must(uuid.NewRandomFromReader(rng))
	senderIP := fmt.Sprintf("192.0.2.%d", 1+rng.Intn(254))
	spf := spfResults[rng.Intn(len(spfResults))]
	dmarc := dmarcResults[rng.Intn(len(dmarcResults))]
	stamp := receivedAt.UTC().Format(time.RFC1123Z)

	hdrs := []models.MessageHeader{
		{Name: "Received", Value: fmt.Sprintf("from mail.%s (%s) by mx.contoso.com with ESMTPS; %s", domain, senderIP, stamp)},
		{Name: "Received", Value: fmt.Sprintf("from relay.contoso.com by mailbox.contoso.com with SMTP; %s", stamp)},
	}
	// a share of messages carry no SPF verdict at all
	if rng.Intn(5) > 0 {
		hdrs = append(hdrs, models.MessageHeader{
			Name:  "Received-SPF",
			Value: fmt.Sprintf("%s (protection.outlook.com: domain of %s designates %s as permitted sender)", spf, domain, senderIP),
		})
	}
	hdrs = append(hdrs,
		models.MessageHeader{
			Name:  "Authentication-Results",
			Value: fmt.Sprintf("spf=%s (sender IP is %s) smtp.mailfrom=%s; dkim=pass header.d=%s; dmarc=%s action=none header.from=%s", spf, senderIP, domain, domain, dmarc, domain),
		},
		models.MessageHeader{Name: "From", Value: fmt.Sprintf("%s %s <%s>", first, last, from)},
		models.MessageHeader{Name: "Subject", Value: subjects[rng.Intn(len(subjects))]},
		models.MessageHeader{Name: "Message-ID", Value: fmt.Sprintf("<%s@%s>", messageID, domain)},
	)

	subject := fmt.Sprintf("%s [%d]", hdrs[len(hdrs)-2].Value, index)
	internetMessageID := fmt.Sprintf("<%s@%s>", messageID, domain)
	received := receivedAt.UTC().Format(time.RFC3339)

	return models.ProviderEmail{
		Subject: &subject,
		From: &models.Recipient{
			EmailAddress: &models.EmailAddress{Name: first + " " + last, Address: &from},
		},
		InternetMessageID:      &internetMessageID,
		ReceivedDateTime:       &received,
		InternetMessageHeaders: hdrs,
	}
}
