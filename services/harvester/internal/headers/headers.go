package headers

import (
	"strings"

	"github.com/stoik/spf-harvester/internal/models"
)

const (
	spfKey      = "received-spf"
	dmarcKey    = "authentication-results"
	receivedKey = "received"
)

// Result holds the authentication values extracted from a header list.
// A nil field means no header matched.
type Result struct {
	SPF          *string
	DMARC        *string
	ReceivedFrom *string
}

// Extract scans the headers once, in order, matching lower-cased names by substring.
//
// SPF and DMARC take the value of the last matching header. ReceivedFrom takes
// the value of the first "received" header that is not a Received-SPF header,
// and later ones are ignored.
func Extract(hdrs []models.MessageHeader) Result {
	var res Result
	for _, h := range hdrs {
		name := strings.ToLower(h.Name)
		value := h.Value

		isSPF := strings.Contains(name, spfKey)
		if isSPF {
			res.SPF = &value
		}
		if strings.Contains(name, dmarcKey) {
			res.DMARC = &value
		}
		if !isSPF && res.ReceivedFrom == nil && strings.Contains(name, receivedKey) {
			res.ReceivedFrom = &value
		}
	}
	return res
}

// Parse builds the report record for one message, substituting defaults
// for missing top-level fields.
func Parse(email models.ProviderEmail) models.ParsedRecord {
	res := Extract(email.InternetMessageHeaders)
	return models.ParsedRecord{
		Subject:      email.SubjectOrDefault(),
		Sender:       email.SenderOrDefault(),
		ReceivedFrom: res.ReceivedFrom,
		SPFResult:    res.SPF,
		DMARCResult:  res.DMARC,
		Date:         email.DateOrDefault(),
		MessageID:    email.MessageIDOrDefault(),
	}
}

// ParseAll parses messages in order
func ParseAll(emails []models.ProviderEmail) []models.ParsedRecord {
	records := make([]models.ParsedRecord, 0, len(emails))
	for _, email := range emails {
		records = append(records, Parse(email))
	}
	return records
}
