package models

// ReportColumns is the header row of the harvest report, in column order
var ReportColumns = []string{
	"Subject",
	"Sender",
	"Received From",
	"SPF Result",
	"DMARC Result",
	"Date",
	"Message ID",
}

// ParsedRecord holds the report fields derived from one message.
// ReceivedFrom, SPFResult and DMARCResult are nil when no matching header exists.
type ParsedRecord struct {
	Subject      string
	Sender       string
	ReceivedFrom *string
	SPFResult    *string
	DMARCResult  *string
	Date         string
	MessageID    string
}

// Row returns the record's fields in ReportColumns order.
// Absent optional fields become empty strings.
func (r ParsedRecord) Row() []string {
	return []string{
		r.Subject,
		r.Sender,
		deref(r.ReceivedFrom),
		deref(r.SPFResult),
		deref(r.DMARCResult),
		r.Date,
		r.MessageID,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
