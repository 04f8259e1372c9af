package models

// Defaults substituted for message fields missing from a provider response
const (
	DefaultSubject   = "No Subject"
	DefaultSender    = "Unknown Sender"
	DefaultMessageID = "Unknown ID"
	DefaultDate      = "Unknown Date"
)

// EmailAddress is the Graph emailAddress resource
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Recipient is the Graph recipient resource (used for "from")
type Recipient struct {
	EmailAddress *EmailAddress `json:"emailAddress,omitempty"`
}

// MessageHeader is one entry of internetMessageHeaders.
// A missing name or value decodes as the empty string.
type MessageHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProviderEmail is a message as returned by the Graph message-listing endpoint.
// Pointer fields distinguish absent (or null) values from empty strings.
type ProviderEmail struct {
	Subject                *string         `json:"subject,omitempty"`
	From                   *Recipient      `json:"from,omitempty"`
	InternetMessageID      *string         `json:"internetMessageId,omitempty"`
	ReceivedDateTime       *string         `json:"receivedDateTime,omitempty"`
	InternetMessageHeaders []MessageHeader `json:"internetMessageHeaders,omitempty"`
}

// MessageList is the envelope of a Graph collection response
type MessageList struct {
	Value    []ProviderEmail `json:"value"`
	NextLink string          `json:"@odata.nextLink,omitempty"`
}

// SubjectOrDefault returns the subject, or DefaultSubject when absent
func (e ProviderEmail) SubjectOrDefault() string {
	return stringOr(e.Subject, DefaultSubject)
}

// SenderOrDefault returns from.emailAddress.address, or DefaultSender when any
// part of the path is absent or null. An empty address is kept.
func (e ProviderEmail) SenderOrDefault() string {
	if e.From == nil || e.From.EmailAddress == nil {
		return DefaultSender
	}
	return stringOr(e.From.EmailAddress.Address, DefaultSender)
}

// MessageIDOrDefault returns internetMessageId, or DefaultMessageID when absent
func (e ProviderEmail) MessageIDOrDefault() string {
	return stringOr(e.InternetMessageID, DefaultMessageID)
}

// DateOrDefault returns receivedDateTime, or DefaultDate when absent
func (e ProviderEmail) DateOrDefault() string {
	return stringOr(e.ReceivedDateTime, DefaultDate)
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
