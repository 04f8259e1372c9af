package eml

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"

	"github.com/stoik/spf-harvester/internal/models"
)

// Read parses the header block of a raw RFC 5322 message into a ProviderEmail.
// Header fields keep their order in the file. Fields that cannot be decoded
// are left absent so the report defaults apply.
func Read(r io.Reader) (models.ProviderEmail, error) {
	th, err := textproto.ReadHeader(bufio.NewReader(r))
	if err != nil {
		return models.ProviderEmail{}, fmt.Errorf("failed to read header: %w", err)
	}

	var email models.ProviderEmail
	fields := th.Fields()
	for fields.Next() {
		email.InternetMessageHeaders = append(email.InternetMessageHeaders, models.MessageHeader{
			Name:  fields.Key(),
			Value: fields.Value(),
		})
	}

	h := mail.Header{Header: message.Header{Header: th}}

	if h.Has("Subject") {
		subject, err := h.Subject()
		if err != nil {
			subject = h.Get("Subject")
		}
		email.Subject = &subject
	}

	if from, err := h.AddressList("From"); err == nil && len(from) > 0 {
		email.From = &models.Recipient{
			EmailAddress: &models.EmailAddress{Name: from[0].Name, Address: models.StringPtr(from[0].Address)},
		}
	}

	if id := h.Get("Message-Id"); id != "" {
		email.InternetMessageID = &id
	}

	if date, err := h.Date(); err == nil && !date.IsZero() {
		received := date.UTC().Format(time.RFC3339)
		email.ReceivedDateTime = &received
	}

	return email, nil
}

// ReadFile opens path and reads it with Read
func ReadFile(path string) (models.ProviderEmail, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ProviderEmail{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	email, err := Read(f)
	if err != nil {
		return models.ProviderEmail{}, fmt.Errorf("%s: %w", path, err)
	}
	return email, nil
}

// ReadFiles reads every path in order and stops at the first failure
func ReadFiles(paths []string) ([]models.ProviderEmail, error) {
	emails := make([]models.ProviderEmail, 0, len(paths))
	for _, path := range paths {
		email, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, nil
}
