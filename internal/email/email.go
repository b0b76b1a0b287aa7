// Package email builds and sends the outreach email: recipient
// resolution, MIME assembly (HTML body, deck attachment, calendar
// invite), and delivery through Gmail.
package email

import (
	"context"
	"fmt"
	"log"

	"github.com/arnav/rapidreach/internal/transcript"
	"github.com/arnav/rapidreach/internal/types"
)

// Transport delivers a raw RFC 2822 message and returns the provider's
// message id.
type Transport interface {
	Send(ctx context.Context, raw []byte) (messageID string, err error)
}

// Message is one outbound outreach email.
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	PlainBody   string
	Attachment  *types.Deck
	CalendarICS string
}

// Sender sends outreach emails from the sales account.
type Sender struct {
	transport Transport
	from      string
}

// NewSender creates a Sender. from is the sales account address.
func NewSender(transport Transport, from string) *Sender {
	return &Sender{transport: transport, from: from}
}

// ResolveRecipient picks the email address for a lead, in decreasing
// priority: the address on the request, the highest-confidence address
// mined from the call transcript, then the configured fallback.
func ResolveRecipient(requestEmail, callTranscript, fallback string) (string, error) {
	if requestEmail != "" {
		return requestEmail, nil
	}
	if callTranscript != "" {
		if found := transcript.ExtractEmails(callTranscript); len(found) > 0 {
			log.Printf("using email extracted from transcript: %s", found[0])
			return found[0], nil
		}
	}
	if fallback != "" {
		log.Printf("using fallback email: %s", fallback)
		return fallback, nil
	}
	return "", fmt.Errorf("no email address available")
}

// Send assembles the MIME message and hands it to the transport. The
// result always reports the recipient and subject, with Success=false
// and the error string on failure.
func (s *Sender) Send(ctx context.Context, msg *Message) *types.EmailSendResult {
	result := &types.EmailSendResult{To: msg.To, Subject: msg.Subject}

	if s.from == "" {
		result.Error = "sales email not configured"
		return result
	}
	if s.transport == nil {
		result.Error = "mail transport not configured"
		return result
	}

	raw, err := BuildMIME(s.from, msg)
	if err != nil {
		result.Error = fmt.Sprintf("failed to build message: %v", err)
		return result
	}

	id, err := s.transport.Send(ctx, raw)
	if err != nil {
		log.Printf("email send failed for %s: %v", msg.To, err)
		result.Error = err.Error()
		return result
	}

	log.Printf("email sent to %s: %s", msg.To, id)
	result.Success = true
	result.MessageID = id
	return result
}
