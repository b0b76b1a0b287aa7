package email

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailTransport sends mail through the Gmail API as the authorized
// sales account.
type GmailTransport struct {
	svc *gmail.Service
}

// NewGmailTransport creates a transport. Credentials come from the
// provided client options (OAuth token source or credentials file).
func NewGmailTransport(ctx context.Context, opts ...option.ClientOption) (*GmailTransport, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &GmailTransport{svc: svc}, nil
}

// Send submits the raw message via users.messages.send on the
// authorized account.
func (t *GmailTransport) Send(ctx context.Context, raw []byte) (string, error) {
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	sent, err := t.svc.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gmail send failed: %w", err)
	}
	return sent.Id, nil
}
