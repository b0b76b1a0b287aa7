package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

const deckMimeType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// BuildMIME assembles the raw RFC 2822 message: a multipart/mixed
// envelope holding a multipart/alternative (plain + HTML) body, an
// optional text/calendar invite, and an optional deck attachment.
func BuildMIME(from string, msg *Message) ([]byte, error) {
	var buf bytes.Buffer

	mixed := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	// Body: plain fallback first, HTML preferred.
	var bodyBuf bytes.Buffer
	alt := multipart.NewWriter(&bodyBuf)
	if err := writeTextPart(alt, "text/plain; charset=\"UTF-8\"", msg.PlainBody); err != nil {
		return nil, err
	}
	if err := writeTextPart(alt, "text/html; charset=\"UTF-8\"", msg.HTMLBody); err != nil {
		return nil, err
	}
	if err := alt.Close(); err != nil {
		return nil, err
	}

	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary()))
	bodyPart, err := mixed.CreatePart(bodyHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create body part: %w", err)
	}
	if _, err := bodyPart.Write(bodyBuf.Bytes()); err != nil {
		return nil, err
	}

	if msg.CalendarICS != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", "text/calendar; method=REQUEST; charset=\"UTF-8\"")
		header.Set("Content-Disposition", "attachment; filename=\"invite.ics\"")
		part, err := mixed.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create calendar part: %w", err)
		}
		if _, err := part.Write([]byte(msg.CalendarICS)); err != nil {
			return nil, err
		}
	}

	if msg.Attachment != nil && len(msg.Attachment.FileData) > 0 {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", deckMimeType)
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", msg.Attachment.Filename))
		header.Set("Content-Transfer-Encoding", "base64")
		part, err := mixed.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(msg.Attachment.FileData)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return nil, err
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTextPart(w *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}
	_, err = part.Write([]byte(body))
	return err
}
