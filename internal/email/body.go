package email

import (
	"fmt"
	"strings"
)

// proposalPreviewLimit caps how much of the proposal lands in the email
// body; the full proposal rides in the attached deck.
const proposalPreviewLimit = 2000

// Subject builds the outreach subject line.
func Subject(businessName string) string {
	return fmt.Sprintf("Website Proposal for %s — RapidReach", businessName)
}

// HTMLBody renders the outreach email body. hadCall switches the
// opening line between a call follow-up and a cold introduction.
func HTMLBody(businessName, proposalText string, hadCall bool) string {
	preview := proposalText
	if len(preview) > proposalPreviewLimit {
		preview = preview[:proposalPreviewLimit]
	}
	preview = strings.ReplaceAll(preview, "\n", "<br>")

	var opening string
	if hadCall {
		opening = fmt.Sprintf(
			"<p>Following up on our recent phone conversation, we're excited to share our tailored website solution for %s.</p>",
			businessName)
	} else {
		opening = fmt.Sprintf(
			"<p>We've been researching %s and believe we can help you establish a stronger online presence.</p>",
			businessName)
	}

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2 style="color: #2563eb;">Website Proposal for %s</h2>
	%s
	<h3>Our Proposal</h3>
	<div style="background: #f8fafc; padding: 16px; border-radius: 8px; margin: 16px 0;">
		%s
	</div>
	<p>We've also attached a detailed presentation deck for your review.</p>
	<p>Looking forward to discussing this with you!</p>
	<br>
	<p>Best regards,<br><strong>The RapidReach Team</strong></p>
</div>`, businessName, opening, preview)
}

// PlainBody is the text/plain fallback for clients without HTML.
func PlainBody(businessName string) string {
	return fmt.Sprintf("We have a proposal for %s. Please view this email in an HTML-capable client.", businessName)
}
