package extractor

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	"github.com/ledongthuc/pdf"
)

var reCollapseSpace = regexp.MustCompile(`\s+`)

// ParsedMessage is the decoded form of a raw RFC 822 message: headers plus a
// plain-text rendering of the body and any readable PDF attachments.
type ParsedMessage struct {
	Subject        string
	From           string
	Date           string
	Body           string
	AttachmentText string
}

// DecodeMessage parses a raw message into headers and plain text. The text
// body is preferred; HTML-only messages are reduced to text. PDF attachments
// are read separately so callers can decide whether to fold them in.
func DecodeMessage(raw []byte) (*ParsedMessage, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(env.Text)
	if body == "" && env.HTML != "" {
		body = htmlToText(env.HTML)
	}

	var attachmentText []string
	for _, att := range env.Attachments {
		if !strings.EqualFold(att.ContentType, "application/pdf") && !strings.HasSuffix(strings.ToLower(att.FileName), ".pdf") {
			continue
		}
		if text := pdfToText(att.Content); text != "" {
			attachmentText = append(attachmentText, text)
		}
	}

	return &ParsedMessage{
		Subject:        env.GetHeader("Subject"),
		From:           env.GetHeader("From"),
		Date:           env.GetHeader("Date"),
		Body:           body,
		AttachmentText: strings.Join(attachmentText, "\n"),
	}, nil
}

func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return reCollapseSpace.ReplaceAllString(strings.TrimSpace(doc.Text()), " ")
}

// pdfToText best-effort extracts plain text from a PDF attachment. Broken or
// encrypted PDFs yield an empty string rather than an error.
func pdfToText(content []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ""
	}
	textReader, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	text, err := io.ReadAll(textReader)
	if err != nil {
		return ""
	}
	return reCollapseSpace.ReplaceAllString(strings.TrimSpace(string(text)), " ")
}
