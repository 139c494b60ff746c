package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"

	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"
)

//go:embed templates
var templateFS embed.FS

var (
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
)

// Message is one rendered transactional email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

type messageData struct {
	ClientName      string
	ReferenceCode   string
	TrackingURL     string
	RejectionReason string
	Amount          string
}

// Render builds the email for req addressed to the project contact.
func Render(baseURL string, contact *types.ProjectContact, req types.NotificationRequest) (*Message, error) {
	data := messageData{
		ClientName:      contact.ClientName,
		ReferenceCode:   contact.ReferenceCode,
		TrackingURL:     TrackingURL(baseURL, contact.TrackingToken),
		RejectionReason: strings.TrimSpace(req.RejectionReason),
	}
	if req.AmountValidated != nil {
		data.Amount = fmt.Sprintf("%.2f", *req.AmountValidated)
	}

	kind := string(req.Kind)

	subject, err := executeText(kind+".subject", data)
	if err != nil {
		return nil, err
	}

	text, err := executeText(kind+".text", data)
	if err != nil {
		return nil, err
	}

	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, kind+".html", data); err != nil {
		return nil, fmt.Errorf("render %s html: %w", kind, err)
	}

	return &Message{
		To:      contact.ClientEmail,
		Subject: strings.TrimSpace(subject),
		Text:    strings.TrimLeft(text, "\n"),
		HTML:    html.String(),
	}, nil
}

func executeText(name string, data messageData) (string, error) {
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func TrackingURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/track/" + url.PathEscape(token)
}
