// Package templates renders the approval notification for each recipient
// role. The HTML and plain-text bodies are rendered from the same data so
// multipart alternatives never drift apart.
package templates

import (
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/skyops/aeromaint/pkg/mailer"
	"github.com/skyops/aeromaint/pkg/models"
)

// roleIntros tailor the opening line to the recipient's responsibility.
var roleIntros = map[string]string{
	"maintenance_manager": "A maintenance workflow has been scheduled for your team.",
	"operations_director": "An aircraft will be unavailable during the maintenance window below.",
	"compliance_officer":  "A compliance log entry has been opened for the work below.",
}

const defaultIntro = "A maintenance recommendation has been approved."

const htmlBody = `<html>
<body style="font-family: sans-serif; color: #1a1a2e;">
	<h2>Maintenance Approved: {{.TypeLabel}}</h2>
	<p>Hello {{.Recipient.Name}},</p>
	<p>{{.Intro}}</p>
	<table cellpadding="6" style="border-collapse: collapse;">
		<tr><td><strong>Aircraft</strong></td><td>{{.Workflow.TailNumber}}</td></tr>
		<tr><td><strong>Work order</strong></td><td>{{.Workflow.WorkOrder.Number}}</td></tr>
		<tr><td><strong>Window</strong></td><td>{{.WindowStart}} to {{.WindowEnd}}</td></tr>
		<tr><td><strong>Location</strong></td><td>{{.Workflow.Calendar.Location}}</td></tr>
		<tr><td><strong>Estimated cost</strong></td><td>${{printf "%.2f" .Recommendation.EstimatedCost}}</td></tr>
		<tr><td><strong>Approved by</strong></td><td>{{.Recommendation.ApprovedBy}}</td></tr>
	</table>
	{{if .Recommendation.Reasoning}}
	<h3>Reasoning</h3>
	<ul>
	{{range .Recommendation.Reasoning}}<li>{{.}}</li>{{end}}
	</ul>
	{{end}}
	<p>Workflow {{.Workflow.ID}} is now tracked on the maintenance dashboard.</p>
</body>
</html>`

const textBody = `Maintenance Approved: {{.TypeLabel}}

Hello {{.Recipient.Name}},

{{.Intro}}

Aircraft:        {{.Workflow.TailNumber}}
Work order:      {{.Workflow.WorkOrder.Number}}
Window:          {{.WindowStart}} to {{.WindowEnd}}
Location:        {{.Workflow.Calendar.Location}}
Estimated cost:  ${{printf "%.2f" .Recommendation.EstimatedCost}}
Approved by:     {{.Recommendation.ApprovedBy}}
{{if .Recommendation.Reasoning}}
Reasoning:
{{range .Recommendation.Reasoning}}  - {{.}}
{{end}}{{end}}
Workflow {{.Workflow.ID}} is now tracked on the maintenance dashboard.
`

// Renderer holds the parsed templates.
type Renderer struct {
	html *template.Template
	text *texttemplate.Template
}

// NewRenderer parses the notification templates.
func NewRenderer() (*Renderer, error) {
	htmlTmpl, err := template.New("approval_html").Parse(htmlBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template: %w", err)
	}

	textTmpl, err := texttemplate.New("approval_text").Parse(textBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}

	return &Renderer{html: htmlTmpl, text: textTmpl}, nil
}

type templateData struct {
	Recipient      models.Recipient
	Recommendation *models.Recommendation
	Workflow       *models.ActiveWorkflow
	Intro          string
	TypeLabel      string
	WindowStart    string
	WindowEnd      string
}

// Render produces the complete message for one recipient.
func (r *Renderer) Render(
	recipient models.Recipient,
	rec *models.Recommendation,
	workflow *models.ActiveWorkflow,
) (mailer.Message, error) {
	intro, ok := roleIntros[recipient.Role]
	if !ok {
		intro = defaultIntro
	}

	data := templateData{
		Recipient:      recipient,
		Recommendation: rec,
		Workflow:       workflow,
		Intro:          intro,
		TypeLabel:      TypeLabel(rec.Type),
		WindowStart:    workflow.Calendar.StartAt.Format(time.RFC1123),
		WindowEnd:      workflow.Calendar.EndAt.Format(time.RFC1123),
	}

	var htmlBuf strings.Builder

	err := r.html.Execute(&htmlBuf, data)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("failed to render html body: %w", err)
	}

	var textBuf strings.Builder

	err = r.text.Execute(&textBuf, data)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("failed to render text body: %w", err)
	}

	return mailer.Message{
		To:       recipient,
		Subject:  fmt.Sprintf("Maintenance Approved: %s for %s", data.TypeLabel, workflow.TailNumber),
		HTMLBody: htmlBuf.String(),
		TextBody: textBuf.String(),
	}, nil
}

// TypeLabel converts a maintenance type constant to its display form.
func TypeLabel(t models.MaintenanceType) string {
	words := strings.Split(strings.ToLower(string(t)), "_")
	for i, word := range words {
		if word == "" {
			continue
		}

		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}

	return strings.Join(words, " ")
}
