package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/m04kA/SMC-CoachBooking/internal/integrations/email"
)

type messageTemplate struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
	toCoach bool
}

func newTemplate(kind Kind, toCoach bool, subject, text, html string) messageTemplate {
	name := string(kind)
	return messageTemplate{
		subject: texttemplate.Must(texttemplate.New(name + ".subject").Parse(subject)),
		text:    texttemplate.Must(texttemplate.New(name + ".text").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name + ".html").Parse(html)),
		toCoach: toCoach,
	}
}

var templates = map[Kind]messageTemplate{
	KindBookingReceived: newTemplate(KindBookingReceived, false,
		`We received your booking request for {{.Date}} at {{.Time}}`,
		`Hello {{.CustomerName}},

thank you for your request for a {{.Duration}} minute session on {{.Date}} at {{.Time}}.
You will receive another email as soon as the appointment is confirmed.
`,
		`<p>Hello {{.CustomerName}},</p>
<p>thank you for your request for a {{.Duration}} minute session on <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong>.</p>
<p>You will receive another email as soon as the appointment is confirmed.</p>`,
	),
	KindApprovalRequest: newTemplate(KindApprovalRequest, true,
		`New booking request: {{.Date}} {{.Time}} ({{.CustomerName}})`,
		`New booking request

Slot:     {{.Date}} {{.Time}} ({{.Duration}} min)
Name:     {{.CustomerName}}
Email:    {{.CustomerEmail}}
Phone:    {{.CustomerPhone}}
{{- if .ContactPreference}}
Contact:  {{.ContactPreference}}{{end}}
{{- if .Message}}

Message:
{{.Message}}{{end}}

Approve: {{.ApproveURL}}
Decline: {{.DeclineURL}}
`,
		`<h2>New booking request</h2>
<table>
<tr><td>Slot</td><td>{{.Date}} {{.Time}} ({{.Duration}} min)</td></tr>
<tr><td>Name</td><td>{{.CustomerName}}</td></tr>
<tr><td>Email</td><td>{{.CustomerEmail}}</td></tr>
<tr><td>Phone</td><td>{{.CustomerPhone}}</td></tr>
{{- if .ContactPreference}}
<tr><td>Contact</td><td>{{.ContactPreference}}</td></tr>{{end}}
</table>
{{- if .Message}}
<p>{{.Message}}</p>{{end}}
<p><a href="{{.ApproveURL}}">Approve</a> | <a href="{{.DeclineURL}}">Decline</a></p>`,
	),
	KindBookingConfirmed: newTemplate(KindBookingConfirmed, false,
		`Your session on {{.Date}} at {{.Time}} is confirmed`,
		`Hello {{.CustomerName}},

your {{.Duration}} minute session on {{.Date}} at {{.Time}} is confirmed.
`,
		`<p>Hello {{.CustomerName}},</p>
<p>your {{.Duration}} minute session on <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong> is confirmed.</p>`,
	),
	KindBookingDeclined: newTemplate(KindBookingDeclined, false,
		`Your booking request for {{.Date}} at {{.Time}}`,
		`Hello {{.CustomerName}},

unfortunately the session on {{.Date}} at {{.Time}} cannot take place.
Please choose another slot on the website.
`,
		`<p>Hello {{.CustomerName}},</p>
<p>unfortunately the session on <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong> cannot take place.</p>
<p>Please choose another slot on the website.</p>`,
	),
}

// Composer превращает уведомление в письмо
type Composer struct {
	coachEmail string
}

// NewComposer создает Composer; письма типа approval_request уходят на coachEmail
func NewComposer(coachEmail string) *Composer {
	return &Composer{coachEmail: coachEmail}
}

// Compose рендерит тему, текст и HTML письма
func (c *Composer) Compose(n Notification) (email.Message, error) {
	tpl, ok := templates[n.Kind]
	if !ok {
		return email.Message{}, fmt.Errorf("%w: kind=%s", ErrUnknownKind, n.Kind)
	}

	msg := email.Message{To: n.CustomerEmail, ToName: n.CustomerName}
	if tpl.toCoach {
		msg = email.Message{To: c.coachEmail}
	}
	if msg.To == "" {
		return email.Message{}, fmt.Errorf("%w: kind=%s, slot_id=%s", ErrNoRecipient, n.Kind, n.SlotID)
	}

	var subject, text, html bytes.Buffer
	if err := tpl.subject.Execute(&subject, n); err != nil {
		return email.Message{}, fmt.Errorf("%w: subject: %v", ErrRender, err)
	}
	if err := tpl.text.Execute(&text, n); err != nil {
		return email.Message{}, fmt.Errorf("%w: text: %v", ErrRender, err)
	}
	if err := tpl.html.Execute(&html, n); err != nil {
		return email.Message{}, fmt.Errorf("%w: html: %v", ErrRender, err)
	}

	msg.Subject = subject.String()
	msg.Text = text.String()
	msg.HTML = html.String()
	return msg, nil
}
