package contact

import (
	"bytes"
	"html/template"
	"time"

	"trouve-ton-artisan/internal/domain"
)

// The two mail bodies: the relayed message to the artisan and the
// confirmation copy to the sender. html/template escapes the visitor input.

type mailData struct {
	Artisan   *domain.Artisan
	Specialty string
	Sender    Submission
	SentAt    time.Time
}

var artisanMailTmpl = template.Must(template.New("artisan").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #0074c7; color: white; padding: 20px; text-align: center;">
      <h1 style="margin: 0;">Trouve ton artisan</h1>
      <p style="margin: 10px 0 0 0;">Nouvelle demande de contact</p>
    </div>
    <div style="background: #f8f9fa; padding: 20px;">
      <h2 style="color: #0074c7;">Bonjour {{if .Artisan.ContactName}}{{.Artisan.ContactName}}{{else}}{{.Artisan.CompanyName}}{{end}},</h2>
      <p>Vous avez re&ccedil;u un nouveau message via la plateforme.</p>
      <div style="background: white; padding: 15px; margin: 20px 0;">
        <p><strong>Nom :</strong> {{.Sender.Name}}</p>
        <p><strong>Email :</strong> <a href="mailto:{{.Sender.Email}}">{{.Sender.Email}}</a></p>
        <p><strong>Objet :</strong> {{.Sender.Subject}}</p>
      </div>
      <div style="background: white; padding: 15px; margin: 20px 0;">
        <p style="white-space: pre-line;">{{.Sender.Message}}</p>
      </div>
      <p style="font-size: 12px; color: #666; text-align: center;">
        Message transmis par Trouve ton artisan &mdash; r&eacute;pondez directement &agrave; {{.Sender.Name}}.
      </p>
    </div>
  </div>
</body>
</html>
`))

var confirmationMailTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #82b864; color: white; padding: 20px; text-align: center;">
      <h1 style="margin: 0;">Message envoy&eacute;</h1>
    </div>
    <div style="background: #f8f9fa; padding: 20px;">
      <h2>Bonjour {{.Sender.Name}},</h2>
      <p>Votre message a bien &eacute;t&eacute; transmis &agrave; <strong>{{.Artisan.CompanyName}}</strong>.</p>
      <div style="background: white; padding: 15px; margin: 20px 0;">
        <p><strong>Artisan contact&eacute; :</strong> {{.Artisan.CompanyName}}</p>
        <p><strong>Sp&eacute;cialit&eacute; :</strong> {{.Specialty}}</p>
        <p><strong>Objet :</strong> {{.Sender.Subject}}</p>
        <p><strong>Envoy&eacute; le :</strong> {{.SentAt.Format "02/01/2006 15:04"}}</p>
      </div>
      <div style="background: white; padding: 15px; margin: 20px 0; border-left: 4px solid #0074c7;">
        <p style="white-space: pre-line; font-style: italic;">{{.Sender.Message}}</p>
      </div>
      <p style="font-size: 12px; color: #666; text-align: center;">
        Merci d'utiliser Trouve ton artisan.
      </p>
    </div>
  </div>
</body>
</html>
`))

func renderMail(t *template.Template, d mailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
