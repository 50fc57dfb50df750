package notification

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"
)

// mailData данные для шаблонов писем
type mailData struct {
	UserName     string
	UserEmail    string
	Service      string
	Date         string
	Time         string
	VehicleType  string
	LicensePlate string
	Price        string
	FrontendURL  string
	Reference    int64
}

type mailTemplate struct {
	subject *template.Template
	text    *template.Template
	html    *htmltemplate.Template
}

func newMailTemplate(name, subject, text, html string) mailTemplate {
	t := mailTemplate{
		subject: template.Must(template.New(name + "_subject").Parse(subject)),
		text:    template.Must(template.New(name + "_text").Parse(text)),
	}
	if html != "" {
		t.html = htmltemplate.Must(htmltemplate.New(name + "_html").Parse(htmlLayoutStart + html + htmlLayoutEnd))
	}
	return t
}

func (t mailTemplate) render(data mailData) (subject, text, html string, err error) {
	var buf bytes.Buffer
	if err = t.subject.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	subject = buf.String()

	buf.Reset()
	if err = t.text.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	text = buf.String()

	if t.html != nil {
		buf.Reset()
		if err = t.html.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		html = buf.String()
	}
	return subject, text, html, nil
}

const htmlLayoutStart = `<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Racing Clean</title></head>
<body style="font-family: Arial, sans-serif; background: #0A0A0A; color: #FFFFFF;">
<div style="max-width: 600px; margin: 0 auto; padding: 24px;">
<h1 style="color: #FFD700;">Racing Clean</h1>
`

const htmlLayoutEnd = `
<p style="font-size: 12px; color: #B0B0B0;">Cet email a été envoyé à {{.UserEmail}}</p>
</div>
</body>
</html>`

const bookingDetailsHTML = `
<table>
<tr><td>Service</td><td>{{.Service}}</td></tr>
<tr><td>Date</td><td>{{.Date}}</td></tr>
<tr><td>Heure</td><td>{{.Time}}</td></tr>
<tr><td>Véhicule</td><td>{{.VehicleType}}</td></tr>
<tr><td>Plaque d'immatriculation</td><td>{{.LicensePlate}}</td></tr>
<tr><td>Tarif total</td><td>{{.Price}}</td></tr>
</table>`

var (
	welcomeTemplate = newMailTemplate("welcome",
		"Bienvenue chez Racing Clean",
		"Bonjour {{.UserName}},\n\nVotre compte Racing Clean a été créé avec succès.\n\nÀ bientôt !",
		`<h2>Bienvenue {{.UserName}} !</h2>
<p>Nous sommes ravis de vous accueillir parmi nos clients. Votre compte Racing Clean a été créé avec succès.</p>
{{if .FrontendURL}}<p><a href="{{.FrontendURL}}">Réserver un nettoyage</a></p>{{end}}`)

	bookingConfirmationTemplate = newMailTemplate("booking_confirmation",
		"Réservation confirmée - Racing Clean",
		"Bonjour {{.UserName}},\n\nVotre réservation pour {{.Service}} le {{.Date}} à {{.Time}} a été confirmée.\n\nMerci.",
		`<h2>Réservation confirmée !</h2>
<p>Bonjour {{.UserName}},<br><br>Nous avons le plaisir de confirmer votre rendez-vous chez Racing Clean.</p>`+bookingDetailsHTML)

	bookingModificationTemplate = newMailTemplate("booking_modification",
		"Réservation modifiée - Racing Clean",
		"Bonjour {{.UserName}},\n\nVotre réservation a été modifiée : {{.Service}} le {{.Date}} à {{.Time}}.\n\nMerci.",
		`<h2>Rendez-vous modifié !</h2>
<p>Bonjour {{.UserName}},<br><br>Votre rendez-vous chez Racing Clean a été modifié. Voici les nouvelles informations.</p>`+bookingDetailsHTML)

	bookingCancellationTemplate = newMailTemplate("booking_cancellation",
		"Réservation annulée - Racing Clean",
		"Bonjour {{.UserName}},\n\nVotre réservation pour {{.Service}} le {{.Date}} à {{.Time}} a été annulée.{{if .FrontendURL}}\n\nPour reprogrammer : {{.FrontendURL}}{{end}}",
		`<h2>Réservation annulée</h2>
<p>Bonjour {{.UserName}},<br><br>Votre réservation du {{.Date}} à {{.Time}} a été annulée.</p>
{{if .FrontendURL}}<p><a href="{{.FrontendURL}}">Reprogrammer</a></p>{{end}}`)

	appointmentConfirmationTemplate = newMailTemplate("appointment_confirmation",
		"Votre rendez-vous ({{.Reference}}) est confirmé",
		"Bonjour {{.UserName}},\n\nVotre rendez-vous prévu le {{.Date}} à {{.Time}} est confirmé.\n\nMerci.",
		`<h2>Rendez-vous confirmé</h2>
<p>Bonjour {{.UserName}},<br><br>Votre rendez-vous prévu le {{.Date}} à {{.Time}} est confirmé.</p>`)

	appointmentCancellationTemplate = newMailTemplate("appointment_cancellation",
		"Votre rendez-vous ({{.Reference}}) a été annulé",
		"Bonjour {{.UserName}},\n\nVotre rendez-vous prévu le {{.Date}} à {{.Time}} a été annulé.{{if .FrontendURL}} Si vous souhaitez reprogrammer, rendez-vous sur {{.FrontendURL}}{{end}}",
		"")
)
