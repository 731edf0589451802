package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
)

type mailTemplate struct {
	html *template.Template
	text *texttemplate.Template
}

var funcs = template.FuncMap{
	"price": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

var (
	tplBookingAdmin = mailTemplate{
		html: template.Must(template.New("booking_admin").Funcs(funcs).Parse(`<h2>New booking received</h2>
<p><strong>Booking ID:</strong> {{.BookingID}}</p>
<p><strong>Property:</strong> {{.PropertyTitle}} ({{.PropertyLocation}})</p>
<p><strong>Customer:</strong> {{.CustomerName}} &lt;{{.CustomerEmail}}&gt;{{if .CustomerPhone}} {{.CustomerPhone}}{{end}}</p>
<p><strong>Stay:</strong> {{.CheckIn}} to {{.CheckOut}}, {{.Guests}} guest(s)</p>
<p><strong>Total:</strong> {{price .TotalPrice}}</p>
{{if .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}`)),
		text: texttemplate.Must(texttemplate.New("text").Parse("New booking {{.BookingID}} for {{.PropertyTitle}} by {{.CustomerName}}.")),
	}

	tplBookingCustomer = mailTemplate{
		html: template.Must(template.New("booking_customer").Funcs(funcs).Parse(`<h2>Thank you for your booking, {{.CustomerName}}</h2>
<p>We have received your booking for <strong>{{.PropertyTitle}}</strong> in {{.PropertyLocation}}.</p>
<p><strong>Check-in:</strong> {{.CheckIn}}<br><strong>Check-out:</strong> {{.CheckOut}}<br><strong>Guests:</strong> {{.Guests}}</p>
<p><strong>Total:</strong> {{price .TotalPrice}}</p>
<p>Your booking ID is {{.BookingID}}.</p>`)),
		text: texttemplate.Must(texttemplate.New("text").Parse("Hi {{.CustomerName}}, your booking {{.BookingID}} for {{.PropertyTitle}} is received.")),
	}

	tplPropertyAdmin = mailTemplate{
		html: template.Must(template.New("property_admin").Funcs(funcs).Parse(`<h2>New property posted</h2>
<p><strong>{{.Title}}</strong> ({{.PropertyType}})</p>
<p><strong>Location:</strong> {{.Location}}</p>
<p><strong>Price:</strong> {{price .Price}}</p>
<p><strong>Owner:</strong> {{.OwnerName}} &lt;{{.OwnerEmail}}&gt;{{if .OwnerPhone}} {{.OwnerPhone}}{{end}}</p>`)),
		text: texttemplate.Must(texttemplate.New("text").Parse("New property {{.Title}} in {{.Location}} posted by {{.OwnerName}}.")),
	}
)

// renderMail fills an email delivery from t; recipient and subject are left
// to the caller.
func renderMail(t mailTemplate, data any) (entity.Delivery, error) {
	var html bytes.Buffer
	if err := t.html.Execute(&html, data); err != nil {
		return entity.Delivery{}, err
	}

	var sb strings.Builder
	if err := t.text.Execute(&sb, data); err != nil {
		return entity.Delivery{}, err
	}

	return entity.Delivery{Channel: entity.ChannelEmail, HTML: html.String(), Text: sb.String()}, nil
}
