package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const subjectOTP = "Your verification code"

var tmplOTP = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #1f2937;">
    <h2>Verification code</h2>
    <p>Use the code below to continue. It is valid for {{.Minutes}} minutes.</p>
    <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
    <p style="color: #6b7280;">If you did not request this code you can ignore this email.</p>
  </body>
</html>`))

type otpView struct {
	Code    string
	Minutes int
}

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

// SendOTP emails code to the given address.
func (m *Mail) SendOTP(ctx context.Context, to, code string, validFor time.Duration) error {
	ctx, span := m.ins.Tracer("identity.outbound.email").Start(ctx, "SendOTP")
	defer span.End()

	minutes := max(int(validFor/time.Minute), 1)
	span.SetAttributes(attribute.Int("otp.valid_minutes", minutes))

	var html bytes.Buffer
	if err := tmplOTP.Execute(&html, otpView{Code: code, Minutes: minutes}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err := m.client.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  subjectOTP,
		TextBody: fmt.Sprintf("Your verification code is %s. It is valid for %d minutes.", code, minutes),
		HTMLBody: html.String(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
