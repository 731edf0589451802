// Package mail defines the contract for sending email and its SMTP implementation.
//
// Use cases depend on the Mail interface and the provider-agnostic Message
// payload. SMTP delivery is built on github.com/wneessen/go-mail.
package mail
