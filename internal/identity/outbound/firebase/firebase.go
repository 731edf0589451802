// Package firebase adapts Firebase Authentication to the identity provider
// used by the password reset flow.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// ErrNoCredentials is returned by New when neither a credentials file nor inline JSON is set.
var ErrNoCredentials = errors.New("firebase: no service account credentials configured")

const defaultTimeout = 10 * time.Second

var scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/firebase",
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/userinfo.email",
}

type Config struct {
	// CredentialsFile points at a service account key file.
	CredentialsFile string
	// CredentialsJSON is the key itself; it wins over CredentialsFile.
	CredentialsJSON string
	// ProjectID overrides the project of the service account.
	ProjectID string
	Timeout   time.Duration
}

func (c Config) Configured() bool {
	return strings.TrimSpace(c.CredentialsJSON) != "" || strings.TrimSpace(c.CredentialsFile) != ""
}

type authClient interface {
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
}

type Firebase struct {
	client  authClient
	ins     instrument.Instrumentation
	timeout time.Duration
}

func New(ctx context.Context, cfg Config, ins instrument.Instrumentation) (*Firebase, error) {
	if !cfg.Configured() {
		return nil, ErrNoCredentials
	}

	raw := []byte(cfg.CredentialsJSON)
	if len(strings.TrimSpace(cfg.CredentialsJSON)) == 0 {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("firebase: read credentials file: %w", err)
		}
		raw = b
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("firebase: parse credentials: %w", err)
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = creds.ProjectID
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: projectID}, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("firebase: new app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}

	return newWithClient(client, ins, cfg.Timeout), nil
}

func newWithClient(client authClient, ins instrument.Instrumentation, timeout time.Duration) *Firebase {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Firebase{client: client, ins: ins, timeout: timeout}
}

func (f *Firebase) start(ctx context.Context, name string) (context.Context, trace.Span, context.CancelFunc) {
	ctx, span := f.ins.Tracer("identity.outbound.firebase").Start(ctx, name)
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	return ctx, span, cancel
}

// GetUserByEmail returns entity.ErrUserNotFound when Firebase has no such account.
func (f *Firebase) GetUserByEmail(ctx context.Context, email string) (*entity.IdentityUser, error) {
	ctx, span, cancel := f.start(ctx, "GetUserByEmail")
	defer cancel()
	defer span.End()

	u, err := f.client.GetUserByEmail(ctx, email)
	if auth.IsUserNotFound(err) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &entity.IdentityUser{UID: u.UID, Email: u.Email}, nil
}

func (f *Firebase) UpdatePassword(ctx context.Context, uid, password string) error {
	ctx, span, cancel := f.start(ctx, "UpdatePassword")
	defer cancel()
	defer span.End()

	if _, err := f.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Password(password)); err != nil {
		if auth.IsUserNotFound(err) {
			return entity.ErrUserNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// Disabled is used when no credentials are configured.
type Disabled struct{}

func (Disabled) GetUserByEmail(context.Context, string) (*entity.IdentityUser, error) {
	return nil, entity.ErrIdentityProviderUnavailable
}

func (Disabled) UpdatePassword(context.Context, string, string) error {
	return entity.ErrIdentityProviderUnavailable
}
