package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
	"github.com/shandysiswandi/estatenotify/internal/identity/outbound/firebase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/clock"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goroutine"
	"github.com/shandysiswandi/estatenotify/internal/pkg/idempotency"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/mail"
	"github.com/shandysiswandi/estatenotify/internal/pkg/messaging"
	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
	"github.com/shandysiswandi/estatenotify/internal/pkg/sms"
	"github.com/shandysiswandi/estatenotify/internal/pkg/uid"
	"github.com/shandysiswandi/estatenotify/internal/pkg/validator"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
	a.modules = enabledModules(cfg)
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		Modules:          a.modules,
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

// initCache connects redis when redis.url is set. Without it consumer
// deduplication is off and redelivered events are processed again.
func (a *App) initCache() {
	url := strings.TrimSpace(a.config.GetString("redis.url"))
	if url == "" {
		slog.Warn("redis is not configured, notification deduplication is disabled")
		a.idemp = idempotency.Disabled{}
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn, a.config.GetString("redis.idempotency_prefix"))
}

func (a *App) initMail() {
	host := strings.TrimSpace(a.config.GetString("mail.host"))
	if host == "" {
		slog.Warn("mail is not configured, email sending is disabled")
		a.mail = mail.Disabled{}
		return
	}

	m, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     host,
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
		FromName: a.config.GetString("mail.from_name"),
		TLS:      a.config.GetBool("mail.tls"),
		Timeout:  a.config.GetSecond("mail.timeout_seconds"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = m
	a.mailConfigured = true
}

func (a *App) initSMS() {
	sid := strings.TrimSpace(a.config.GetString("sms.twilio.account_sid"))
	if sid == "" {
		slog.Warn("twilio is not configured, sms sending is disabled")
		a.sms = sms.Disabled{}
		return
	}

	t, err := sms.NewTwilio(sms.TwilioConfig{
		AccountSID: sid,
		AuthToken:  a.config.GetString("sms.twilio.auth_token"),
		From:       a.config.GetString("sms.twilio.from"),
	})
	if err != nil {
		slog.Error("failed to init sms", "error", err)
		os.Exit(1)
	}

	a.sms = t
	a.smsConfigured = true
}

func (a *App) initIdentityProvider() {
	cfg := firebase.Config{
		CredentialsFile: strings.TrimSpace(a.config.GetString("firebase.credentials_file")),
		CredentialsJSON: string(a.config.GetBinary("firebase.credentials_json")),
		ProjectID:       strings.TrimSpace(a.config.GetString("firebase.project_id")),
		Timeout:         a.config.GetSecond("firebase.timeout_seconds"),
	}
	if !cfg.Configured() {
		slog.Warn("firebase is not configured, password reset is unavailable")
		a.identityProvider = firebase.Disabled{}
		return
	}

	fb, err := firebase.New(a.ctx, cfg, a.ins)
	if err != nil {
		slog.Error("failed to init firebase", "error", err)
		os.Exit(1)
	}

	a.identityProvider = fb
	a.identityProviderConfigured = true
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")

	opts := messaging.FactoryOptions{
		Local: messaging.LocalConfig{
			Buffer:          a.config.GetInt("messaging.local.buffer"),
			MaxAttempts:     a.config.GetInt("messaging.local.max_attempts"),
			RedeliveryDelay: a.config.GetMillisecond("messaging.local.redelivery_delay_ms"),
		},
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
			ProducerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				if v := a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds"); v > 0 {
					cfg.DialTimeout = v
				}
				if v := a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds"); v > 0 {
					cfg.WriteTimeout = v
				}
				return cfg
			}(),
			ConsumerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				if v := a.config.GetInt("messaging.nsq.consumer_config.max_in_flight"); v > 0 {
					cfg.MaxInFlight = v
				}
				if v := a.config.GetInt("messaging.nsq.consumer_config.max_attempts"); v > 0 {
					cfg.MaxAttempts = uint16(v) //nolint:gosec // small config value
				}
				if v := a.config.GetSecond("messaging.nsq.consumer_config.lookupd_poll_interval_seconds"); v > 0 {
					cfg.LookupdPollInterval = v
				}
				if v := a.config.GetSecond("messaging.nsq.consumer_config.default_requeue_delay_seconds"); v > 0 {
					cfg.DefaultRequeueDelay = v
				}
				return cfg
			}(),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
			Dialer: &kafka.Dialer{
				ClientID:  a.config.GetString("messaging.kafka.client_id"),
				Timeout:   10 * time.Second,
				DualStack: true,
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID: a.config.GetString("messaging.pubsub.project_id"),
		},
	}

	if driver == messaging.DriverGooglePubSub {
		if v := a.config.GetBinary("messaging.pubsub.credentials_json"); len(v) > 0 {
			creds, err := google.CredentialsFromJSON(a.ctx, v, "https://www.googleapis.com/auth/pubsub")
			if err != nil {
				slog.Error("failed to parse pubsub credentials json", "error", err)
				os.Exit(1)
			}
			opts.PubSub.ClientOptions = append(opts.PubSub.ClientOptions, option.WithCredentials(creds))
		}
		if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.endpoint")); v != "" {
			opts.PubSub.ClientOptions = append(opts.PubSub.ClientOptions,
				option.WithEndpoint(v), option.WithoutAuthentication())
		}
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, opts)
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "SMS",
			fn: func(context.Context) error {
				return a.sms.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
