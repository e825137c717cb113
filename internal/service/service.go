// Package service is the operation surface of ucassist. Every operation
// returns a models.Envelope and never an error, failures collapse to code -1.
package service

import (
	"context"
	"errors"
	"fmt"
	"ucassist-backend/internal/auth"
	"ucassist-backend/internal/components/cipher"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/components/telemetry"
	"ucassist-backend/internal/models"
	"ucassist-backend/internal/scrapers/app"
	"ucassist-backend/internal/scrapers/jwxt"
	"ucassist-backend/internal/scrapers/library"
)

const (
	report_login   = "login"
	report_captcha = "captcha"
	report_fetch   = "fetch"
)

// ErrNoCookie is reported when a scraper is called without a session.
var ErrNoCookie = errors.New("no cookie given")

type System string

const (
	SYSTEM_APP  System = "app"
	SYSTEM_SEP  System = "sep"
	SYSTEM_JWXT System = "jwxt"
	SYSTEM_LIB  System = "lib"
)

var Systems = []System{SYSTEM_APP, SYSTEM_SEP, SYSTEM_JWXT, SYSTEM_LIB}

type serviceConfig struct {
	tel     telemetry.API
	session *session.Config
	cipher  *cipher.Cipher
}

type ServiceOption func(cfg *serviceConfig)

func WithTelemetry(tel telemetry.API) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.tel = tel
	}
}

func WithSessionConfig(config session.Config) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.session = &config
	}
}

// WithCipher replaces the embedded gateway key.
func WithCipher(c cipher.Cipher) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.cipher = &c
	}
}

type Service struct {
	chain   auth.Chain
	app     app.Scraper
	jwxt    jwxt.Scraper
	library library.Scraper
	tel     telemetry.API
}

func NewService(options ...ServiceOption) (Service, error) {
	cfg := serviceConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	tel := cfg.tel
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	sessionConfig := session.DefaultConfig()
	if cfg.session != nil {
		sessionConfig = *cfg.session
	}
	var c cipher.Cipher
	if cfg.cipher != nil {
		c = *cfg.cipher
	} else {
		gateway, err := cipher.Gateway()
		if err != nil {
			return Service{}, fmt.Errorf("load gateway key: %w", err)
		}
		c = gateway
	}

	client := session.NewClient(sessionConfig, tel)
	return Service{
		chain:   auth.NewChain(client, c, tel),
		app:     app.NewScraper(client, tel),
		jwxt:    jwxt.NewScraper(client, tel),
		library: library.NewScraper(client, tel),
		tel:     telemetry.NewScopedAPI("service", tel),
	}, nil
}

func fromResult(result auth.Result) models.Envelope {
	if !result.Ok() {
		return models.Failure()
	}
	return models.Success(result.Cookie.String())
}

func (s Service) LoginPortal(ctx context.Context, username, password string) models.Envelope {
	return fromResult(s.chain.LoginPortal(ctx, username, password))
}

func (s Service) LoginGateway(ctx context.Context, username, password, code, initialCookie string) models.Envelope {
	return fromResult(s.chain.LoginGateway(ctx, username, password, code, session.Jar(initialCookie)))
}

func (s Service) LoginTeachingAffairs(ctx context.Context, gatewayCookie string) models.Envelope {
	if gatewayCookie == "" {
		s.tel.ReportWarning(report_login, ErrNoCookie, SYSTEM_JWXT)
		return models.Failure()
	}
	return fromResult(s.chain.LoginTeachingAffairs(ctx, session.Jar(gatewayCookie)))
}

// LoginJwxt logs into the gateway and trades its session for a
// teaching-affairs one. A rejected gateway login stops there.
func (s Service) LoginJwxt(ctx context.Context, username, password, code, initialCookie string) models.Envelope {
	gateway := s.chain.LoginGateway(ctx, username, password, code, session.Jar(initialCookie))
	if !gateway.Ok() {
		return models.Failure()
	}
	return fromResult(s.chain.LoginTeachingAffairs(ctx, gateway.Cookie))
}

func (s Service) LoginLibrary(ctx context.Context) models.Envelope {
	return fromResult(s.chain.LoginLibrary(ctx))
}

// Captcha returns the verification image and its cookie for systems behind
// the gateway. Systems without a verification step get code -1.
func (s Service) Captcha(ctx context.Context, system System) models.Envelope {
	var step auth.Captcha
	switch system {
	case SYSTEM_SEP, SYSTEM_JWXT:
		gateway, err := s.chain.CaptchaGateway(ctx)
		if err != nil {
			return models.Failure()
		}
		step = gateway
	case SYSTEM_APP:
		step = s.chain.CaptchaPortal()
	case SYSTEM_LIB:
		step = s.chain.CaptchaLibrary()
	default:
		s.tel.ReportWarning(report_captcha, fmt.Errorf("unknown system %q", system))
		return models.Failure()
	}

	switch step := step.(type) {
	case auth.CaptchaRequired:
		return models.Success(step)
	case auth.NoVerification:
		return models.Failure()
	default:
		panic(fmt.Sprintf("unknown captcha step %T", step))
	}
}

func fetch[T any](s Service, name, cookie string, run func(session.Jar) (T, error)) models.Envelope {
	if cookie == "" {
		s.tel.ReportWarning(report_fetch, ErrNoCookie, name)
		return models.Failure()
	}
	records, err := run(session.Jar(cookie))
	if err != nil {
		s.tel.ReportDebug(report_fetch, name, err)
		return models.Failure()
	}
	return models.Success(records)
}

func (s Service) FetchCourses(ctx context.Context, cookie string) models.Envelope {
	return fetch(s, "courses", cookie, func(jar session.Jar) ([]models.Course, error) {
		return s.app.Courses(ctx, jar)
	})
}

func (s Service) FetchExams(ctx context.Context, cookie string) models.Envelope {
	return fetch(s, "exams", cookie, func(jar session.Jar) ([]models.Exam, error) {
		return s.app.Exams(ctx, jar)
	})
}

func (s Service) FetchGrades(ctx context.Context, cookie string) models.Envelope {
	return fetch(s, "grades", cookie, func(jar session.Jar) ([]models.Grade, error) {
		return s.jwxt.Grades(ctx, jar)
	})
}

func (s Service) FetchBooks(ctx context.Context, cookie, query string) models.Envelope {
	return fetch(s, "books", cookie, func(jar session.Jar) ([]models.Book, error) {
		return s.library.Books(ctx, jar, query)
	})
}
