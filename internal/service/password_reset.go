package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/logging"
	"github.com/iliyamo/escape-room-booking/internal/mail"
	"github.com/iliyamo/escape-room-booking/internal/metrics"
	"github.com/iliyamo/escape-room-booking/internal/repository"
	"github.com/iliyamo/escape-room-booking/internal/utils"
)

// DefaultResetTTL is how long a reset secret stays usable.
const DefaultResetTTL = 30 * time.Minute

// ForgotPasswordMessage is returned for every well-formed request, whether
// or not the email belongs to an account.
const ForgotPasswordMessage = "if the email exists, a reset link has been sent"

// PasswordResetConfig carries the settings of the reset flow.
type PasswordResetConfig struct {
	TTL         time.Duration
	FrontendURL string
	MailTimeout time.Duration
	BcryptCost  int
}

// PasswordResetService is the reset token ledger's business side.
type PasswordResetService struct {
	users   UserStore
	ledger  ResetLedger
	mailer  mail.Sender
	metrics *metrics.Metrics
	cfg     PasswordResetConfig
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewPasswordResetService(users UserStore, ledger ResetLedger, mailer mail.Sender, m *metrics.Metrics, cfg PasswordResetConfig) *PasswordResetService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultResetTTL
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 5 * time.Second
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &PasswordResetService{users: users, ledger: ledger, mailer: mailer, metrics: m, cfg: cfg, now: time.Now}
}

// RequestReset issues a new reset secret for the account behind email, if
// there is one, and mails its link in the background.  The outcome is the
// same for unknown emails.  Mail failures are logged and never returned.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Validation("email is required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperr.Internal("load user", err)
	}

	secret, hash, err := utils.NewResetSecret()
	if err != nil {
		return apperr.Internal("generate reset secret", err)
	}
	now := s.now().UTC()
	if _, err := s.ledger.Issue(ctx, u.ID, hash, now.Add(s.cfg.TTL), now); err != nil {
		return apperr.Internal("issue reset token", err)
	}
	s.metrics.ResetRequested()

	s.deliver(ctx, u.Email, s.ResetURL(secret))
	return nil
}

// deliver makes one bounded attempt on its own goroutine, so the response
// does not wait on the mail server.  It is detached from the request's
// cancellation so a client hanging up does not abort the send.
func (s *PasswordResetService) deliver(ctx context.Context, to, resetURL string) {
	if s.mailer == nil {
		return
	}
	log := logging.FromContext(ctx)
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.MailTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		if err := s.mailer.SendPasswordReset(mctx, to, resetURL); err != nil {
			s.metrics.MailFailed()
			log.Warn().Err(err).Msg("password reset mail not delivered")
		}
	}()
}

// Wait blocks until every reset mail already handed off has been sent or
// has failed.
func (s *PasswordResetService) Wait() {
	s.wg.Wait()
}

// ResetURL builds the link mailed to the user.
func (s *PasswordResetService) ResetURL(secret string) string {
	return s.cfg.FrontendURL + "/reset-password?token=" + url.QueryEscape(secret)
}

// ResetPassword consumes secret and sets newPassword.  The password policy
// is checked before the ledger is touched; an unknown, used or expired
// secret is InvalidToken.
func (s *PasswordResetService) ResetPassword(ctx context.Context, secret, newPassword string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" || newPassword == "" {
		return apperr.Validation("token and password are required")
	}
	if err := utils.CheckPassword(newPassword); err != nil {
		return apperr.Validation(err.Error())
	}

	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	_, err = s.ledger.Consume(ctx, utils.HashSecret(secret), hash, s.now().UTC())
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrStaleState):
		return apperr.InvalidToken("invalid or expired token")
	case err != nil:
		return apperr.Internal("consume reset token", err)
	}
	s.metrics.ResetConsumed()
	return nil
}
