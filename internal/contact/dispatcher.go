package contact

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/domain"
)

// Directory resolves the target artisan with its hierarchy chain. Satisfied
// by catalog.Hierarchy.
type Directory interface {
	ResolveChain(ctx context.Context, artisanID uint) (*domain.Artisan, *domain.Specialty, *domain.Category, error)
}

// Receipt is the outcome of an accepted submission. ConfirmationSent is
// false when only the secondary confirmation copy failed; the submission
// still counts as delivered.
type Receipt struct {
	ArtisanCompany   string    `json:"artisanCompany"`
	ArtisanEmail     string    `json:"artisanEmail"`
	Specialty        string    `json:"specialty"`
	SentAt           time.Time `json:"sentAt"`
	ConfirmationSent bool      `json:"confirmationSent"`
}

// Dispatcher validates a contact submission, enforces the per-source quota
// and relays the message plus a confirmation copy. Delivery failures are
// surfaced, never queued or retried.
type Dispatcher struct {
	dir         Directory
	mailer      Mailer
	quota       *Quota
	sendTimeout time.Duration
	log         *zap.Logger
}

func NewDispatcher(dir Directory, mailer Mailer, quota *Quota, sendTimeout time.Duration, log *zap.Logger) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &Dispatcher{dir: dir, mailer: mailer, quota: quota, sendTimeout: sendTimeout, log: log}
}

// Dispatch runs the full flow: validate, resolve the artisan, consume quota,
// send the primary mail, then the confirmation. The primary send failing
// fails the operation; the confirmation failing does not.
func (d *Dispatcher) Dispatch(ctx context.Context, artisanID uint, sub Submission, source string) (*Receipt, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	artisan, specialty, _, err := d.dir.ResolveChain(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	if d.mailer == nil {
		return nil, apperr.Unavailable("mail relay is not configured", nil)
	}

	// Only a deliverable submission counts against the source's quota.
	if err := d.quota.Allow(ctx, source); err != nil {
		return nil, err
	}

	now := time.Now()
	data := mailData{Artisan: artisan, Specialty: specialty.Name, Sender: sub, SentAt: now}

	body, err := renderMail(artisanMailTmpl, data)
	if err != nil {
		return nil, apperr.Internal("render artisan mail", err)
	}
	if err := d.send(ctx, Mail{
		To:      artisan.Email,
		ReplyTo: sub.Email,
		Subject: "[Trouve ton artisan] " + sub.Subject,
		HTML:    body,
	}); err != nil {
		return nil, apperr.Unavailable("send message to artisan", err)
	}

	receipt := &Receipt{
		ArtisanCompany:   artisan.CompanyName,
		ArtisanEmail:     artisan.Email,
		Specialty:        specialty.Name,
		SentAt:           now,
		ConfirmationSent: true,
	}

	confBody, err := renderMail(confirmationMailTmpl, data)
	if err != nil {
		d.log.Warn("render confirmation mail failed", zap.Error(err))
		receipt.ConfirmationSent = false
		return receipt, nil
	}
	if err := d.send(ctx, Mail{
		To:      sub.Email,
		Subject: "Confirmation - votre message à " + artisan.CompanyName,
		HTML:    confBody,
	}); err != nil {
		// Non-fatal: the artisan already has the message.
		d.log.Warn("confirmation mail failed",
			zap.String("to", sub.Email),
			zap.Error(err),
		)
		receipt.ConfirmationSent = false
	}
	return receipt, nil
}

func (d *Dispatcher) send(ctx context.Context, m Mail) error {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return d.mailer.Send(ctx, m)
}
