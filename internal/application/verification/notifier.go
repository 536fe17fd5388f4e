package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-idverify-api/internal/domain"
)

type emailSender interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// OpsNotifier tells the operations team that a record finished verification,
// by email and SMS. Both channels are best-effort: a delivery failure is
// logged and never surfaces to the submitting user.
type OpsNotifier struct {
	mailer emailSender
	sms    smsSender
	email  string
	phone  string
}

func NewOpsNotifier(mailer emailSender, sms smsSender, email, phone string) *OpsNotifier {
	return &OpsNotifier{mailer: mailer, sms: sms, email: email, phone: phone}
}

func (n *OpsNotifier) VerifiedNotice(ctx context.Context, u *domain.User) {
	msg := fmt.Sprintf("User %s completed identity verification.", u.Email)
	if n.mailer != nil && n.email != "" {
		if err := n.mailer.SendEmail(n.email, "Verification completed", msg); err != nil {
			slog.Warn("ops email notice failed", "email", u.Email, "err", err)
		}
	}
	if n.sms != nil && n.phone != "" {
		if err := n.sms.SendSMS(ctx, n.phone, msg); err != nil {
			slog.Warn("ops sms notice failed", "email", u.Email, "err", err)
		}
	}
}
