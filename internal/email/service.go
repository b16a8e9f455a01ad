package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/surveypool/search-api/internal/config"
	"github.com/surveypool/search-api/internal/model"
)

type Service interface {
	SendPurchaseReceipt(ctx context.Context, to string, purchase *model.PurchaseRecord, pkg *model.PointPackage) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.EmailConfig) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendPurchaseReceipt(ctx context.Context, to string, purchase *model.PurchaseRecord, pkg *model.PointPackage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Receipt for %s", pkg.Label))
	m.SetBody("text/plain", fmt.Sprintf(
		"Your purchase of %s is complete.\n\nPoints credited: %d\nAmount: $%d.%02d\nPurchase id: %s\n",
		pkg.Label,
		pkg.PointsGranted,
		purchase.AmountCents/100,
		purchase.AmountCents%100,
		purchase.ID,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}
	return nil
}
