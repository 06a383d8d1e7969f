// Package notification tells the sales team about completed quotes: an email
// to the sales inbox and, when a gateway is configured, a WhatsApp alert to
// the sales number.
package notification

import (
	"context"
	"fmt"

	"webexpress_backend/internal/email"
	appevents "webexpress_backend/internal/events"
	"webexpress_backend/internal/whatsapp"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"
)

// Module subscribes to quote completions and fans out notifications.
type Module struct {
	sender      email.Sender
	wa          *whatsapp.Client
	salesNumber string
	log         *logger.Logger
}

// NewModule creates the notification module and subscribes it to the bus.
func NewModule(bus appevents.Bus, cfg *config.Config, log *logger.Logger) *Module {
	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("lead notification email disabled")
	}

	m := &Module{
		sender:      sender,
		wa:          whatsapp.NewClient(cfg, log),
		salesNumber: cfg.GetWhatsAppNumber(),
		log:         log,
	}

	bus.Subscribe(appevents.QuoteCompleted{}.EventName(), appevents.HandlerFunc(m.onQuoteCompleted))
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

func (m *Module) onQuoteCompleted(ctx context.Context, event appevents.Event) error {
	completed, ok := event.(appevents.QuoteCompleted)
	if !ok {
		return nil
	}

	notification := email.LeadNotification{
		ContactName:  completed.ContactName,
		ContactEmail: completed.ContactEmail,
		ContactPhone: completed.ContactPhone,
		PlanName:     completed.PlanName,
		InitialTotal: fmt.Sprintf("$%d MXN", completed.InitialTotal),
		MonthlyTotal: fmt.Sprintf("$%d MXN", completed.MonthlyTotal),
		WhatsAppLink: completed.WhatsAppLink,
		Message:      completed.Message,
	}

	if err := m.sender.SendLeadNotification(ctx, notification); err != nil {
		m.log.Error("lead notification email failed", "lead", completed.LeadID, "error", err)
	}

	if m.wa != nil {
		alert := fmt.Sprintf("Nueva cotización de %s (%s), total inicial $%d MXN. Contacto: %s",
			completed.ContactName, completed.PlanName, completed.InitialTotal, completed.ContactPhone)
		if err := m.wa.SendMessage(ctx, m.salesNumber, alert); err != nil {
			m.log.Warn("sales whatsapp alert failed", "lead", completed.LeadID, "error", err)
		}
	}

	return nil
}
