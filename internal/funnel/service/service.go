// Package service orchestrates the quote wizard: step gates, pricing,
// recovery snapshots, lead capture and the WhatsApp hand-off.
package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	catalogrepo "webexpress_backend/internal/catalog/repository"
	appevents "webexpress_backend/internal/events"
	"webexpress_backend/internal/funnel/domain"
	"webexpress_backend/internal/funnel/recovery"
	"webexpress_backend/internal/funnel/transport"
	leadsdomain "webexpress_backend/internal/leads/domain"
	"webexpress_backend/internal/pricing"
	"webexpress_backend/internal/whatsapp"
	"webexpress_backend/platform/apperr"
	"webexpress_backend/platform/logger"
)

// DiscountProvider resolves the sitewide discount percent in effect.
type DiscountProvider interface {
	ActiveDiscountPercent(ctx context.Context) (int, error)
}

// LeadRecorder persists lead snapshots keyed by session id.
type LeadRecorder interface {
	Record(ctx context.Context, lead leadsdomain.Lead) (leadsdomain.Lead, error)
	GetBySessionID(ctx context.Context, sessionID string) (leadsdomain.Lead, error)
}

// Service provides business logic for the funnel.
type Service struct {
	catalog     catalogrepo.Repository
	discounts   DiscountProvider
	leads       LeadRecorder
	snapshots   *recovery.Store
	bus         appevents.Bus
	log         *logger.Logger
	salesNumber string
}

// New creates a new funnel service.
func New(
	catalog catalogrepo.Repository,
	discounts DiscountProvider,
	leads LeadRecorder,
	snapshots *recovery.Store,
	bus appevents.Bus,
	log *logger.Logger,
	salesNumber string,
) *Service {
	return &Service{
		catalog:     catalog,
		discounts:   discounts,
		leads:       leads,
		snapshots:   snapshots,
		bus:         bus,
		log:         log,
		salesNumber: salesNumber,
	}
}

// resolvedQuote is the loaded catalog data plus the computed breakdown for a
// selection.
type resolvedQuote struct {
	plan     *pricing.Plan
	addons   []pricing.Addon
	timeline *pricing.TimelineOption
	totals   pricing.Totals
}

func (q resolvedQuote) response() transport.QuoteResponse {
	return transport.QuoteResponse{Totals: q.totals, Timeline: q.timeline}
}

// Price recalculates the quote for an arbitrary selection without moving the
// wizard. The pricing panel calls this on every selection change.
func (s *Service) Price(ctx context.Context, req transport.PriceRequest) (transport.QuoteResponse, error) {
	quote, err := s.resolveQuote(ctx, req.PlanID, req.AddonIDs, req.TimelineID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return quote.response(), nil
}

// Advance validates the current step's gate and moves the wizard forward. The
// lead snapshot and recovery snapshot are refreshed best-effort; the step
// transition itself never blocks on them.
func (s *Service) Advance(ctx context.Context, state domain.QuoteState) (transport.StepResponse, error) {
	next, err := domain.Advance(state)
	if err != nil {
		return transport.StepResponse{}, err
	}

	quote, err := s.resolveQuote(ctx, next.PlanID, next.AddonIDs, next.TimelineID)
	if err != nil {
		return transport.StepResponse{}, err
	}

	s.publishStepEvents(ctx, state, next, quote)
	s.recordSnapshot(ctx, next, quote, false)

	return transport.StepResponse{State: next, Quote: quote.response()}, nil
}

// Back moves the wizard one step backwards, keeping all entered data.
func (s *Service) Back(ctx context.Context, state domain.QuoteState) (transport.StepResponse, error) {
	prev, err := domain.Back(state)
	if err != nil {
		return transport.StepResponse{}, err
	}

	quote, err := s.resolveQuote(ctx, prev.PlanID, prev.AddonIDs, prev.TimelineID)
	if err != nil {
		return transport.StepResponse{}, err
	}

	s.bus.Publish(ctx, appevents.StepChanged{
		BaseEvent:     appevents.NewBaseEvent(),
		FunnelContext: funnelContext(prev),
		FromStep:      state.Step,
	})
	s.saveRecoverySnapshot(ctx, prev)

	return transport.StepResponse{State: prev, Quote: quote.response()}, nil
}

// Submit closes the wizard: validates the contact gate, persists the lead and
// builds the WhatsApp hand-off. Persistence failures surface as retryable so
// the client keeps the filled-in form.
func (s *Service) Submit(ctx context.Context, state domain.QuoteState) (transport.SubmitResponse, error) {
	state = state.Normalize()
	if err := domain.ValidateSubmit(state); err != nil {
		return transport.SubmitResponse{}, err
	}

	quote, err := s.resolveQuote(ctx, state.PlanID, state.AddonIDs, state.TimelineID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindUnknown {
			return transport.SubmitResponse{}, apperr.Unavailable("No pudimos calcular tu cotización, intenta de nuevo")
		}
		return transport.SubmitResponse{}, err
	}
	if quote.plan == nil {
		return transport.SubmitResponse{}, apperr.Validation("Selecciona un plan para continuar")
	}

	lead, err := s.leads.Record(ctx, leadFromState(state, quote, true))
	if err != nil {
		s.log.Error("lead persistence failed on submit", "session", state.SessionID, "error", err)
		return transport.SubmitResponse{}, apperr.Unavailable("No pudimos guardar tu cotización, intenta de nuevo")
	}

	summary := whatsapp.QuoteSummary{
		ContactName: state.Name,
		PlanName:    quote.plan.Name,
		PlanPrice:   quote.plan.Price,
		Addons:      quote.addons,
		Timeline:    quote.timeline,
		Totals:      quote.totals,
	}
	message := whatsapp.BuildQuoteMessage(summary)
	link := whatsapp.DeepLink(s.salesNumber, message)

	s.bus.Publish(ctx, appevents.QuoteCompleted{
		BaseEvent:     appevents.NewBaseEvent(),
		FunnelContext: funnelContext(state),
		LeadID:        lead.ID,
		PlanName:      quote.plan.Name,
		ContactName:   state.Name,
		ContactEmail:  state.Email,
		ContactPhone:  state.Phone,
		InitialTotal:  quote.totals.InitialTotal,
		MonthlyTotal:  quote.totals.MonthlyTotal,
		WhatsAppLink:  link,
		Message:       message,
	})

	if err := s.snapshots.Delete(ctx, state.SessionID); err != nil {
		s.log.Warn("recovery snapshot cleanup failed", "session", state.SessionID, "error", err)
	}

	s.log.Info("quote completed",
		"session", state.SessionID,
		"lead", lead.ID,
		"plan", quote.plan.Slug,
		"total", quote.totals.InitialTotal)

	return transport.SubmitResponse{
		LeadID:       lead.ID,
		WhatsAppLink: link,
		Message:      message,
		Quote:        quote.response(),
	}, nil
}

// Abandon records a page-hide beacon. Advisory only: errors are swallowed and
// the endpoint always succeeds for abandonable states.
func (s *Service) Abandon(ctx context.Context, state domain.QuoteState) {
	state = state.Normalize()
	if !domain.IsAbandonable(state) {
		return
	}

	s.bus.Publish(ctx, appevents.QuoteAbandoned{
		BaseEvent:     appevents.NewBaseEvent(),
		FunnelContext: funnelContext(state),
	})

	quote, err := s.resolveQuote(ctx, state.PlanID, state.AddonIDs, state.TimelineID)
	if err != nil {
		s.log.Warn("abandon pricing failed", "session", state.SessionID, "error", err)
		return
	}
	s.recordSnapshot(ctx, state, quote, false)
}

// Recover restores a previous session from its recovery snapshot.
func (s *Service) Recover(ctx context.Context, sessionID string) (transport.RecoverResponse, error) {
	state, err := s.snapshots.Load(ctx, sessionID)
	if err != nil {
		return transport.RecoverResponse{}, err
	}

	quote, err := s.resolveQuote(ctx, state.PlanID, state.AddonIDs, state.TimelineID)
	if err != nil {
		return transport.RecoverResponse{}, err
	}

	return transport.RecoverResponse{State: state, Quote: quote.response()}, nil
}

// WhatsAppQR renders the hand-off link of a completed quote as a PNG QR code
// for visitors finishing on a desktop without WhatsApp.
func (s *Service) WhatsAppQR(ctx context.Context, sessionID string, size int) ([]byte, error) {
	lead, err := s.leads.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !lead.Completed {
		return nil, apperr.NotFound("la cotización no se ha completado")
	}

	quote, err := s.resolveQuote(ctx, lead.PlanID, lead.AddonIDs, lead.TimelineID)
	if err != nil {
		return nil, err
	}
	planName := ""
	planPrice := int64(0)
	if quote.plan != nil {
		planName = quote.plan.Name
		planPrice = quote.plan.Price
	}

	message := whatsapp.BuildQuoteMessage(whatsapp.QuoteSummary{
		ContactName: lead.Name,
		PlanName:    planName,
		PlanPrice:   planPrice,
		Addons:      quote.addons,
		Timeline:    quote.timeline,
		Totals:      quote.totals,
	})
	return whatsapp.QRCodePNG(whatsapp.DeepLink(s.salesNumber, message), size)
}

func (s *Service) resolveQuote(ctx context.Context, planID *uuid.UUID, addonIDs []uuid.UUID, timelineID string) (resolvedQuote, error) {
	discount, err := s.discounts.ActiveDiscountPercent(ctx)
	if err != nil {
		return resolvedQuote{}, err
	}

	var plan *pricing.Plan
	var timeline *pricing.TimelineOption
	var rush *pricing.RushFee
	var addons []pricing.Addon

	// Plan+fees and add-ons come from different tables; load them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if planID == nil || *planID == uuid.Nil {
			return nil
		}
		row, err := s.catalog.GetPlanByID(gctx, *planID)
		if err != nil {
			return err
		}
		plan = &pricing.Plan{Slug: row.Slug, Name: row.Name, Price: row.Price}

		if timelineID == "" {
			return nil
		}
		feeRows, err := s.catalog.ListRushFeesForPlan(gctx, row.Slug)
		if err != nil {
			return err
		}
		fees := toPricingFees(feeRows)
		for _, option := range pricing.ResolveTimelines(plan, fees) {
			if option.TimelineID == timelineID {
				opt := option
				timeline = &opt
				break
			}
		}
		for i := range fees {
			if fees[i].TimelineID == timelineID {
				rush = &fees[i]
				break
			}
		}
		return nil
	})
	g.Go(func() error {
		loaded, err := s.loadAddons(gctx, addonIDs)
		if err != nil {
			return err
		}
		addons = loaded
		return nil
	})
	if err := g.Wait(); err != nil {
		return resolvedQuote{}, err
	}

	return resolvedQuote{
		plan:     plan,
		addons:   addons,
		timeline: timeline,
		totals:   pricing.ComputeTotals(plan, addons, discount, rush),
	}, nil
}

func (s *Service) loadAddons(ctx context.Context, ids []uuid.UUID) ([]pricing.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.catalog.ListAddonsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	addons := make([]pricing.Addon, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		billing := ""
		if row.BillingType != nil {
			billing = *row.BillingType
		}
		addons = append(addons, pricing.Addon{
			ID:      row.ID.String(),
			Name:    row.Name,
			Price:   row.Price,
			Billing: billing,
		})
	}
	return addons, nil
}

func (s *Service) publishStepEvents(ctx context.Context, from, to domain.QuoteState, quote resolvedQuote) {
	base := appevents.NewBaseEvent()

	if from.Step == domain.StepPlan {
		s.bus.Publish(ctx, appevents.QuoteStarted{BaseEvent: base, FunnelContext: funnelContext(from)})
		if quote.plan != nil {
			s.bus.Publish(ctx, appevents.PlanSelected{
				BaseEvent:     base,
				FunnelContext: funnelContext(to),
				PlanSlug:      quote.plan.Slug,
			})
		}
	}
	if from.Step == domain.StepTimeline {
		s.bus.Publish(ctx, appevents.TimelineSelected{BaseEvent: base, FunnelContext: funnelContext(to)})
	}
	if from.Step == domain.StepAddons && len(to.AddonIDs) > 0 {
		s.bus.Publish(ctx, appevents.AddonChanged{BaseEvent: base, FunnelContext: funnelContext(to)})
	}

	s.bus.Publish(ctx, appevents.StepChanged{
		BaseEvent:     base,
		FunnelContext: funnelContext(to),
		FromStep:      from.Step,
	})
}

// recordSnapshot refreshes the lead row and the recovery snapshot. Both are
// best-effort for partial states.
func (s *Service) recordSnapshot(ctx context.Context, state domain.QuoteState, quote resolvedQuote, completed bool) {
	if _, err := s.leads.Record(ctx, leadFromState(state, quote, completed)); err != nil {
		s.log.Warn("partial lead write failed", "session", state.SessionID, "error", err)
	}
	s.saveRecoverySnapshot(ctx, state)
}

func (s *Service) saveRecoverySnapshot(ctx context.Context, state domain.QuoteState) {
	if err := s.snapshots.Save(ctx, state); err != nil {
		s.log.Warn("recovery snapshot write failed", "session", state.SessionID, "error", err)
	}
}

func leadFromState(state domain.QuoteState, quote resolvedQuote, completed bool) leadsdomain.Lead {
	return leadsdomain.Lead{
		SessionID:    state.SessionID,
		Fingerprint:  state.Fingerprint,
		Name:         state.Name,
		Email:        state.Email,
		Phone:        state.Phone,
		Message:      state.Message,
		PlanID:       state.PlanID,
		AddonIDs:     state.AddonIDs,
		TimelineID:   state.TimelineID,
		StepReached:  state.Step,
		Completed:    completed,
		InitialTotal: quote.totals.InitialTotal,
		MonthlyTotal: quote.totals.MonthlyTotal,
	}
}

func funnelContext(state domain.QuoteState) appevents.FunnelContext {
	addonIDs := make([]string, 0, len(state.AddonIDs))
	for _, id := range state.AddonIDs {
		addonIDs = append(addonIDs, id.String())
	}
	return appevents.FunnelContext{
		SessionID:   state.SessionID,
		Fingerprint: state.Fingerprint,
		Step:        state.Step,
		PlanID:      state.PlanID,
		AddonIDs:    addonIDs,
		TimelineID:  state.TimelineID,
	}
}

func toPricingFees(fees []catalogrepo.RushFee) []pricing.RushFee {
	out := make([]pricing.RushFee, 0, len(fees))
	for _, fee := range fees {
		out = append(out, pricing.RushFee{
			TimelineID:      fee.TimelineID,
			DisplayName:     fee.DisplayName,
			MarkupPercent:   fee.MarkupPercent,
			MarkupFixed:     fee.MarkupFixed,
			DeliveryDaysMin: fee.DeliveryDaysMin,
			DeliveryDaysMax: fee.DeliveryDaysMax,
			DisplayOrder:    fee.DisplayOrder,
		})
	}
	return out
}
