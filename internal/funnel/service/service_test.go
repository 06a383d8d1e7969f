package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	catalogrepo "webexpress_backend/internal/catalog/repository"
	appevents "webexpress_backend/internal/events"
	"webexpress_backend/internal/funnel/domain"
	"webexpress_backend/internal/funnel/recovery"
	"webexpress_backend/internal/funnel/transport"
	leadsdomain "webexpress_backend/internal/leads/domain"
	"webexpress_backend/platform/apperr"
	"webexpress_backend/platform/logger"
)

type fakeCatalog struct {
	catalogrepo.Repository

	plans  map[uuid.UUID]catalogrepo.Plan
	addons map[uuid.UUID]catalogrepo.Addon
	fees   map[string][]catalogrepo.RushFee
}

func (f *fakeCatalog) GetPlanByID(_ context.Context, id uuid.UUID) (catalogrepo.Plan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return catalogrepo.Plan{}, apperr.NotFound("plan no encontrado")
	}
	return plan, nil
}

func (f *fakeCatalog) ListRushFeesForPlan(_ context.Context, slug string) ([]catalogrepo.RushFee, error) {
	return f.fees[slug], nil
}

func (f *fakeCatalog) ListAddonsByIDs(_ context.Context, ids []uuid.UUID) ([]catalogrepo.Addon, error) {
	var out []catalogrepo.Addon
	for _, id := range ids {
		if addon, ok := f.addons[id]; ok {
			out = append(out, addon)
		}
	}
	return out, nil
}

type fakeDiscounts struct {
	percent int
}

func (f fakeDiscounts) ActiveDiscountPercent(context.Context) (int, error) {
	return f.percent, nil
}

type fakeLeads struct {
	mu    sync.Mutex
	byID  map[string]leadsdomain.Lead
	calls int
}

func (f *fakeLeads) Record(_ context.Context, lead leadsdomain.Lead) (leadsdomain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byID == nil {
		f.byID = make(map[string]leadsdomain.Lead)
	}
	if existing, ok := f.byID[lead.SessionID]; ok {
		lead = leadsdomain.Merge(existing, lead)
		lead.ID = existing.ID
	} else {
		lead.ID = uuid.New()
	}
	f.byID[lead.SessionID] = lead
	f.calls++
	return lead, nil
}

func (f *fakeLeads) GetBySessionID(_ context.Context, sessionID string) (leadsdomain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.byID[sessionID]
	if !ok {
		return leadsdomain.Lead{}, apperr.NotFound("lead no encontrado")
	}
	return lead, nil
}

// recordingBus dispatches synchronously so tests can assert on published
// events without sleeping.
type recordingBus struct {
	mu     sync.Mutex
	events []appevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event appevents.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event appevents.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, appevents.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

type fixture struct {
	svc       *Service
	bus       *recordingBus
	leads     *fakeLeads
	snapshots *recovery.Store
	planID    uuid.UUID
	addonID   uuid.UUID
}

func newFixture(t *testing.T, discount int) *fixture {
	t.Helper()

	planID := uuid.New()
	addonID := uuid.New()
	catalog := &fakeCatalog{
		plans: map[uuid.UUID]catalogrepo.Plan{
			planID: {ID: planID, Slug: "business", Name: "Business", Price: 8990, IsActive: true},
		},
		addons: map[uuid.UUID]catalogrepo.Addon{
			addonID: {ID: addonID, Slug: "seo-mensual", Name: "SEO mensual", Price: 990, BillingType: strPtr("monthly"), IsActive: true},
		},
		fees: map[string][]catalogrepo.RushFee{
			"business": {
				{
					ID:              uuid.New(),
					PlanSlug:        "business",
					TimelineID:      "urgent",
					DisplayName:     "Entrega urgente",
					MarkupPercent:   30,
					DeliveryDaysMin: intPtr(1),
					DeliveryDaysMax: intPtr(3),
					IsActive:        true,
				},
			},
		},
	}

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	snapshots := recovery.New(redisClient, 7*24*time.Hour)

	bus := &recordingBus{}
	leads := &fakeLeads{}
	svc := New(catalog, fakeDiscounts{percent: discount}, leads, snapshots, bus, logger.New("test"), "+52 55 1234 5678")

	return &fixture{
		svc:       svc,
		bus:       bus,
		leads:     leads,
		snapshots: snapshots,
		planID:    planID,
		addonID:   addonID,
	}
}

func TestAdvanceFromPlanStep(t *testing.T) {
	f := newFixture(t, 0)

	state := domain.QuoteState{
		SessionID: "sess-advance-1",
		Step:      domain.StepPlan,
		PlanID:    &f.planID,
	}

	resp, err := f.svc.Advance(context.Background(), state)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if resp.State.Step != domain.StepTimeline {
		t.Fatalf("Step = %d, want %d", resp.State.Step, domain.StepTimeline)
	}
	if resp.Quote.Totals.InitialTotal != 8990 {
		t.Fatalf("InitialTotal = %d, want 8990", resp.Quote.Totals.InitialTotal)
	}

	names := f.bus.names()
	want := []string{"funnel.quote.started", "funnel.plan.selected", "funnel.step.changed"}
	if len(names) != len(want) {
		t.Fatalf("published %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("event[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	// Partial lead and recovery snapshot are written on every advance.
	if f.leads.calls != 1 {
		t.Fatalf("lead writes = %d, want 1", f.leads.calls)
	}
	saved, err := f.snapshots.Load(context.Background(), "sess-advance-1")
	if err != nil {
		t.Fatalf("snapshot Load() error = %v", err)
	}
	if saved.Step != domain.StepTimeline {
		t.Fatalf("snapshot Step = %d, want %d", saved.Step, domain.StepTimeline)
	}
}

func TestAdvanceRejectsMissingPlan(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.Advance(context.Background(), domain.QuoteState{
		SessionID: "sess-gate",
		Step:      domain.StepPlan,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation", apperr.GetKind(err))
	}
	if len(f.bus.names()) != 0 {
		t.Fatalf("gate failure must not publish events, got %v", f.bus.names())
	}
}

func TestPriceAppliesDiscountAndRush(t *testing.T) {
	f := newFixture(t, 10)

	resp, err := f.svc.Price(context.Background(), transport.PriceRequest{
		PlanID:     &f.planID,
		AddonIDs:   []uuid.UUID{f.addonID},
		TimelineID: "urgent",
	})
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}

	totals := resp.Totals
	// 30% rush on 8990 rounds to 2697.
	if totals.RushFeeAmount != 2697 {
		t.Fatalf("RushFeeAmount = %d, want 2697", totals.RushFeeAmount)
	}
	if totals.InitialSubtotal != 8990+2697 {
		t.Fatalf("InitialSubtotal = %d, want %d", totals.InitialSubtotal, 8990+2697)
	}
	if totals.InitialSubtotal-totals.InitialDiscount != totals.InitialTotal {
		t.Fatalf("discount invariant broken: %d - %d != %d",
			totals.InitialSubtotal, totals.InitialDiscount, totals.InitialTotal)
	}
	if totals.MonthlySubtotal != 990 {
		t.Fatalf("MonthlySubtotal = %d, want 990", totals.MonthlySubtotal)
	}
	if resp.Timeline == nil || resp.Timeline.TimelineID != "urgent" {
		t.Fatalf("Timeline = %+v, want urgent", resp.Timeline)
	}
}

func TestSubmitCompletesQuote(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	state := domain.QuoteState{
		SessionID:  "sess-submit",
		Step:       domain.StepContact,
		PlanID:     &f.planID,
		AddonIDs:   []uuid.UUID{f.addonID},
		TimelineID: "urgent",
		Name:       "Ana García",
		Email:      "ana@example.com",
		Phone:      "+52 55 9876 5432",
	}
	if err := f.snapshots.Save(ctx, state); err != nil {
		t.Fatalf("snapshot Save() error = %v", err)
	}

	resp, err := f.svc.Submit(ctx, state)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.LeadID == uuid.Nil {
		t.Fatal("LeadID must be set")
	}
	if !strings.HasPrefix(resp.WhatsAppLink, "https://wa.me/525512345678?text=") {
		t.Fatalf("WhatsAppLink = %q", resp.WhatsAppLink)
	}
	if !strings.Contains(resp.Message, "Business") {
		t.Fatalf("message missing plan name: %q", resp.Message)
	}

	lead, err := f.leads.GetBySessionID(ctx, "sess-submit")
	if err != nil {
		t.Fatalf("GetBySessionID() error = %v", err)
	}
	if !lead.Completed {
		t.Fatal("lead must be marked completed")
	}

	// Submit clears the recovery snapshot.
	if _, err := f.snapshots.Load(ctx, "sess-submit"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("snapshot should be gone, got err = %v", err)
	}

	names := f.bus.names()
	if len(names) != 1 || names[0] != "funnel.quote.completed" {
		t.Fatalf("published %v, want [funnel.quote.completed]", names)
	}
	completed, ok := f.bus.events[0].(appevents.QuoteCompleted)
	if !ok {
		t.Fatalf("event type = %T", f.bus.events[0])
	}
	if completed.InitialTotal != resp.Quote.Totals.InitialTotal {
		t.Fatalf("event total = %d, want %d", completed.InitialTotal, resp.Quote.Totals.InitialTotal)
	}
}

func TestSubmitRejectsIncompleteContact(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.Submit(context.Background(), domain.QuoteState{
		SessionID: "sess-bad",
		Step:      domain.StepContact,
		PlanID:    &f.planID,
		Name:      "A",
		Email:     "ana@example.com",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestRecoverRoundTrip(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	state := domain.QuoteState{
		SessionID: "sess-recover",
		Step:      domain.StepAddons,
		PlanID:    &f.planID,
		Phone:     "5512345678",
	}
	if err := f.snapshots.Save(ctx, state); err != nil {
		t.Fatalf("snapshot Save() error = %v", err)
	}

	resp, err := f.svc.Recover(ctx, "sess-recover")
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if resp.State.Step != domain.StepAddons {
		t.Fatalf("Step = %d, want %d", resp.State.Step, domain.StepAddons)
	}
	if resp.Quote.Totals.InitialTotal != 8990 {
		t.Fatalf("InitialTotal = %d, want 8990", resp.Quote.Totals.InitialTotal)
	}

	if _, err := f.svc.Recover(ctx, "sess-unknown"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("unknown session kind = %v, want not found", apperr.GetKind(err))
	}
}

func TestAbandonIgnoresEmptyState(t *testing.T) {
	f := newFixture(t, 0)

	f.svc.Abandon(context.Background(), domain.QuoteState{
		SessionID: "sess-empty",
		Step:      domain.StepPlan,
	})
	if len(f.bus.names()) != 0 {
		t.Fatalf("empty abandon must not publish, got %v", f.bus.names())
	}

	f.svc.Abandon(context.Background(), domain.QuoteState{
		SessionID: "sess-partial",
		Step:      domain.StepTimeline,
		PlanID:    &f.planID,
	})
	names := f.bus.names()
	if len(names) == 0 || names[0] != "funnel.quote.abandoned" {
		t.Fatalf("published %v, want funnel.quote.abandoned first", names)
	}
}

func TestWhatsAppQRRequiresCompletedLead(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	if _, err := f.leads.Record(ctx, leadsdomain.Lead{
		SessionID:   "sess-qr",
		PlanID:      &f.planID,
		StepReached: domain.StepAddons,
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if _, err := f.svc.WhatsAppQR(ctx, "sess-qr", 256); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("incomplete lead kind = %v, want not found", apperr.GetKind(err))
	}

	if _, err := f.leads.Record(ctx, leadsdomain.Lead{
		SessionID:   "sess-qr",
		Name:        "Ana García",
		Email:       "ana@example.com",
		Phone:       "5512345678",
		PlanID:      &f.planID,
		StepReached: domain.StepContact,
		Completed:   true,
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	png, err := f.svc.WhatsAppQR(ctx, "sess-qr", 256)
	if err != nil {
		t.Fatalf("WhatsAppQR() error = %v", err)
	}
	if len(png) < 8 || png[0] != 0x89 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Fatal("result is not a PNG")
	}
}
