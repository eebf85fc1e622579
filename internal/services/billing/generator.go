package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"society-billing-backend/internal/logger"
	"society-billing-backend/internal/metrics"
	"society-billing-backend/internal/models"
	"society-billing-backend/internal/money"
	"society-billing-backend/internal/repository"
)

const maxConflictRetries = 3

// MemberSource is the member roster.
type MemberSource interface {
	List(ctx context.Context, activeOnly bool) ([]models.Member, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Member, error)
}

// ChargeCatalog supplies the standard charges billed every month.
type ChargeCatalog interface {
	Active(ctx context.Context) ([]models.StandardCharge, error)
}

// Request is one billing run as submitted by an administrator.
type Request struct {
	Month       string
	Year        string
	StartNumber string
	IncludeAll  bool
	MemberIDs   []uuid.UUID
}

// ManifestEntry describes one created invoice.
type ManifestEntry struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	MemberName    string
	Flat          string
	Email         string
	Total         decimal.Decimal
}

type Result struct {
	RunID      uuid.UUID
	Period     Period
	Invoices   []ManifestEntry
	Skipped    []models.SkippedMember
	Considered int
}

func (r *Result) Count() int {
	return len(r.Invoices)
}

func (r *Result) Message() string {
	msg := fmt.Sprintf("Generated %d invoice(s) for %s", r.Count(), r.Period)
	if n := len(r.Skipped); n > 0 {
		msg += fmt.Sprintf(", %d of %d member(s) skipped", n, r.Considered)
	}
	return msg
}

type Generator struct {
	db        *gorm.DB
	members   MemberSource
	charges   ChargeCatalog
	invoices  *repository.InvoiceRepository
	runs      *repository.BillingRunRepository
	allocator *Allocator
	dueDay    int
	now       func() time.Time
	log       zerolog.Logger
}

func NewGenerator(
	db *gorm.DB,
	members MemberSource,
	charges ChargeCatalog,
	invoices *repository.InvoiceRepository,
	runs *repository.BillingRunRepository,
	allocator *Allocator,
	dueDay int,
) *Generator {
	return &Generator{
		db:        db,
		members:   members,
		charges:   charges,
		invoices:  invoices,
		runs:      runs,
		allocator: allocator,
		dueDay:    dueDay,
		now:       time.Now,
		log:       logger.WithComponent("billing"),
	}
}

// WithClock overrides the time source used for timestamps.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Allocator exposes the number allocator for read-only previews.
func (g *Generator) Allocator() *Allocator {
	return g.allocator
}

// chargeSnapshot is the catalog frozen at run start.
type chargeSnapshot struct {
	charges []models.StandardCharge
	total   decimal.Decimal
}

func snapshotCharges(charges []models.StandardCharge) chargeSnapshot {
	snap := chargeSnapshot{charges: make([]models.StandardCharge, len(charges))}
	amounts := make([]decimal.Decimal, 0, len(charges))
	for i, c := range charges {
		c.Amount = money.Round(c.Amount)
		snap.charges[i] = c
		amounts = append(amounts, c.Amount)
	}
	snap.total = money.Sum(amounts...)
	return snap
}

func (s chargeSnapshot) items() []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, len(s.charges))
	for _, c := range s.charges {
		items = append(items, models.InvoiceItem{
			ID:          uuid.New(),
			Description: c.Description,
			Amount:      c.Amount,
		})
	}
	return items
}

// Generate runs one billing run. Validation failures return before anything
// is written. Members that cannot be billed are skipped and listed in the
// result; the run carries on without them.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	period, err := ParsePeriod(req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	start, err := ParseStartNumber(req.StartNumber)
	if err != nil {
		return nil, err
	}
	if !req.IncludeAll && len(req.MemberIDs) == 0 {
		return nil, ErrNoMembersSelected
	}

	charges, err := g.charges.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load charge catalog: %w", err)
	}
	if len(charges) == 0 {
		return nil, ErrNoActiveCharges
	}
	snapshot := snapshotCharges(charges)

	members, notFound, err := g.selectMembers(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	// An abandoned request must not leave the rest of the roster unbilled halfway.
	ctx = context.WithoutCancel(ctx)

	timer := prometheus.NewTimer(metrics.BillingRunDuration)
	defer timer.ObserveDuration()

	run := &models.BillingRun{
		ID:              uuid.New(),
		Month:           period.Month,
		Year:            period.Year,
		StartNumber:     start,
		Status:          models.RunProcessing,
		ConsideredCount: len(members) + len(notFound),
		StartedAt:       g.now().UTC(),
	}
	if err := g.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create billing run: %w", err)
	}

	result := &Result{
		RunID:      run.ID,
		Period:     period,
		Invoices:   []ManifestEntry{},
		Skipped:    []models.SkippedMember{},
		Considered: run.ConsideredCount,
	}
	for _, id := range notFound {
		result.skip(g.log, models.Member{ID: id}, SkipNotFound)
	}

	log := g.log.With().Str("run_id", run.ID.String()).Str("period", period.String()).Logger()
	log.Info().Int("members", len(members)).Int("charges", len(snapshot.charges)).
		Str("total_per_member", snapshot.total.StringFixed(money.Places)).
		Msg("billing run started")

	floor := start
	for _, m := range members {
		if reason := skipReason(m, req.IncludeAll); reason != "" {
			result.skip(log, m, reason)
			continue
		}

		inv, err := g.billMember(ctx, run, period, m, snapshot, floor)
		if errors.Is(err, ErrSequenceConflict) {
			g.finish(ctx, run, result, err)
			return result, err
		}
		if err != nil {
			log.Error().Err(err).Str("member_id", m.ID.String()).Msg("failed to persist invoice, skipping member")
			result.skip(log, m, SkipPersistFailed)
			continue
		}

		metrics.InvoicesGenerated.Inc()
		result.Invoices = append(result.Invoices, ManifestEntry{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			MemberName:    m.Name,
			Flat:          inv.Flat,
			Email:         inv.Email,
			Total:         inv.TotalAmount,
		})
		floor = inv.Sequence + 1
	}

	g.finish(ctx, run, result, nil)
	log.Info().Int("billed", result.Count()).Int("skipped", len(result.Skipped)).Msg("billing run completed")
	return result, nil
}

// selectMembers returns the members to bill in roster order, plus requested
// IDs that do not exist.
func (g *Generator) selectMembers(ctx context.Context, req Request) ([]models.Member, []uuid.UUID, error) {
	if req.IncludeAll {
		members, err := g.members.List(ctx, true)
		return members, nil, err
	}

	seen := make(map[uuid.UUID]bool, len(req.MemberIDs))
	ids := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, id := range req.MemberIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	members, err := g.members.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	found := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		found[m.ID] = true
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return members, missing, nil
}

func skipReason(m models.Member, includeAll bool) string {
	switch {
	case !includeAll && !m.Active:
		return SkipInactive
	case m.Billable():
		return ""
	case strings.TrimSpace(m.Flat) == "":
		return SkipMissingFlat
	}
	return SkipMissingEmail
}

// billMember writes one invoice with its items. The number is allocated in
// the same transaction, so a failed write leaves no gap and no orphan rows.
func (g *Generator) billMember(ctx context.Context, run *models.BillingRun, period Period, m models.Member, snap chargeSnapshot, floor int64) (*models.Invoice, error) {
	for attempt := 0; ; attempt++ {
		var inv *models.Invoice
		err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			n, err := g.allocator.Next(ctx, tx, period.Year, floor)
			if err != nil {
				return err
			}
			inv = &models.Invoice{
				ID:            uuid.New(),
				InvoiceNumber: FormatInvoiceNumber(period.Year, n),
				BillingYear:   period.Year,
				Sequence:      n,
				MemberID:      m.ID,
				MemberName:    m.Name,
				Flat:          strings.TrimSpace(m.Flat),
				Email:         strings.TrimSpace(m.Email),
				BillingPeriod: period.Start(),
				DueDate:       period.DueDate(g.dueDay),
				TotalAmount:   snap.total,
				Status:        models.InvoicePending,
				BillingRunID:  &run.ID,
				GeneratedAt:   g.now().UTC(),
				Items:         snap.items(),
			}
			return g.invoices.WithTx(tx).CreateWithItems(ctx, inv)
		})
		if err == nil {
			return inv, nil
		}
		if inv == nil || !repository.IsDuplicateKey(err) {
			return nil, err
		}

		metrics.InvoiceNumberConflicts.Inc()
		g.log.Warn().Err(err).Str("invoice_number", inv.InvoiceNumber).Int("attempt", attempt+1).
			Msg("invoice number already taken, retrying")
		if attempt+1 >= maxConflictRetries {
			return nil, fmt.Errorf("%w: %s for member %s", ErrSequenceConflict, inv.InvoiceNumber, m.ID)
		}

		high, err := g.invoices.MaxSequence(ctx, period.Year)
		if err != nil {
			return nil, fmt.Errorf("failed to read high-water mark: %w", err)
		}
		floor = max(inv.Sequence+1, high+1)
	}
}

func (r *Result) skip(log zerolog.Logger, m models.Member, reason string) {
	metrics.MembersSkipped.WithLabelValues(reason).Inc()
	log.Warn().Str("member_id", m.ID.String()).Str("member", m.Name).Str("reason", reason).
		Msg("member skipped")
	r.Skipped = append(r.Skipped, models.SkippedMember{
		MemberID:   m.ID,
		MemberName: m.Name,
		Reason:     reason,
	})
}

// finish stores the run outcome. Failing to update the run record is logged
// only; the invoices themselves are already committed.
func (g *Generator) finish(ctx context.Context, run *models.BillingRun, result *Result, runErr error) {
	now := g.now().UTC()
	run.CompletedAt = &now
	run.BilledCount = result.Count()
	run.SkippedCount = len(result.Skipped)
	run.Status = models.RunCompleted
	if runErr != nil {
		run.Status = models.RunFailed
		run.Error = runErr.Error()
	}
	if n := result.Count(); n > 0 {
		run.FirstNumber = result.Invoices[0].InvoiceNumber
		run.LastNumber = result.Invoices[n-1].InvoiceNumber
	}
	if skipped, err := json.Marshal(result.Skipped); err == nil {
		run.Skipped = skipped
	}

	if err := g.runs.Save(ctx, run); err != nil {
		g.log.Error().Err(err).Str("run_id", run.ID.String()).Msg("failed to record billing run outcome")
	}
}
