// Package enrich joins call logs with their lead details for the detail view.
package enrich

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/metrics"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// NotAvailable fills text fields the sources do not provide
const NotAvailable = "N/A"

// LeadSearcher looks up one lead by id
type LeadSearcher interface {
	SearchLead(ctx context.Context, leadID string) (*types.LeadRecord, error)
}

// Enricher fetches lead details for a batch of calls
type Enricher struct {
	leads       LeadSearcher
	concurrency int
	logger      zerolog.Logger
}

// New creates an enricher running at most concurrency lookups at once.
// Zero means no limit.
func New(leads LeadSearcher, concurrency int, logger zerolog.Logger) *Enricher {
	return &Enricher{
		leads:       leads,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "enrich").Logger(),
	}
}

// Enrich returns one CallDetail per record, in input order. A lead that
// cannot be fetched leaves only that lead's fields on their fallbacks.
func (e *Enricher) Enrich(ctx context.Context, records []types.CallLogRecord) []types.CallDetail {
	leads := e.lookupLeads(ctx, distinctLeadIDs(records))

	details := make([]types.CallDetail, len(records))
	for i := range records {
		details[i] = Join(&records[i], leads[records[i].LeadID.String()])
	}
	return details
}

func distinctLeadIDs(records []types.CallLogRecord) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, rec := range records {
		id := rec.LeadID.String()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (e *Enricher) lookupLeads(ctx context.Context, ids []string) map[string]*types.LeadRecord {
	var (
		mu    sync.Mutex
		leads = make(map[string]*types.LeadRecord, len(ids))
	)

	g, gCtx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	for _, id := range ids {
		g.Go(func() error {
			lead, err := e.leads.SearchLead(gCtx, id)
			switch {
			case errors.Is(err, convoso.ErrLeadNotFound):
				metrics.LeadLookupsTotal.WithLabelValues("missing").Inc()
				e.logger.Debug().Str("lead_id", id).Msg("lead not found")
				return nil
			case err != nil:
				metrics.LeadLookupsTotal.WithLabelValues("error").Inc()
				e.logger.Warn().Err(err).Str("lead_id", id).Msg("lead lookup failed")
				return nil
			}

			metrics.LeadLookupsTotal.WithLabelValues("found").Inc()
			mu.Lock()
			leads[id] = lead
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(leads)).
		Msg("lead lookups finished")

	return leads
}

// Join flattens a call and its lead (which may be nil) into a CallDetail
func Join(rec *types.CallLogRecord, lead *types.LeadRecord) types.CallDetail {
	var l types.LeadRecord
	if lead != nil {
		l = *lead
	}

	dispositionName := rec.StatusName.String()
	if dispositionName == "" {
		dispositionName = rec.Status.String()
	}

	return types.CallDetail{
		CallLogID:       orNA(rec.ID.String()),
		CallDate:        nullable(rec.CallDate.String()),
		CallLength:      rec.CallLength.Int(),
		DispositionCode: orNA(rec.Status.String()),
		DispositionName: orNA(dispositionName),
		AgentName:       orNA(rec.User.String()),
		AgentComment:    rec.AgentComment.String(),
		RecordingURL:    nullable(rec.Recording.URL()),
		CallType:        orNA(rec.CallType.String()),
		NumberDialed:    orNA(rec.NumberDialed.String()),

		LeadID:                orNA(first(l.ID, rec.LeadID.String())),
		LeadCreatedAt:         nullable(l.CreatedAt),
		LeadModifiedAt:        nullable(l.ModifiedAt),
		FirstName:             first(l.FirstName, rec.FirstName.String()),
		LastName:              first(l.LastName, rec.LastName.String()),
		Email:                 orNA(l.Email),
		LeadCurrentStatusCode: orNA(l.Status),
		LeadCurrentStatusName: orNA(l.StatusName),
		LeadUserID:            orNA(l.UserID),
		LeadOwnerName:         orNA(l.OwnerName),
		LeadListID:            orNA(first(l.ListID, rec.ListID.String())),
		LeadListName:          orNA(l.DirectoryName),
		PhoneNumber:           orNA(first(l.PhoneNumber, rec.PhoneNumber.String())),
		LeadLastCalled:        nullable(l.LastCalled),
		LeadLastModifiedBy:    orNA(l.LastModifiedByName),

		CompanyName:        custom(lead, "field_4"),
		MonthlyRevenue:     custom(lead, "field_94"),
		RequestedFunding:   custom(lead, "field_93"),
		Email2:             custom(lead, "field_1"),
		OpenPositions:      custom(lead, "field_306"),
		CreditScore:        custom(lead, "field_41"),
		Liens:              custom(lead, "field_34"),
		UseOfFunds:         custom(lead, "field_601"),
		OffTheWallQ:        custom(lead, "field_32"),
		BusinessStartDate:  custom(lead, "field_81"),
		Timeline:           custom(lead, "field_212"),
		CompanyDescPrimary: custom(lead, "field_103"),
		Notes:              custom(lead, "field_101"),
		NIReasons:          custom(lead, "field_104"),
		BadLeadReason:      custom(lead, "field_31"),
		ApptDateTime:       custom(lead, "field_82"),
		FEIN:               custom(lead, "field_16"),
		HubspotID:          custom(lead, "field_10"),
		EmailDelivered:     custom(lead, "field_36"),
		SSN:                custom(lead, "field_15"),
		OwnershipPercent:   custom(lead, "field_43"),
		MainIndustry:       custom(lead, "field_29"),
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func custom(lead *types.LeadRecord, field string) *string {
	return nullable(lead.Field(field))
}
