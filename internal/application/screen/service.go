package screen

import (
	"context"
	"fmt"
	"time"

	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/domain/customer"
	"github.com/billadmin/backend/internal/domain/listing"
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/billadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Service lists the records of every screen for a principal
type Service struct {
	source  Source
	calc    billing.Calculator
	logger  *zap.Logger
	metrics *telemetry.BillingMetrics
	now     func() time.Time

	accounts *listing.Engine[AccountRow]
	profiles *listing.Engine[ProfileRow]
	plans    *listing.Engine[PlanRow]
	services *listing.Engine[ServiceRow]
	invoices *listing.Engine[InvoiceRow]
}

// NewService creates a new screen Service
func NewService(source Source, calc billing.Calculator, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		source:   source,
		calc:     calc,
		logger:   logger,
		now:      now,
		accounts: listing.NewEngine(configure(AccountSchema(), opts), opts.PageSize),
		profiles: listing.NewEngine(configure(ProfileSchema(), opts), opts.PageSize),
		plans:    listing.NewEngine(configure(PlanSchema(), opts), opts.PageSize),
		services: listing.NewEngine(configure(ServiceSchema(), opts), opts.PageSize),
		invoices: listing.NewEngine(configure(InvoiceSchema(), opts), opts.PageSize),
	}
}

// SetMetrics sets the billing metrics collector
func (s *Service) SetMetrics(m *telemetry.BillingMetrics) {
	s.metrics = m
}

// configure applies the shared options to one screen schema. A default sort
// field the screen cannot sort by is ignored.
func configure[T shared.Record](schema listing.Schema[T], opts Options) listing.Schema[T] {
	if opts.DefaultSort.Field != "" && schema.HasSortKey(opts.DefaultSort.Field) {
		schema.DefaultSort = listing.SortSpec{
			Field:     opts.DefaultSort.Field,
			Direction: listing.ParseDirection(string(opts.DefaultSort.Direction), listing.Desc),
		}
	}
	schema.Locale = opts.Locale
	return schema.WithSearchFields(opts.SearchFields[schema.Name])
}

// FieldNames returns the criteria keys understood by screen
func (s *Service) FieldNames(screen string) ([]string, error) {
	switch screen {
	case Accounts:
		return s.accounts.Schema().FieldNames(), nil
	case Profiles:
		return s.profiles.Schema().FieldNames(), nil
	case Plans:
		return s.plans.Schema().FieldNames(), nil
	case Services:
		return s.services.Schema().FieldNames(), nil
	case Invoices:
		return s.invoices.Schema().FieldNames(), nil
	default:
		return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("unknown screen %q", screen))
	}
}

// Defaults returns the no-op criteria of screen
func (s *Service) Defaults(screen string) (listing.Criteria, error) {
	switch screen {
	case Accounts:
		return s.accounts.Schema().Defaults(), nil
	case Profiles:
		return s.profiles.Schema().Defaults(), nil
	case Plans:
		return s.plans.Schema().Defaults(), nil
	case Services:
		return s.services.Schema().Defaults(), nil
	case Invoices:
		return s.invoices.Schema().Defaults(), nil
	default:
		return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("unknown screen %q", screen))
	}
}

// ListAccounts returns one page of the accounts visible to p
func (s *Service) ListAccounts(ctx context.Context, p access.Principal, q listing.Query) (*listing.Result[AccountRow], error) {
	ctx, span := s.startSpan(ctx, "list_accounts", Accounts, p)
	defer span.End()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	rows := buildAccountRows(snap.Accounts, snap.Services, snap.Invoices)
	return run(ctx, s, span, p, s.accounts, rows, AccountPolicy().Scope(p), q), nil
}

// ListProfiles returns one page of the profiles visible to p
func (s *Service) ListProfiles(ctx context.Context, p access.Principal, q listing.Query) (*listing.Result[ProfileRow], error) {
	ctx, span := s.startSpan(ctx, "list_profiles", Profiles, p)
	defer span.End()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	own := customer.NewOwnership(snap.Accounts)
	rows := buildProfileRows(snap.Profiles, snap.Services, own)
	return run(ctx, s, span, p, s.profiles, rows, ProfilePolicy(own).Scope(p), q), nil
}

// ListPlans returns one page of the plans offered to p
func (s *Service) ListPlans(ctx context.Context, p access.Principal, q listing.Query) (*listing.Result[PlanRow], error) {
	ctx, span := s.startSpan(ctx, "list_plans", Plans, p)
	defer span.End()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	return run(ctx, s, span, p, s.plans, buildPlanRows(snap.Plans), PlanPolicy().Scope(p), q), nil
}

// ListServices returns one page of the services visible to p
func (s *Service) ListServices(ctx context.Context, p access.Principal, q listing.Query) (*listing.Result[ServiceRow], error) {
	ctx, span := s.startSpan(ctx, "list_services", Services, p)
	defer span.End()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	rows := buildServiceRows(snap.Services, snap.Plans, snap.Accounts)
	return run(ctx, s, span, p, s.services, rows, ServicePolicy().Scope(p), q), nil
}

// ListInvoices returns one page of the invoices visible to p
func (s *Service) ListInvoices(ctx context.Context, p access.Principal, q listing.Query) (*listing.Result[InvoiceRow], error) {
	ctx, span := s.startSpan(ctx, "list_invoices", Invoices, p)
	defer span.End()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	own := customer.NewOwnership(snap.Accounts)
	rows := buildInvoiceRows(snap.Invoices, snap.Accounts, s.calc, s.now)
	return run(ctx, s, span, p, s.invoices, rows, InvoicePolicy(own).Scope(p), q), nil
}

func (s *Service) startSpan(ctx context.Context, method, screen string, p access.Principal) (context.Context, trace.Span) {
	return telemetry.StartServiceSpan(ctx, "screen", method,
		telemetry.WithAttribute(telemetry.SpanAttrScreen, screen),
		telemetry.WithAttribute(telemetry.SpanAttrRole, p.Role.String()),
		telemetry.WithAttribute(telemetry.SpanAttrUserID, p.ID),
	)
}

func fail(span trace.Span, err error) error {
	telemetry.RecordError(span, err)
	return err
}

func run[T shared.Record](ctx context.Context, s *Service, span trace.Span, p access.Principal, engine *listing.Engine[T], rows []T, scope listing.Predicate[T], q listing.Query) *listing.Result[T] {
	started := time.Now()
	res := engine.Run(rows, scope, q)
	name := engine.Schema().Name

	for _, w := range res.Warnings {
		s.logger.Debug("List query degraded",
			zap.String("screen", name),
			zap.Error(w),
		)
		telemetry.AddEvent(span, "query_degraded", "reason", w.Error())
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMatched, res.Page.TotalCount,
		telemetry.SpanAttrPage, res.Page.PageNumber,
		telemetry.SpanAttrWarnings, len(res.Warnings),
	)
	if s.metrics != nil {
		s.metrics.RecordListQuery(ctx, name, p.Role.String(), time.Since(started), len(res.Warnings))
	}
	return &res
}
