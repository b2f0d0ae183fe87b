package purge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/seedhaus/storesweep/pkg/logging"
	"github.com/seedhaus/storesweep/pkg/strapi"
)

// Prometheus metrics for sweep progress.
var (
	purgeRecordsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storesweep_records_processed_total",
		Help: "Total order records processed (delete attempted)",
	})

	purgePagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storesweep_pages_total",
		Help: "Total page tasks by result",
	}, []string{"result"})

	purgeDeletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storesweep_deletes_total",
		Help: "Total delete calls by system and outcome",
	}, []string{"system", "outcome"})
)

// OrderLister fetches one listing page from the content API.
type OrderLister interface {
	FetchOrderPage(ctx context.Context, page int) (*strapi.OrderPage, error)
}

// PrimaryDeleter removes an order from the content API.
type PrimaryDeleter interface {
	DeleteOrder(ctx context.Context, id int) bool
}

// SecondaryDeleter removes the linked order from the commerce platform.
type SecondaryDeleter interface {
	DeleteOrder(ctx context.Context, id string) bool
}

// Config holds sweeper configuration.
type Config struct {
	// RecordDelay is an optional fixed pause before each record is
	// processed. Zero disables pacing.
	RecordDelay time.Duration
}

// PageResult is the unit each page task reports back to the sweeper.
type PageResult struct {
	Page      int
	Processed int
	Err       error
}

// RecordOutcome captures the dual-system delete outcome for one record.
// SecondaryOK is true when the record has no cart reference (nothing to
// delete on the secondary side).
type RecordOutcome struct {
	OrderID       int
	CartReference string
	SecondaryOK   bool
	PrimaryOK     bool
}

// Summary is the aggregate result of one sweep run. Processed counts
// attempted deletions, not verified ones.
type Summary struct {
	Total       int
	Processed   int
	Pages       int
	FailedPages int
}

// Sweeper coordinates the paginated fan-out over both backends.
type Sweeper struct {
	lister    OrderLister
	primary   PrimaryDeleter
	secondary SecondaryDeleter
	config    Config
	logger    zerolog.Logger
}

// NewSweeper creates a sweeper over the given clients.
func NewSweeper(lister OrderLister, primary PrimaryDeleter, secondary SecondaryDeleter, cfg Config) (*Sweeper, error) {
	if lister == nil {
		return nil, fmt.Errorf("order lister is required")
	}

	if primary == nil {
		return nil, fmt.Errorf("primary deleter is required")
	}

	if secondary == nil {
		return nil, fmt.Errorf("secondary deleter is required")
	}

	return &Sweeper{
		lister:    lister,
		primary:   primary,
		secondary: secondary,
		config:    cfg,
		logger:    logging.NewLogger("sweeper"),
	}, nil
}

// Run executes one full sweep: discovery fetch, one concurrent task per
// page, fold of all page results. Only a discovery-fetch failure is
// returned as an error; later page failures are isolated to their page.
func (s *Sweeper) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	first, err := s.lister.FetchOrderPage(ctx, 1)
	if err != nil {
		return Summary{}, fmt.Errorf("discovery fetch: %w", err)
	}

	total := first.Meta.Pagination.Total
	pageCount := first.Meta.Pagination.PageCount
	summary := Summary{Total: total, Pages: pageCount}

	s.logger.Info().
		Int("total_orders", total).
		Int("total_pages", pageCount).
		Msg("Starting order sweep")

	if pageCount == 0 {
		s.logger.Info().Msg("Nothing to sweep")
		return summary, nil
	}

	results := make(chan PageResult, pageCount)

	var wg sync.WaitGroup
	for page := 1; page <= pageCount; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			results <- s.runPageTask(ctx, page, first)
		}(page)
	}

	// Close results channel when all page tasks are done
	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.Err != nil {
			summary.FailedPages++
			purgePagesTotal.WithLabelValues("fetch_failed").Inc()
			s.logger.Warn().
				Err(result.Err).
				Int("page", result.Page).
				Msg("Page task failed")
		} else {
			purgePagesTotal.WithLabelValues("ok").Inc()
		}

		summary.Processed += result.Processed

		s.logger.Info().
			Int("processed", summary.Processed).
			Int("total", summary.Total).
			Int("page", result.Page).
			Int("page_count", pageCount).
			Msg("Processed orders page")
	}

	s.logger.Info().
		Int("processed", summary.Processed).
		Int("total", summary.Total).
		Int("failed_pages", summary.FailedPages).
		Dur("duration", time.Since(start)).
		Msg("Sweep complete")

	return summary, nil
}

// runPageTask covers fetch+process for a single page. Page 1 reuses the
// discovery envelope instead of refetching.
func (s *Sweeper) runPageTask(ctx context.Context, page int, first *strapi.OrderPage) PageResult {
	envelope := first
	if page != 1 {
		var err error
		envelope, err = s.lister.FetchOrderPage(ctx, page)
		if err != nil {
			return PageResult{Page: page, Err: err}
		}
	}

	return s.processPage(ctx, envelope, page)
}

// processPage deletes every record on the page in sequence: commerce
// platform first when a cart reference is present, then the content API.
// Records within a page are never processed in parallel, which bounds
// concurrent outbound deletes to one per page task.
func (s *Sweeper) processPage(ctx context.Context, envelope *strapi.OrderPage, page int) PageResult {
	result := PageResult{Page: page}

	for _, order := range envelope.Data {
		if err := s.pause(ctx); err != nil {
			result.Err = err
			return result
		}

		outcome := s.deleteRecord(ctx, order)
		result.Processed++
		purgeRecordsProcessedTotal.Inc()

		event := s.logger.Debug()
		if !outcome.SecondaryOK || !outcome.PrimaryOK {
			event = s.logger.Warn()
		}
		event.
			Int("page", page).
			Int("order_id", outcome.OrderID).
			Str("cart_reference", outcome.CartReference).
			Bool("secondary_ok", outcome.SecondaryOK).
			Bool("primary_ok", outcome.PrimaryOK).
			Msg("Order delete attempted")
	}

	return result
}

// deleteRecord performs the dual-system delete for one order: secondary
// before primary, neither outcome gating the other. There is no
// compensation for a half-deleted record; both outcomes are surfaced so
// a later reconciliation can pick them up.
func (s *Sweeper) deleteRecord(ctx context.Context, order strapi.Order) RecordOutcome {
	outcome := RecordOutcome{OrderID: order.ID, SecondaryOK: true}

	if ref, ok := order.CartReference(); ok {
		outcome.CartReference = ref
		outcome.SecondaryOK = s.secondary.DeleteOrder(ctx, ref)
		purgeDeletesTotal.WithLabelValues("secondary", outcomeLabel(outcome.SecondaryOK)).Inc()
	}

	outcome.PrimaryOK = s.primary.DeleteOrder(ctx, order.ID)
	purgeDeletesTotal.WithLabelValues("primary", outcomeLabel(outcome.PrimaryOK)).Inc()

	return outcome
}

// pause waits the configured per-record delay, honoring cancellation.
func (s *Sweeper) pause(ctx context.Context) error {
	if s.config.RecordDelay <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.config.RecordDelay):
		return nil
	}
}

func outcomeLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
