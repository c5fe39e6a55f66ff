package balance

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerview/ledgerview/internal/codes"
)

// LedgerSource returns raw posting lines for a date range within a fiscal
// year. Date bounds are inclusive and enforced by the source.
type LedgerSource interface {
	LedgerItems(ctx context.Context, q ItemQuery) ([]LedgerItem, error)
}

// CatalogSource returns the full code and detail catalogs.
type CatalogSource interface {
	Codes(ctx context.Context) ([]codes.CodeRecord, error)
	Details(ctx context.Context) ([]codes.DetailRecord, error)
}

// Service coordinates catalog state, row fetching, aggregation and view
// construction for the hierarchical balance report.
type Service struct {
	source  LedgerSource
	catalog CatalogSource
	cache   *Cache
	widths  codes.Widths
	logger  *slog.Logger

	mu           sync.RWMutex
	idx          *codes.Index
	detailTitles map[string]string
}

// NewService wires the report service.
func NewService(source LedgerSource, catalog CatalogSource, cache *Cache, widths codes.Widths, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:       source,
		catalog:      catalog,
		cache:        cache,
		widths:       widths,
		logger:       logger,
		idx:          codes.NewIndex(widths),
		detailTitles: map[string]string{},
	}
}

// Widths returns the configured digit widths.
func (s *Service) Widths() codes.Widths {
	return s.widths
}

// ReloadCatalog refreshes the hierarchy index and detail titles from the
// catalog source and invalidates cached aggregates. A failed fetch degrades
// to an empty index so downstream reports come back empty instead of
// failing.
func (s *Service) ReloadCatalog(ctx context.Context) error {
	var (
		records []codes.CodeRecord
		details []codes.DetailRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.catalog.Codes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		details, err = s.catalog.Details(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("catalog load failed, continuing with empty index", slog.Any("error", err))
		records = nil
		details = nil
	}

	idx := codes.BuildIndex(s.widths, records)
	titles := make(map[string]string, len(details))
	for _, d := range details {
		titles[codes.FoldDigits(d.Code)] = d.Title
	}

	s.mu.Lock()
	s.idx = idx
	s.detailTitles = titles
	s.mu.Unlock()

	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("cache bump failed", slog.Any("error", err))
	}
	s.logger.Info("catalog reloaded",
		slog.Int("codes", len(records)),
		slog.Int("details", len(details)),
	)
	return nil
}

func (s *Service) snapshot() (*codes.Index, map[string]string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx, s.detailTitles
}

// periodAggregates pairs the current-period and before-period aggregate
// sets cached together under one filter signature.
type periodAggregates struct {
	Current AggregateSet `json:"current"`
	Before  AggregateSet `json:"before"`
}

// Report computes the full view state for a query. Aggregates are memoized
// per filter signature; within a miss the current-period and before-period
// fetches run concurrently. Because every cache entry is keyed by the
// signature it was computed for, a superseded request can never leak its
// rows into a newer view.
func (s *Service) Report(ctx context.Context, q ReportQuery) (Report, error) {
	sig := q.Signature(s.widths)
	s.rememberQuery(ctx, sig, q)

	agg, err := s.aggregates(ctx, sig, q)
	if err != nil {
		s.logger.Warn("ledger fetch failed, rendering empty report",
			slog.String("signature", sig), slog.Any("error", err))
		agg = periodAggregates{Current: EmptyAggregates(), Before: EmptyAggregates()}
	}

	idx, detailTitles := s.snapshot()
	tree := BuildTree(idx, agg.Current, detailTitles)
	tree = SearchTree(tree, q.Search)
	rows := Flatten(tree, q.Depth, agg.Before)

	return Report{
		Signature: sig,
		Tree:      tree,
		Rows:      rows,
		Depth:     q.Depth,
		Columns:   q.Columns,
	}, nil
}

func (s *Service) aggregates(ctx context.Context, sig string, q ReportQuery) (periodAggregates, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return s.computeAggregates(ctx, q)
	}
	key, err := s.cache.Key(ctx, sig)
	if err != nil {
		s.logger.Warn("cache key unavailable, computing directly", slog.Any("error", err))
		value, err := s.computeAggregates(ctx, q)
		return value, err
	}
	var agg periodAggregates
	if err := s.cache.FetchJSON(ctx, key, &agg, loader); err != nil {
		return periodAggregates{}, err
	}
	return agg, nil
}

// computeAggregates runs the two independent fetches concurrently. The
// before-period set covers the fiscal-year start through the day preceding
// the active range; when the range starts at or before the fiscal-year
// start there is nothing before it and the set stays empty.
func (s *Service) computeAggregates(ctx context.Context, q ReportQuery) (periodAggregates, error) {
	var current, before []LedgerItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.source.LedgerItems(gctx, ItemQuery{
			FiscalYearID: q.FiscalYearID,
			StartDate:    q.StartDate,
			EndDate:      q.EndDate,
			DocFrom:      q.DocFrom,
			DocTo:        q.DocTo,
		})
		if err != nil {
			return err
		}
		current = rows
		return nil
	})
	if q.StartDate.After(q.FiscalYearStart) {
		g.Go(func() error {
			rows, err := s.source.LedgerItems(gctx, ItemQuery{
				FiscalYearID: q.FiscalYearID,
				StartDate:    q.FiscalYearStart,
				EndDate:      q.StartDate.AddDate(0, 0, -1),
			})
			if err != nil {
				return err
			}
			before = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return periodAggregates{}, err
	}

	current = FilterRows(current, q.Filter, s.widths)
	before = FilterRows(before, q.Filter, s.widths)
	return periodAggregates{
		Current: BuildAggregates(current, s.widths),
		Before:  BuildAggregates(before, s.widths),
	}, nil
}

const (
	recentQueriesKey = "balance:recent"
	recentQueriesTTL = 24 * time.Hour
)

// rememberQuery records the query under its signature so the background
// warm-up job can replay recently viewed reports through the cache. Best
// effort only.
func (s *Service) rememberQuery(ctx context.Context, sig string, q ReportQuery) {
	if s.cache == nil || s.cache.client == nil {
		return
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := s.cache.client.HSet(ctx, recentQueriesKey, sig, payload).Err(); err != nil {
		s.logger.Debug("remember query", slog.Any("error", err))
		return
	}
	_ = s.cache.client.Expire(ctx, recentQueriesKey, recentQueriesTTL).Err()
}

// RecentQueries returns the set of recently viewed report queries.
func (s *Service) RecentQueries(ctx context.Context) ([]ReportQuery, error) {
	if s.cache == nil || s.cache.client == nil {
		return nil, nil
	}
	entries, err := s.cache.client.HGetAll(ctx, recentQueriesKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]ReportQuery, 0, len(entries))
	for _, raw := range entries {
		var q ReportQuery
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}
