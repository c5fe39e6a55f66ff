package balance

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerview/ledgerview/internal/codes"
)

func TestFetchJSONServesComputedValueWhenBackendFails(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute, nil)

	mr.SetError("backend down")

	calls := 0
	var got Sums
	err := cache.FetchJSON(context.Background(), "aggregates:test", &got, func(ctx context.Context) (interface{}, error) {
		calls++
		return Sums{Debit: 7}, nil
	})
	if err != nil {
		t.Fatalf("broken backend must not fail the fetch: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected loader to run once, ran %d times", calls)
	}
	if got.Debit != 7 {
		t.Fatalf("expected computed value, got %+v", got)
	}
}

func TestReportComputesWhenCacheBackendFails(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := &mockLedgerSource{rowsByRange: map[string][]LedgerItem{
		"2025-04-01/2025-04-30": {{AccountCode: "100101", Debit: 100}},
	}}
	svc := NewService(source, defaultCatalog(), NewCache(client, time.Minute, nil), codes.DefaultWidths(), nil)
	if err := svc.ReloadCatalog(context.Background()); err != nil {
		t.Fatalf("reload catalog: %v", err)
	}

	mr.SetError("backend down")

	q := ReportQuery{
		FiscalYearID:    1,
		FiscalYearStart: date(2025, time.April, 1),
		StartDate:       date(2025, time.April, 1),
		EndDate:         date(2025, time.April, 30),
		Depth:           DepthGeneral,
	}
	report, err := svc.Report(context.Background(), q)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Rows) == 0 {
		t.Fatal("healthy ledger source must still produce rows with a broken cache")
	}
	if source.calls != 1 {
		t.Fatalf("expected a direct fetch, got %d calls", source.calls)
	}
}
