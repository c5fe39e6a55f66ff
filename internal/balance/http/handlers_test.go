package http

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerview/ledgerview/internal/balance"
)

type stubService struct {
	report  balance.Report
	query   balance.ReportQuery
	reloads int
}

func (s *stubService) Report(ctx context.Context, q balance.ReportQuery) (balance.Report, error) {
	s.query = q
	report := s.report
	report.Depth = q.Depth
	report.Columns = q.Columns
	return report, nil
}

func (s *stubService) ReloadCatalog(ctx context.Context) error {
	s.reloads++
	return nil
}

type stubPDF struct{}

func (stubPDF) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type stubQueue struct {
	query    balance.ReportQuery
	enqueues int
}

func (s *stubQueue) EnqueueReportExport(ctx context.Context, q balance.ReportQuery) (string, error) {
	s.query = q
	s.enqueues++
	return "3f1c0f6e-0000-0000-0000-000000000000", nil
}

func fixtureReport() balance.Report {
	return balance.Report{
		Signature: "balance:test",
		Tree: []balance.TreeNode{{
			Code: "10", Title: "Assets", Debit: 500, Credit: 200,
			Children: []balance.TreeNode{{Code: "1001", Title: "Cash", Debit: 500, Credit: 200}},
		}},
		Rows: []balance.TableRow{
			{Level: balance.LevelGroup, GroupCode: "10", Title: "Assets", Debit: 500, Credit: 200},
			{Level: balance.LevelGeneral, GeneralCode: "1001", Title: "Cash", Debit: 500, Credit: 200},
		},
	}
}

func newTestRouter(svc *stubService, queue ExportQueue) chi.Router {
	h := NewHandler(slog.Default(), svc, stubPDF{}, queue)
	r := chi.NewRouter()
	r.Route("/reports", h.MountRoutes)
	return r
}

const baseQuery = "fiscal_year=1&fiscal_year_start=2025-04-01&from=2025-04-01&to=2025-04-30"

func TestHandleGetReturnsReport(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	router := newTestRouter(svc, &stubQueue{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/hierarchy?"+baseQuery+"&depth=general", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got balance.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Rows, 2)
	assert.Equal(t, balance.DepthGeneral, svc.query.Depth)
}

func TestHandleGetParsesFilterSets(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	router := newTestRouter(svc, &stubQueue{})

	rec := httptest.NewRecorder()
	url := "/reports/hierarchy?" + baseQuery + "&groups=10,20&details=501&doc_from=5&doc_to=10&q=cash"
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"10", "20"}, svc.query.Filter.Groups)
	assert.Equal(t, []string{"501"}, svc.query.Filter.Details)
	require.NotNil(t, svc.query.DocFrom)
	assert.EqualValues(t, 5, *svc.query.DocFrom)
	assert.Equal(t, "cash", svc.query.Search)
}

func TestHandleGetRejectsInvalidRequests(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	router := newTestRouter(svc, &stubQueue{})

	cases := []string{
		"/reports/hierarchy",
		"/reports/hierarchy?fiscal_year=1&fiscal_year_start=2025-04-01&from=not-a-date&to=2025-04-30",
		"/reports/hierarchy?fiscal_year=1&fiscal_year_start=2025-04-01&from=2025-04-30&to=2025-04-01",
		"/reports/hierarchy?" + baseQuery + "&depth=bogus",
		"/reports/hierarchy?" + baseQuery + "&doc_from=abc",
	}
	for _, url := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestHandleExportCSVMatchesRows(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	router := newTestRouter(svc, &stubQueue{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/hierarchy/export.csv?"+baseQuery+"&depth=general&columns=six", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, len(svc.report.Rows)+1, "header plus one record per row")
}

func TestHandlePrintReturnsHTML(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	router := newTestRouter(svc, &stubQueue{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/hierarchy/print?"+baseQuery, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "Assets")
}

func TestHandleExportPDF(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	router := newTestRouter(svc, &stubQueue{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/hierarchy/pdf?"+baseQuery, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}

func TestHandleEnqueueExport(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	queue := &stubQueue{}
	router := newTestRouter(svc, queue)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/hierarchy/exports?"+baseQuery+"&depth=general&columns=six", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, queue.enqueues)
	assert.Equal(t, balance.DepthGeneral, queue.query.Depth)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["jobId"])
}

func TestHandleEnqueueExportWithoutQueue(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	router := newTestRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/hierarchy/exports?"+baseQuery, nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleEnqueueExportRejectsInvalidQuery(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	queue := &stubQueue{}
	router := newTestRouter(svc, queue)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/hierarchy/exports?fiscal_year=1", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, queue.enqueues)
}

func TestHandleCatalogReload(t *testing.T) {
	svc := &stubService{report: fixtureReport()}
	router := newTestRouter(svc, &stubQueue{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/catalog/reload", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.reloads)
}
