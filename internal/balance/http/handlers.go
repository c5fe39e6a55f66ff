package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerview/ledgerview/internal/balance"
	"github.com/ledgerview/ledgerview/internal/balance/export"
)

// ReportService is the subset of the balance service the handler uses.
type ReportService interface {
	Report(ctx context.Context, q balance.ReportQuery) (balance.Report, error)
	ReloadCatalog(ctx context.Context) error
}

// PDFRenderClient converts an HTML document into PDF bytes.
type PDFRenderClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// ExportQueue enqueues background report exports.
type ExportQueue interface {
	EnqueueReportExport(ctx context.Context, query balance.ReportQuery) (string, error)
}

// Handler wires the hierarchical balance report endpoints.
type Handler struct {
	logger    *slog.Logger
	service   ReportService
	pdfClient PDFRenderClient
	queue     ExportQueue
	validate  *validator.Validate
	rateLimit func(http.Handler) http.Handler
}

// NewHandler constructs the report handler.
func NewHandler(logger *slog.Logger, service ReportService, pdfClient PDFRenderClient, queue ExportQueue) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		pdfClient: pdfClient,
		queue:     queue,
		validate:  validator.New(),
		rateLimit: httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/hierarchy", h.handleGet)
	r.Post("/catalog/reload", h.handleCatalogReload)
	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Get("/hierarchy/export.csv", h.handleExportCSV)
		r.Get("/hierarchy/print", h.handlePrint)
		r.Get("/hierarchy/pdf", h.handleExportPDF)
		r.Post("/hierarchy/exports", h.handleEnqueueExport)
	})
}

// reportRequest is the raw query-string form of a report query.
type reportRequest struct {
	FiscalYearID    int64  `validate:"required,gt=0"`
	FiscalYearStart string `validate:"required,datetime=2006-01-02"`
	StartDate       string `validate:"required,datetime=2006-01-02"`
	EndDate         string `validate:"required,datetime=2006-01-02"`
	Depth           string `validate:"omitempty,oneof=collapsed general specific detail"`
	Columns         string `validate:"omitempty,oneof=two four six"`
}

func (h *Handler) parseQuery(r *http.Request) (balance.ReportQuery, error) {
	q := r.URL.Query()
	req := reportRequest{
		FiscalYearStart: q.Get("fiscal_year_start"),
		StartDate:       q.Get("from"),
		EndDate:         q.Get("to"),
		Depth:           q.Get("depth"),
		Columns:         q.Get("columns"),
	}
	if raw := q.Get("fiscal_year"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return balance.ReportQuery{}, fmt.Errorf("fiscal_year: %w", err)
		}
		req.FiscalYearID = id
	}
	if err := h.validate.Struct(req); err != nil {
		return balance.ReportQuery{}, err
	}

	// Formats already vetted by the datetime validator tag above.
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	fyStart, _ := time.Parse("2006-01-02", req.FiscalYearStart)
	if end.Before(start) {
		return balance.ReportQuery{}, fmt.Errorf("date range: to precedes from")
	}

	out := balance.ReportQuery{
		FiscalYearID:    req.FiscalYearID,
		FiscalYearStart: fyStart,
		StartDate:       start,
		EndDate:         end,
		Search:          strings.TrimSpace(q.Get("q")),
		Depth:           balance.ParseDepth(req.Depth),
		Columns:         balance.ParseColumnMode(req.Columns),
		Filter: balance.RowFilter{
			Groups:    splitCodes(q.Get("groups")),
			Generals:  splitCodes(q.Get("generals")),
			Specifics: splitCodes(q.Get("specifics")),
			Details:   splitCodes(q.Get("details")),
		},
	}
	var err error
	if out.DocFrom, err = optionalInt(q.Get("doc_from")); err != nil {
		return balance.ReportQuery{}, fmt.Errorf("doc_from: %w", err)
	}
	if out.DocTo, err = optionalInt(q.Get("doc_to")); err != nil {
		return balance.ReportQuery{}, fmt.Errorf("doc_to: %w", err)
	}
	return out, nil
}

func splitCodes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func optionalInt(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) (balance.Report, bool) {
	query, err := h.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return balance.Report{}, false
	}
	report, err := h.service.Report(r.Context(), query)
	if err != nil {
		h.logger.Error("compute report", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return balance.Report{}, false
	}
	return report, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Error("encode report", slog.Any("error", err))
	}
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	buf := &bytes.Buffer{}
	if err := export.WriteCSV(buf, report.Rows, report.Depth, report.Columns); err != nil {
		h.logger.Error("write report csv", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=balance_report.csv")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handlePrint(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	html := export.BuildPrintHTML(report.Rows, report.Depth, report.Columns, export.PrintMeta{
		Title:       "Hierarchical Balance Report",
		PeriodLabel: periodLabel(r),
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdfClient == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	html := export.BuildPrintHTML(report.Rows, report.Depth, report.Columns, export.PrintMeta{
		Title:       "Hierarchical Balance Report",
		PeriodLabel: periodLabel(r),
	})
	pdf, err := h.pdfClient.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render report pdf", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=balance_report.pdf")
	_, _ = w.Write(pdf)
}

func (h *Handler) handleEnqueueExport(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	query, err := h.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	jobID, err := h.queue.EnqueueReportExport(r.Context(), query)
	if err != nil {
		h.logger.Error("enqueue report export", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"jobId":"` + jobID + `"}`))
}

func (h *Handler) handleCatalogReload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ReloadCatalog(r.Context()); err != nil {
		h.logger.Error("reload catalog", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"reloaded"}`))
}

func periodLabel(r *http.Request) string {
	q := r.URL.Query()
	return q.Get("from") + " to " + q.Get("to")
}
