package balance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerview/ledgerview/internal/codes"
)

// Repository implements LedgerSource and CatalogSource against Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// LedgerItems returns posting lines for the fiscal year and inclusive date
// range, optionally narrowed by a document-number range.
func (r *Repository) LedgerItems(ctx context.Context, q ItemQuery) ([]LedgerItem, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT debit, credit, date, document_number, account_code, detail_code FROM ledger_items WHERE fiscal_year_id = $1 AND date >= $2 AND date <= $3`)
	args = append(args, q.FiscalYearID, q.StartDate, q.EndDate)
	if q.DocFrom != nil {
		args = append(args, *q.DocFrom)
		fmt.Fprintf(&sb, " AND document_number >= $%d", len(args))
	}
	if q.DocTo != nil {
		args = append(args, *q.DocTo)
		fmt.Fprintf(&sb, " AND document_number <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY date, document_number")

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, describePgErr("query ledger items", err)
	}
	defer rows.Close()

	var items []LedgerItem
	for rows.Next() {
		var (
			item        LedgerItem
			date        time.Time
			docNumber   *int64
			accountCode *string
			detailCode  *string
		)
		if err := rows.Scan(&item.Debit, &item.Credit, &date, &docNumber, &accountCode, &detailCode); err != nil {
			return nil, err
		}
		item.Date = date
		item.DocumentNumber = docNumber
		if accountCode != nil {
			item.AccountCode = *accountCode
		}
		if detailCode != nil {
			item.DetailCode = *detailCode
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Codes returns the full account-code catalog, no pagination.
func (r *Repository) Codes(ctx context.Context) ([]codes.CodeRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, title, kind FROM account_codes ORDER BY code`)
	if err != nil {
		return nil, describePgErr("query account codes", err)
	}
	defer rows.Close()

	var records []codes.CodeRecord
	for rows.Next() {
		var (
			rec  codes.CodeRecord
			kind string
		)
		if err := rows.Scan(&rec.ID, &rec.Code, &rec.Title, &kind); err != nil {
			return nil, err
		}
		switch strings.ToUpper(kind) {
		case "GROUP":
			rec.Kind = codes.KindGroup
		case "GENERAL":
			rec.Kind = codes.KindGeneral
		case "SPECIFIC":
			rec.Kind = codes.KindSpecific
		default:
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Details returns the full detail catalog.
func (r *Repository) Details(ctx context.Context) ([]codes.DetailRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, title FROM detail_codes ORDER BY code`)
	if err != nil {
		return nil, describePgErr("query detail codes", err)
	}
	defer rows.Close()

	var records []codes.DetailRecord
	for rows.Next() {
		var rec codes.DetailRecord
		if err := rows.Scan(&rec.ID, &rec.Code, &rec.Title); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// describePgErr surfaces the Postgres error code when present.
func describePgErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (%s): %w", op, pgErr.Message, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
