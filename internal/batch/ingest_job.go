package batch

import (
	"context"
	"credit-approval/internal/config"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/infrastructure/monitoring"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var ErrAlreadyRunning = errors.New("ingestion already running")

type Store interface {
	UpsertCustomer(ctx context.Context, c *customer.Customer) (created bool, err error)
	UpsertLoan(ctx context.Context, l *loan.Loan) (created bool, err error)
	SyncSequences(ctx context.Context) error
}

type Counts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type Result struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Customers Counts `json:"customers"`
	Loans     Counts `json:"loans"`
}

type IngestJob struct {
	store        Store
	customerFile string
	loanFile     string
	running      sync.Mutex
	logger       *slog.Logger
}

func NewIngestJob(store Store, cfg config.BatchConfig, logger *slog.Logger) *IngestJob {
	if store == nil || logger == nil {
		panic("IngestJob dependencies cannot be nil")
	}
	return &IngestJob{
		store:        store,
		customerFile: cfg.CustomerFile,
		loanFile:     cfg.LoanFile,
		logger:       logger.With("job", "IngestData"),
	}
}

// Run ingests customers first and then loans. Bad rows are skipped; an
// unreadable file fails only its own half.
func (j *IngestJob) Run(ctx context.Context) (Result, error) {
	if !j.running.TryLock() {
		j.logger.WarnContext(ctx, "Ingestion already in progress, skipping run.")
		return Result{Status: StatusError, Message: ErrAlreadyRunning.Error()}, ErrAlreadyRunning
	}
	defer j.running.Unlock()

	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting data ingestion job.", "customerFile", j.customerFile, "loanFile", j.loanFile)

	var (
		res  Result
		errs []error
	)

	custCounts, err := j.ingestCustomers(ctx)
	res.Customers = custCounts
	if err != nil {
		errs = append(errs, fmt.Errorf("error ingesting customer data: %w", err))
	}

	loanCounts, err := j.ingestLoans(ctx)
	res.Loans = loanCounts
	if err != nil {
		errs = append(errs, fmt.Errorf("error ingesting loan data: %w", err))
	}

	if custCounts.Created+custCounts.Updated+loanCounts.Created+loanCounts.Updated > 0 {
		if err := j.store.SyncSequences(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error syncing id sequences: %w", err))
		}
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("customers_created", custCounts.Created),
		slog.Int("customers_updated", custCounts.Updated),
		slog.Int("customers_skipped", custCounts.Skipped),
		slog.Int("loans_created", loanCounts.Created),
		slog.Int("loans_updated", loanCounts.Updated),
		slog.Int("loans_skipped", loanCounts.Skipped),
	)

	if len(errs) > 0 {
		joined := errors.Join(errs...)
		res.Status = StatusError
		res.Message = strings.ReplaceAll(joined.Error(), "\n", "; ")
		summaryLog.ErrorContext(ctx, "Data ingestion job finished with errors.", slog.Any("error", joined))
		return res, joined
	}

	res.Status = StatusSuccess
	res.Message = fmt.Sprintf("Data ingested successfully. Customers created: %d, updated: %d. Loans created: %d, updated: %d",
		custCounts.Created, custCounts.Updated, loanCounts.Created, loanCounts.Updated)
	summaryLog.InfoContext(ctx, "Data ingestion job finished successfully.")
	return res, nil
}

func (j *IngestJob) ingestCustomers(ctx context.Context) (Counts, error) {
	var counts Counts
	rows, err := readSheet(j.customerFile, customerHeaders)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to read customer file", slog.Any("error", err))
		return counts, err
	}

	for _, r := range rows {
		logCtx := j.logger.With(slog.Int("row", r.line))
		c, err := parseCustomer(r)
		if err != nil {
			logCtx.WarnContext(ctx, "Skipping malformed customer row", slog.Any("error", err))
			counts.Skipped++
			monitoring.RecordIngestedRow("customer", "skipped")
			continue
		}

		created, err := j.store.UpsertCustomer(ctx, c)
		if err != nil {
			logCtx.WarnContext(ctx, "Skipping customer row, store rejected it", slog.Int64("customerID", c.CustomerID), slog.Any("error", err))
			counts.Skipped++
			monitoring.RecordIngestedRow("customer", "skipped")
			continue
		}
		counts.add(created)
		monitoring.RecordIngestedRow("customer", outcomeLabel(created))
	}
	return counts, nil
}

func (j *IngestJob) ingestLoans(ctx context.Context) (Counts, error) {
	var counts Counts
	rows, err := readSheet(j.loanFile, loanHeaders)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to read loan file", slog.Any("error", err))
		return counts, err
	}

	for _, r := range rows {
		logCtx := j.logger.With(slog.Int("row", r.line))
		l, err := parseLoan(r)
		if err != nil {
			logCtx.WarnContext(ctx, "Skipping malformed loan row", slog.Any("error", err))
			counts.Skipped++
			monitoring.RecordIngestedRow("loan", "skipped")
			continue
		}

		created, err := j.store.UpsertLoan(ctx, l)
		if err != nil {
			logCtx.WarnContext(ctx, "Skipping loan row, store rejected it",
				slog.Int64("loanID", l.ID), slog.Int64("customerID", l.CustomerID), slog.Any("error", err))
			counts.Skipped++
			monitoring.RecordIngestedRow("loan", "skipped")
			continue
		}
		counts.add(created)
		monitoring.RecordIngestedRow("loan", outcomeLabel(created))
	}
	return counts, nil
}

func (c *Counts) add(created bool) {
	if created {
		c.Created++
	} else {
		c.Updated++
	}
}

func outcomeLabel(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}

// sheetRow is one data row keyed by header name; line is the 1-based sheet row.
type sheetRow struct {
	line   int
	values map[string]string
}

func readSheet(path string, required []string) ([]sheetRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}

	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	index := make(map[string]int, len(raw[0]))
	for i, h := range raw[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, h := range required {
		if _, ok := index[h]; !ok {
			return nil, fmt.Errorf("%s is missing column %q", path, h)
		}
	}

	rows := make([]sheetRow, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		if isBlank(cells) {
			continue
		}
		values := make(map[string]string, len(required))
		for _, h := range required {
			if col := index[h]; col < len(cells) {
				values[h] = strings.TrimSpace(cells[col])
			}
		}
		rows = append(rows, sheetRow{line: i + 2, values: values})
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
