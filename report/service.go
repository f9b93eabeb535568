package report

import (
	"context"
	"fmt"
	"time"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

// Source provides a snapshot of all stored transactions. Order is not
// guaranteed.
type Source interface {
	Transactions(ctx context.Context) ([]ledger.Transaction, error)
}

// Service computes reports over a Source. Each call reads one fresh
// snapshot; the service itself holds no transaction state and is safe for
// concurrent use.
type Service struct {
	source Source
	chart  *ledger.Chart
	config *Config
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithChart sets the classification table. Defaults to ledger.DefaultChart.
func WithChart(chart *ledger.Chart) ServiceOption {
	return func(s *Service) {
		s.chart = chart
	}
}

// WithConfig sets the report account lists. When unset, the config is taken
// from the request context with ConfigFromContext.
func WithConfig(cfg *Config) ServiceOption {
	return func(s *Service) {
		s.config = cfg
	}
}

// NewService creates a report service reading from source.
func NewService(source Source, opts ...ServiceOption) *Service {
	s := &Service{source: source, chart: ledger.DefaultChart()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chart returns the classification table used by the service.
func (s *Service) Chart() *ledger.Chart {
	return s.chart
}

// Config returns the account lists in effect for ctx.
func (s *Service) Config(ctx context.Context) *Config {
	if s.config != nil {
		return s.config
	}
	return ConfigFromContext(ctx)
}

// Snapshot reads all transactions from the source. Read failures are
// returned as *ledger.StorageUnavailableError.
func (s *Service) Snapshot(ctx context.Context) ([]ledger.Transaction, error) {
	timer := telemetry.StartTimer(ctx, "report.snapshot")
	defer timer.End()

	txns, err := s.source.Transactions(ctx)
	if err != nil {
		return nil, ledger.NewStorageUnavailableError("read transactions", err)
	}
	return txns, nil
}

// Balances returns the per-account balances of all transactions in chart
// order.
func (s *Service) Balances(ctx context.Context) ([]ledger.AccountBalance, error) {
	txns, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("report.balances (%d transactions)", len(txns)))
	defer timer.End()

	return ledger.SortedBalances(s.chart, ledger.AggregateBalances(s.chart, txns)), nil
}

// BalanceSheet returns the balance sheet as of the end of the asOf day.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheet, error) {
	txns, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("report.balance_sheet (%d transactions)", len(txns)))
	defer timer.End()

	return ComputeBalanceSheet(s.chart, txns, asOf), nil
}

// IncomeStatement returns the income statement of the given range.
func (s *Service) IncomeStatement(ctx context.Context, start, end time.Time) (*IncomeStatement, error) {
	if err := ledger.CheckRange(start, end); err != nil {
		return nil, err
	}

	txns, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("report.income_statement (%d transactions)", len(txns)))
	defer timer.End()

	return ComputeIncomeStatement(s.Config(ctx), txns, start, end)
}

// PeriodReport returns the period report of the given range and category.
func (s *Service) PeriodReport(ctx context.Context, start, end time.Time, category Category) (*PeriodReport, error) {
	if err := ledger.CheckRange(start, end); err != nil {
		return nil, err
	}

	txns, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("report.period (%d transactions)", len(txns)))
	defer timer.End()

	return ComputePeriodReport(s.Config(ctx), txns, start, end, category)
}
