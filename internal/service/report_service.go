package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/report"
)

type reportService struct {
	ledger  LedgerService
	catalog TaskCatalog
	opts    options
}

func NewReportService(ledger LedgerService, catalog TaskCatalog, opts ...Option) ReportService {
	return &reportService{ledger: ledger, catalog: catalog, opts: buildOptions(opts)}
}

func (s *reportService) Generate(ctx context.Context, req ReportRequest) (rep *domain.TimeReport, err error) {
	startedAt := time.Now()
	fields := map[string]any{"period": string(req.Period)}
	defer observe(ctx, s.opts.observer, "generate-report", startedAt, fields, &err)

	period := req.Period
	if period == "" {
		period = domain.PeriodWeek
	}
	if _, err = report.ParsePeriod(string(period)); err != nil {
		return nil, err
	}

	start, end := req.Start, req.End
	if start.IsZero() || end.IsZero() {
		ps, pe := report.PeriodBounds(period, s.opts.now().In(s.opts.location))
		if start.IsZero() {
			start = ps
		}
		if end.IsZero() {
			end = pe
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("report range ends (%s) before it starts (%s)",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	r := report.GenerateWith(s.ledger.List(ctx), req.UserID,
		domain.ReportWindow{Start: start, End: end, Period: period},
		report.Options{
			Location: s.opts.location,
			Title:    func(taskID string) string { return titleOrID(s.catalog, taskID) },
		})
	fields["entries"] = len(r.Entries)
	return &r, nil
}
