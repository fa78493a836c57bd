package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FundPulse/internal/domain/models"
	domrepo "FundPulse/internal/domain/repository"
	pkgch "FundPulse/pkg/clickhouse"
	applogger "FundPulse/pkg/logger"
)

var _ domrepo.NavHistory = (*CHNavStore)(nil)

// CHNavStore implements NavHistory backed by ClickHouse.
type CHNavStore struct {
	client *pkgch.Client
	db     *sql.DB
	table  string
	l      *applogger.Logger
}

func NewCHNavStore(ch *pkgch.Client, table string) *CHNavStore {
	if table == "" {
		table = "fund_nav_history"
	}
	return &CHNavStore{client: ch, db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHNavStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHNavStore) GetSeries(ctx context.Context, fundCode string, from, to time.Time) (models.NavSeries, error) {
	start := time.Now()
	const qtpl = `
        SELECT date, unit_nav, accumulated_nav, daily_return
        FROM %s
        WHERE fund_code = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, fundCode, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse nav_series query error",
				applogger.String("fund", fundCode),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get nav series: %w", err)
	}
	defer rows.Close()

	out := make(models.NavSeries, 0, 512)
	for rows.Next() {
		var p models.NavPoint
		if err := rows.Scan(&p.Date, &p.UnitNav, &p.AccumulatedNav, &p.DailyReturn); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse nav_series scan error",
					applogger.String("fund", fundCode),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan nav point: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse nav_series rows error",
				applogger.String("fund", fundCode),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse nav_series ok",
			applogger.String("fund", fundCode),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHNavStore) GetLatestN(ctx context.Context, fundCode string, n int) (models.NavSeries, error) {
	start := time.Now()
	const qtpl = `
        SELECT date, unit_nav, accumulated_nav, daily_return
        FROM %s
        WHERE fund_code = ?
        ORDER BY date DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, fundCode, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_nav query error",
				applogger.String("fund", fundCode),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest nav: %w", err)
	}
	defer rows.Close()

	tmp := make(models.NavSeries, 0, n)
	for rows.Next() {
		var p models.NavPoint
		if err := rows.Scan(&p.Date, &p.UnitNav, &p.AccumulatedNav, &p.DailyReturn); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse latest_nav scan error",
					applogger.String("fund", fundCode),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan nav point: %w", err)
		}
		tmp = append(tmp, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse latest_nav ok",
			applogger.String("fund", fundCode),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *CHNavStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *CHNavStore) Close() error {
	return s.client.Close()
}

// SchemaStatements returns idempotent DDL for the NAV history table.
func SchemaStatements(table string) []string {
	if table == "" {
		table = "fund_nav_history"
	}
	return []string{
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            fund_code       LowCardinality(String),
            date            Date,
            unit_nav        Float64,
            accumulated_nav Float64,
            daily_return    Float64
        )
        ENGINE = ReplacingMergeTree
        ORDER BY (fund_code, date)
    `, table),
	}
}
