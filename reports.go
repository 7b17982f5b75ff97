package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"MomentumBot/internal/operations/backtest"
)

// writeReports dumps the equity curve and the closed-trade log as CSV files
// under dir, creating it if needed.
func writeReports(dir string, results *backtest.Results) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir %s: %w", dir, err)
	}

	equityPath := filepath.Join(dir, "backtest_equity.csv")
	if err := writeEquityCSV(equityPath, results.EquityCurve); err != nil {
		return err
	}

	tradesPath := filepath.Join(dir, "backtest_trades.csv")
	if err := writeTradesCSV(tradesPath, results.Trades); err != nil {
		return err
	}

	log.Info().Str("equity", equityPath).Str("trades", tradesPath).Msg("reports written")
	return nil
}

func writeEquityCSV(path string, curve []backtest.EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "equity"}); err != nil {
		return err
	}
	for _, point := range curve {
		record := []string{
			point.Date.Format("2006-01-02"),
			strconv.FormatFloat(point.Equity, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTradesCSV(path string, trades []backtest.ClosedTrade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"ticker", "entry_date", "exit_date", "entry_price", "exit_price", "units", "pnl_base", "pnl_pct"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, trade := range trades {
		record := []string{
			trade.Ticker,
			trade.EntryDate.Format("2006-01-02"),
			trade.ExitDate.Format("2006-01-02"),
			strconv.FormatFloat(trade.EntryPrice, 'f', 4, 64),
			strconv.FormatFloat(trade.ExitPrice, 'f', 4, 64),
			strconv.FormatFloat(trade.Units, 'f', 4, 64),
			strconv.FormatFloat(trade.PnLBase, 'f', 2, 64),
			strconv.FormatFloat(trade.PnLPct, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
