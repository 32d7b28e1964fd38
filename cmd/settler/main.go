// Package main provides the settler operations CLI. It opens the local
// settlement database and prints recent settlement attempts with their
// per-leg outcomes, so operators can audit what reached the chain without
// touching a wallet.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	platformcmd "github.com/croftland/croftland/internal/platform/cmd"
	"github.com/croftland/croftland/internal/platform/config"
	"github.com/croftland/croftland/internal/storage"
	"github.com/croftland/croftland/internal/storage/sqlite"
)

type settlerConfig struct {
	DBPath string `env:"CROFTLAND_DB_PATH" envDefault:"croftland.db"`
}

func main() {
	var cfg settlerConfig
	var limit int

	fs := flag.NewFlagSet(platformcmd.ServiceSettler, flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "settlement database path (overrides CROFTLAND_DB_PATH)")
	fs.IntVar(&limit, "limit", 20, "number of settlements to list, newest first")

	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, os.Args[1:]); err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSettler, func(ctx context.Context) error {
		return run(ctx, cfg, limit, os.Stdout)
	})
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}

func run(ctx context.Context, cfg settlerConfig, limit int, out io.Writer) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open settlement store: %w", err)
	}
	defer store.Close()

	records, err := store.ListSettlements(ctx, limit)
	if err != nil {
		return fmt.Errorf("list settlements: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "no settlements recorded")
		return nil
	}
	return printSettlements(out, records)
}

func printSettlements(out io.Writer, records []storage.SettlementRecord) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SETTLED AT\tSESSION\tACTIONS\tSAVINGS USD\tLEGS")
	for _, record := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\n",
			record.SettledAt.Format("2006-01-02 15:04:05"),
			record.SessionID,
			record.ActionCount,
			record.SavingsUSD,
			len(record.Legs),
		)
		for _, leg := range record.Legs {
			detail := leg.TxHash
			if leg.Error != "" {
				detail = leg.Error
			}
			fmt.Fprintf(w, "  %s\t%s\t\t\t%s\n", leg.Protocol, leg.Status, detail)
		}
	}
	return w.Flush()
}
