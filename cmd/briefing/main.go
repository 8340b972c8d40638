package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"briefing/internal/api"
	"briefing/internal/config"
	"briefing/internal/connectors"
	gmailconnector "briefing/internal/connectors/gmail"
	imapconnector "briefing/internal/connectors/imap"
	"briefing/internal/listener"
	"briefing/internal/pipeline"
	"briefing/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		handler := api.NewHandler(db)
		server := api.NewServer(handler, cfg.BriefingAPIKey)
		fmt.Printf("listening on :%s\n", cfg.Port)
		must(server.Run(":" + cfg.Port))
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailProvider, "gmail|imap")
		max := fs.Int("max", cfg.MailFetchMax, "max messages")
		lookback := fs.Int("lookback", cfg.MailLookbackSec, "lookback window in seconds")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		since := time.Now().Add(-time.Duration(*lookback) * time.Second)
		result, err := fetch.FetchAndStore(since, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "", "restrict to one provider")
		batch := fs.Int("batch", cfg.MailProcessBatch, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg)
		result, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed emails=%d skipped=%d failed=%d newItems=%d date=%s\n",
			result.Processed, result.Skipped, result.Failed, result.NewItems, result.Date)
	case "mail:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		date := fs.String("date", "", "briefing date YYYY-MM-DD")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*date) == "" {
			must(fmt.Errorf("--date is required"))
		}
		doc, err := db.GetBriefing(*date)
		must(err)
		if doc == nil {
			must(fmt.Errorf("no briefing for date=%s", *date))
		}
		outputPath := *out
		if strings.TrimSpace(outputPath) == "" {
			outputPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("briefing_%s.xlsx", *date))
		}
		must(pipeline.ExportBriefingToXLSX(doc, outputPath))
		fmt.Printf("exported briefing %s to %s\n", *date, outputPath)
	default:
		usage()
		os.Exit(1)
	}
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: briefing <command>")
	fmt.Println("commands:")
	fmt.Println("  serve")
	fmt.Println("  mail:fetch --provider=gmail|imap --max=50 [--lookback=900]")
	fmt.Println("  mail:process [--provider=gmail|imap] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  export:xlsx --date=2025-01-15 [--out=./out/briefing.xlsx]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
