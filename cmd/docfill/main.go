package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/genai"

	"github.com/docfill/docfill"
	"github.com/docfill/docfill/internal/config"
)

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docfill: %v\n", err)
		pflagUsageHint()
		os.Exit(2)
	}

	log := newLogger(cfg)
	log.Debug("configuration loaded", "config", cfg.String())

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func pflagUsageHint() {
	fmt.Fprintln(os.Stderr, "run with --help for usage")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return log
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	templateBytes, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	pdfBytes, err := os.ReadFile(cfg.PDFPath)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}

	// The credential lives only in this client, built per run.
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.APIKey,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	var detector docfill.PlaceholderDetector
	switch cfg.Detector {
	case config.DetectorStyle:
		detector = docfill.NewStyleDetector()
	default:
		detector = docfill.NewDelimiterDetector(cfg.Delimiters[0], cfg.Delimiters[1])
	}

	extractor := docfill.NewExtractorWithLogger(client, docfill.DefaultPrompts(), log)
	filler := docfill.NewFiller(detector, docfill.WithFillerLogger(log))
	pipeline := docfill.NewPipelineWithLogger(extractor, filler, log)

	res, err := pipeline.Run(ctx, templateBytes, pdfBytes,
		docfill.WithModel(cfg.Model),
		docfill.WithTimeout(cfg.Timeout),
		docfill.WithRetry(cfg.MaxRetries, cfg.Backoff),
	)
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.OutPath, res.Output.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info("output written", "path", cfg.OutPath, "run_id", res.RunID.String())

	if res.Summary.Unfilled > 0 {
		log.Warn("template filled partially",
			"unfilled", res.Summary.Unfilled,
			"placeholders", res.Summary.UnmatchedPlaceholders)
	}

	if cfg.ReportPath != "" {
		f, err := os.Create(cfg.ReportPath)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		if err := docfill.WriteReport(f, res); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info("report written", "path", cfg.ReportPath)
	}

	return nil
}
