package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/app"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

func main() {
	var (
		docType = flag.String("type", "", "document type override; empty or \"auto\" classifies")
		timeout = flag.Duration("timeout", 3*time.Minute, "overall timeout")
		quiet   = flag.Bool("json", false, "print only the JSON record")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: docmind-extract [flags] <file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		color.Red("configuration error: %v", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	rec, err := a.Processor.ProcessFile(ctx, path, *docType)
	if err != nil {
		color.Red("failed: %v", err)
		os.Exit(1)
	}

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		color.Red("encode: %v", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
	if !*quiet {
		printSummary(rec)
	}
}

func printSummary(rec entity.UniformRecord) {
	title := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	switch constants.Category(rec.DocumentType) {
	case constants.Invoice:
		title.Printf("INVOICE %s  %s\n", rec.InvoiceNumber, rec.VendorName)
		fmt.Printf("  date:   %s\n", rec.InvoiceDate)
		fmt.Printf("  items:  %d\n", len(rec.LineItems))
		fmt.Printf("  tax:    %s %s\n", rec.TaxAmount, rec.Currency)
		if rec.DiscountAmount != nil {
			fmt.Printf("  disc.:  %s %s\n", *rec.DiscountAmount, rec.Currency)
		}
		fmt.Printf("  total:  %s %s\n", rec.TotalAmount, rec.Currency)
	case constants.Contract:
		title.Printf("CONTRACT %s\n", rec.ContractType)
		for _, p := range rec.PartiesInvolved {
			fmt.Printf("  party:  %s\n", p)
		}
		riskColor(rec.OverallRiskLevel).Printf("  risk:   %s\n", rec.OverallRiskLevel)
	default:
		color.Yellow("UNSUPPORTED %s", rec.DocumentType)
	}

	switch rec.ValidationLog {
	case "":
		color.Green("  validation: passed")
	case constants.LogManualReview:
		color.Red("  validation: %s", rec.ValidationLog)
	default:
		color.Yellow("  validation: %s", rec.ValidationLog)
	}
}

func riskColor(level string) *color.Color {
	switch level {
	case entity.RiskHigh:
		return color.New(color.FgRed, color.Bold)
	case entity.RiskMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
