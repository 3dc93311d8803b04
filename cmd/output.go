package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/batch"
	"github.com/ginjaninja78/otm-order-generator/internal/clock"
	"github.com/ginjaninja78/otm-order-generator/internal/config"
	"github.com/ginjaninja78/otm-order-generator/internal/report"
	"github.com/ginjaninja78/otm-order-generator/internal/submit"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/ginjaninja78/otm-order-generator/internal/xmlwriter"
	"github.com/ginjaninja78/otm-order-generator/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// SHARED FLAGS
// =============================================================================
// Flags used by both generate and import. Config values are only replaced
// when the flag is given on the command line.

var (
	kindFlag    string
	domain      string
	currency    string
	outputDir   string
	post        bool
	dryRun      bool
	endpointURL string
	username    string
	password    string
	useGzip     bool
	suffixGID   bool
	suffixLines bool
	reportXLSX  string
	reportCSV   string
	writeFiles  bool
	compact     bool
)

func addOrderFlags(c *cobra.Command) {
	f := c.Flags()

	f.StringVar(&kindFlag, "kind", "so", "Order kind: so (Release) or po (TransOrder)")
	f.StringVar(&domain, "domain", "", "GID domain (overrides config)")
	f.StringVar(&currency, "currency", "", "Currency for declared values (overrides config)")
	f.StringVar(&outputDir, "output-dir", "", "Directory for the archive, reports and XML files")
	f.BoolVar(&suffixGID, "suffix-gid", false, "Append _R{n} to order ids")
	f.BoolVar(&suffixLines, "suffix-lines", false, "Append _R{n} to derived line ids of generated sales orders")
	f.BoolVar(&writeFiles, "write-files", false, "Also write one {order_id}.xml per order")
	f.BoolVar(&compact, "compact", false, "Write documents without indentation")
	f.StringVar(&reportXLSX, "report-xlsx", "", "Write the result table to this XLSX file")
	f.StringVar(&reportCSV, "report-csv", "", "Write the result table to this CSV file")

	f.BoolVar(&post, "post", false, "POST each document to the endpoint")
	f.BoolVar(&dryRun, "dry-run", false, "Build everything but never POST")
	f.StringVar(&endpointURL, "endpoint", "", "Integration endpoint URL (must contain dev or test)")
	f.StringVar(&username, "user", "", "Endpoint username")
	f.StringVar(&password, "password", "", "Endpoint password")
	f.BoolVar(&useGzip, "gzip", false, "Gzip request bodies")
}

// applyOrderFlags copies explicitly set flags over the loaded config.
func applyOrderFlags(c *cobra.Command, cfg *config.Config) {
	f := c.Flags()

	if f.Changed("domain") {
		cfg.Domain = domain
	}
	if f.Changed("currency") {
		cfg.Currency = currency
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if f.Changed("suffix-gid") {
		cfg.SuffixInGID = suffixGID
	}
	if f.Changed("suffix-lines") {
		cfg.SuffixInLineIDs = suffixLines
	}
	if f.Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if f.Changed("endpoint") {
		cfg.Endpoint.URL = endpointURL
	}
	if f.Changed("user") {
		cfg.Endpoint.Username = username
	}
	if f.Changed("password") {
		cfg.Endpoint.Password = password
	}
	if f.Changed("gzip") {
		cfg.Endpoint.Gzip = useGzip
	}
}

// newBuilder returns the document builder for a run. --compact drops the
// indentation but keeps the XML declaration.
func newBuilder() *xmlwriter.Builder {
	builder := xmlwriter.NewBuilder(clock.NewSystem())
	if !compact {
		return builder
	}
	options := xmlwriter.DefaultGenerateOptions()
	options.Indent = ""
	return builder.WithOptions(options)
}

// =============================================================================
// RUN OUTPUT
// =============================================================================

// deliver archives, optionally writes and posts the payloads, then prints
// the result table.
//
// STEPS:
//  1. ZIP archive of every document (always)
//  2. One XML file per order (--write-files)
//  3. Submission per order (NOT_POSTED unless --post)
//  4. Console table and summary, optional XLSX / CSV reports
func deliver(c *cobra.Command, cfg *config.Config, prefix string, payloads []types.Payload) error {
	log := app.log
	out := c.OutOrStdout()

	fm := utils.NewFileManager(cfg.OutputDir, cfg.ArchiveNameFormat)
	fm.RunID = app.runID

	archive, err := fm.WriteArchive(prefix, payloads)
	if err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	log.Info("archive written", zap.String("path", archive), zap.Int("orders", len(payloads)))

	if writeFiles {
		paths, err := fm.WriteDocuments(payloads)
		if err != nil {
			return fmt.Errorf("failed to write order files: %w", err)
		}
		log.Info("order files written", zap.Int("files", len(paths)), zap.String("dir", cfg.OutputDir))
	}

	ep := submit.Endpoint{
		URL:      cfg.Endpoint.URL,
		Username: cfg.Endpoint.Username,
		Password: cfg.Endpoint.Password,
		Gzip:     cfg.Endpoint.Gzip,
	}
	if post && !cfg.DryRun && ep.HasCredentials() && !submit.IsNonProdURL(ep.URL) {
		log.Warn("endpoint is not a dev/test URL, posting is blocked", zap.String("url", ep.URL))
	}

	runner := batch.NewRunner(submit.NewClient(cfg.Endpoint.Timeout, log), log)
	results := runner.Run(c.Context(), payloads, batch.Options{
		Post:     post,
		DryRun:   cfg.DryRun,
		Endpoint: ep,
	})

	fmt.Fprintln(out)
	if err := report.Print(out, results); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n", batch.Summarize(results))
	fmt.Fprintf(out, "Archive: %s\n", archive)

	if reportXLSX != "" {
		if err := report.WriteXLSX(reportXLSX, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report:  %s\n", reportXLSX)
	}
	if reportCSV != "" {
		if err := writeCSVReport(reportCSV, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report:  %s\n", reportCSV)
	}

	return nil
}

func writeCSVReport(path string, results []types.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}
	defer file.Close()

	if err := report.WriteCSV(file, results); err != nil {
		return err
	}
	return file.Sync()
}

// parseKindFlag resolves --kind.
func parseKindFlag() (types.Kind, error) {
	return types.ParseKind(strings.TrimSpace(kindFlag))
}
