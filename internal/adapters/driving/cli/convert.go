package cli

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaek-labs/bindery-cli/internal/adapters/driven/assets"
	"github.com/chaek-labs/bindery-cli/internal/adapters/driven/epub"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driving"
	"github.com/chaek-labs/bindery-cli/internal/core/services"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert text files under the asset directory into EPUB books",
	Long: `Scans the asset directory for .txt files (pairing each with a cover
image when one is found), converts them concurrently and writes one EPUB
per book into the output directory. Existing outputs are skipped unless
--overwrite is given.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("assets", "a", "assets", "input directory")
	convertCmd.Flags().StringP("out", "o", "out", "output directory")
	convertCmd.Flags().IntP("workers", "w", 0, "CPU worker pool size (default: number of CPUs)")
	convertCmd.Flags().IntP("concurrency", "c", 0, "max books in flight (default: workers)")
	convertCmd.Flags().BoolP("dry-run", "n", false, "print the conversion plan without writing")
	convertCmd.Flags().DurationP("timeout", "t", 0, "global timeout for the whole batch")
	convertCmd.Flags().BoolP("overwrite", "f", false, "overwrite existing output files")
	convertCmd.Flags().String("language", "", "document language tag (default \"ko\")")
	convertCmd.Flags().Bool("watch", false, "keep running and convert newly arriving files")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	assetDir := configString(cmd, "assets", "convert.assets", "assets")
	outDir := configString(cmd, "out", "convert.output", "out")
	workers := configInt(cmd, "workers", "convert.workers", runtime.NumCPU())
	concurrency := configInt(cmd, "concurrency", "convert.concurrency", workers)
	language := configString(cmd, "language", "convert.language", "ko")
	overwrite := configBool(cmd, "overwrite", "convert.overwrite")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	watch, _ := cmd.Flags().GetBool("watch")

	// Interrupt cancels in-flight books; they unwind within the grace period.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scanner := assets.NewScanner()

	pool := services.NewWorkerPool(workers)
	defer pool.Close()

	converter := services.NewConverter(epub.NewWriter(), language, pool)

	opts := driving.BatchOptions{
		Concurrency: concurrency,
		DryRun:      dryRun,
		Overwrite:   overwrite,
		Timeout:     timeout,
	}

	runOnce := func(ctx context.Context) (*driving.BatchResult, error) {
		books, err := scanner.Scan(ctx, assetDir)
		if err != nil {
			return nil, err
		}
		if len(books) == 0 {
			cmd.Printf("No books found in %s\n", assetDir)
			return &driving.BatchResult{}, nil
		}

		report, finish := newProgressReporter(cmd, len(books))
		batch := services.NewBatch(converter, history, report)
		result, err := batch.Run(ctx, books, outDir, opts)
		finish()
		return result, err
	}

	start := time.Now()
	result, err := runOnce(ctx)
	if err != nil {
		return err
	}
	printSummary(cmd, result, time.Since(start))

	if watch && !dryRun {
		return watchAssets(ctx, cmd, assetDir, runOnce)
	}
	return nil
}

// printSummary writes the batch outcome counters.
func printSummary(cmd *cobra.Command, result *driving.BatchResult, elapsed time.Duration) {
	if result == nil {
		return
	}
	cmd.Printf("Converted %d book(s) in %s", result.Converted, elapsed.Round(time.Millisecond))
	if result.Skipped > 0 {
		cmd.Printf(", %d skipped", result.Skipped)
	}
	if result.Cancelled > 0 {
		cmd.Printf(", %d cancelled", result.Cancelled)
	}
	if result.Failed > 0 {
		cmd.Printf(", %d failed", result.Failed)
	}
	cmd.Println()
}
