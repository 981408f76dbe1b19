package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitenav/internal/db"
	"github.com/ziadkadry99/sitenav/internal/importer"
	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/progress"
	"github.com/ziadkadry99/sitenav/internal/site"
	"github.com/ziadkadry99/sitenav/internal/walker"
)

var (
	importOut     string
	importFrom    string
	importWCMMode string
	importForce   bool
)

var importCmd = &cobra.Command{
	Use:   "import [paths...]",
	Short: "Import published pages as markdown",
	Long: `Converts pages into markdown documents with a metadata block and writes
one file per page under the output directory. Pages are fetched from the
authoring host given by importer.author_host, or read from a local export
with --from. Every page is recorded in the import log; export pages
unchanged since their last import are skipped unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if importFrom == "" && len(args) == 0 {
			return fmt.Errorf("no pages given: pass paths or --from <export dir>")
		}

		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		out := cfg.Importer.OutputDir
		if importOut != "" {
			out = importOut
		}
		wcmmode := cfg.Importer.WCMMode
		if importWCMMode != "" {
			wcmmode = importWCMMode
		}

		batch := &importer.Batch{
			Params:   importer.Params{WCMMode: wcmmode},
			Include:  cfg.Importer.Include,
			Exclude:  cfg.Importer.Exclude,
			OutDir:   out,
			Reporter: progress.NewReporter(),
			Log:      importer.NewStore(database),
			Force:    importForce,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.WithLogger(ctx, logging.Get(0))

		var (
			sum    *importer.Summary
			runErr error
		)
		if importFrom != "" {
			pages, err := walker.Walk(walker.Config{RootDir: importFrom})
			if err != nil {
				return fmt.Errorf("scanning export: %w", err)
			}
			sum, runErr = batch.RunExport(ctx, pages)
		} else {
			if cfg.Importer.AuthorHost == "" {
				return fmt.Errorf("importer.author_host is not configured")
			}
			fetcher, err := importer.NewFetcher(cfg.Importer.AuthorHost, nil)
			if err != nil {
				return fmt.Errorf("configuring importer: %w", err)
			}
			batch.Converter = importer.NewConverter(fetcher)
			sum, runErr = batch.Run(ctx, args)
		}
		if sum != nil {
			printSummary(sum, out)
		}
		return runErr
	},
}

func printSummary(sum *importer.Summary, out string) {
	fmt.Fprintf(os.Stderr, "\nImported %d of %d pages into %s on %s (%d skipped, %d failed)\n",
		sum.Imported, sum.Found, out, site.FormatDateUTCSeconds(time.Now().Unix()), sum.Skipped, sum.Failed)
	for _, e := range sum.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
}

func init() {
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "output directory, overrides importer.output_dir")
	importCmd.Flags().StringVar(&importFrom, "from", "", "import a local content export instead of fetching pages")
	importCmd.Flags().StringVar(&importWCMMode, "wcmmode", "", "wcmmode query parameter sent to the authoring host")
	importCmd.Flags().BoolVar(&importForce, "force", false, "reimport export pages whose content is unchanged since the last import")
	rootCmd.AddCommand(importCmd)
}
