package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitenav/internal/importer"
)

var (
	convertAuth string
	convertHTML bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <path>",
	Short: "Convert one page and print the markdown",
	Long:  `Fetches one page from the authoring host and prints its markdown, or its rendered HTML with --html.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Importer.AuthorHost == "" {
			return fmt.Errorf("importer.author_host is not configured")
		}
		fetcher, err := importer.NewFetcher(cfg.Importer.AuthorHost, nil)
		if err != nil {
			return fmt.Errorf("configuring importer: %w", err)
		}

		res, err := importer.NewConverter(fetcher).Convert(cmd.Context(), args[0], importer.Params{
			Authorization: convertAuth,
			WCMMode:       cfg.Importer.WCMMode,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Converted %s\n", res.Path)
		if convertHTML {
			fmt.Print(res.HTML)
			return nil
		}
		fmt.Print(res.Markdown)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertAuth, "authorization", "", "Authorization header sent to the authoring host")
	convertCmd.Flags().BoolVar(&convertHTML, "html", false, "print the rendered HTML instead of markdown")
	rootCmd.AddCommand(convertCmd)
}
