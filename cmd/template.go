package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/ginjaninja78/otm-order-generator/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	templateFormat string
	templateOut    string
)

// templateCmd writes an import template with sample rows.
var templateCmd = &cobra.Command{
	Use:   "template <so|po>",
	Short: "Write a CSV or XLSX import template",
	Long: `Template writes a starter import file with the expected columns and sample
rows. Use --out - to print a CSV template to stdout.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := types.ParseKind(args[0])
		if err != nil {
			return err
		}

		if templateOut == "-" {
			return utils.WriteTemplate(cmd.OutOrStdout(), kind, templateFormat)
		}

		path := templateOut
		if path == "" {
			path = utils.TemplateFileName(kind, templateFormat)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}

		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		defer file.Close()

		if err := utils.WriteTemplate(file, kind, templateFormat); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Template written: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVarP(&templateFormat, "format", "f", utils.FormatCSV, "Template format: csv or xlsx")
	templateCmd.Flags().StringVarP(&templateOut, "out", "o", "", "Output path (default: <kind>_orders_template.<format>)")
}
