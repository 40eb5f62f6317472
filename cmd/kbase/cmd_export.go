package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportFrom   string
	exportTo     string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export posts or the audit trail",
}

var exportPostsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Export posts as JSON or CSV",
	Long: `Export posts as JSON or CSV. CSV rows can be bounded to a date
range; posts with unreadable dates are skipped once a range is set.`,
	RunE: runExportPosts,
}

var exportAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Export the audit trail as JSON or CSV",
	RunE:  runExportAudit,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the catalog with posts from a JSON export",
	Long: `Replace every stored post with the contents of a JSON export.
The payload must be a JSON array of posts; on a malformed payload
nothing is changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	for _, c := range []*cobra.Command{exportPostsCmd, exportAuditCmd} {
		c.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or csv")
		c.Flags().StringVar(&exportFrom, "from", "", "CSV lower bound, dd/mm/yyyy")
		c.Flags().StringVar(&exportTo, "to", "", "CSV upper bound, dd/mm/yyyy")
		c.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
	}
}

func runExportPosts(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "json":
		data, err := application.ExportPostsJSON(cmd.Context())
		if err != nil {
			return err
		}
		return emit(data)
	case "csv":
		from, to, err := exportRange()
		if err != nil {
			return err
		}
		csvText, err := application.ExportPostsCSV(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		return emit([]byte(csvText))
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
}

func runExportAudit(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "json":
		data, err := application.ExportAuditJSON(cmd.Context())
		if err != nil {
			return err
		}
		return emit(data)
	case "csv":
		from, to, err := exportRange()
		if err != nil {
			return err
		}
		csvText, err := application.ExportAuditCSV(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		return emit([]byte(csvText))
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	if !confirm("Importing replaces every stored post. Continue?") {
		fmt.Println("Aborted.")
		return nil
	}
	n, err := application.ImportPosts(cmd.Context(), data)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d posts.\n", n)
	return nil
}

func exportRange() (from, to time.Time, err error) {
	if from, err = parseDateFlag(exportFrom); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to, err = parseDateFlag(exportTo); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func emit(data []byte) error {
	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, data, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Wrote %s\n", exportOut)
	return nil
}
