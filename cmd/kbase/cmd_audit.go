package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	auditFrom string
	auditTo   string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show audit entries, newest first",
	RunE:  runAuditList,
}

var auditClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the audit trail",
	Long: `Clear the audit trail. The clearing itself is recorded, so the
trail is never silently empty after a clear.`,
	RunE: runAuditClear,
}

func init() {
	auditListCmd.Flags().StringVar(&auditFrom, "from", "", "Lower bound, dd/mm/yyyy")
	auditListCmd.Flags().StringVar(&auditTo, "to", "", "Upper bound, dd/mm/yyyy")
}

func runAuditList(cmd *cobra.Command, args []string) error {
	from, err := parseDateFlag(auditFrom)
	if err != nil {
		return err
	}
	to, err := parseDateFlag(auditTo)
	if err != nil {
		return err
	}
	if !to.IsZero() {
		// Day bounds are inclusive.
		to = to.Add(24*time.Hour - time.Second)
	}
	entries := application.Audit.Query(from, to)
	if len(entries) == 0 {
		fmt.Println("No audit entries.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-18s %s\n", e.Timestamp, e.Action, e.Details)
	}
	return nil
}

func runAuditClear(cmd *cobra.Command, args []string) error {
	if !confirm(fmt.Sprintf("Clear all %d audit entries?", application.Audit.Len())) {
		fmt.Println("Aborted.")
		return nil
	}
	if err := application.Audit.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Audit trail cleared.")
	return nil
}
