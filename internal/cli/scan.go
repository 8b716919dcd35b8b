// internal/cli/scan.go
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var scanWorkers int

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Describe every Python project below a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "projects read concurrently (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanWorkers > 0 {
		config.Scan.Workers = scanWorkers
	}

	results, err := manager.Scan(cmd.Context(), pathArg(args))
	if err != nil {
		return err
	}

	return render(cmd, results, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DIR\tNAME\tVERSION\tKIND")
		for _, r := range results {
			if r.Metadata == nil {
				fmt.Fprintf(tw, "%s\t-\t-\terror: %s\n", r.Dir, r.Error)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Dir, r.Metadata.Name, r.Metadata.Version, r.Metadata.Kind)
		}
		tw.Flush()
	})
}
