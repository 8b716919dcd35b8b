// internal/cli/digest.go
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest <path>",
	Short: "Print the nix hash of an sdist archive or project tree",
	Long: `Hash a file flat, or a directory as its NAR serialization, with SHA-256.
The SRI form can be pasted into a nix fetcher.`,
	Args: cobra.ExactArgs(1),
	RunE: runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	d, err := manager.Fingerprint(args[0])
	if err != nil {
		return err
	}

	return render(cmd, d, func(w io.Writer) {
		field(w, "Path", d.Path)
		field(w, "Mode", d.Mode)
		field(w, "Base16", d.Base16)
		field(w, "Base32", d.Base32)
		field(w, "SRI", d.SRI)
	})
}
