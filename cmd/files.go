package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"squish/internal/batch"
	"squish/internal/discover"
	"squish/pkg/imgutil"
)

var filesPrefix string

var filesCmd = &cobra.Command{
	Use:   "files <image>...",
	Short: "Compress hand-picked images next to their sources",
	Long: "Compresses each listed image into a reduced folder beside the file " +
		"itself. An optional prefix is prepended to every output name.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := make([]string, 0, len(args))
		for _, arg := range args {
			if !discover.IsImage(arg) {
				return fmt.Errorf("%s is not a supported image (jpg, jpeg, png)", arg)
			}
			abs, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			kind, err := imgutil.SniffFile(abs)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", abs, err)
			}
			if kind == imgutil.KindUnknown {
				return fmt.Errorf("%s does not look like a JPEG or PNG file", abs)
			}
			files = append(files, abs)
		}

		return runBatch(batch.Job{
			Files:  files,
			Mode:   batch.AdHocFiles,
			Prefix: filesPrefix,
			Config: batchConfig(),
		})
	},
}

func init() {
	filesCmd.Flags().StringVarP(&filesPrefix, "prefix", "p", "", "prefix for output filenames (may be empty)")

	rootCmd.AddCommand(filesCmd)
}
