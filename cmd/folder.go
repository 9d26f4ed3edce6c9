package cmd

import (
	"github.com/spf13/cobra"

	"squish/internal/batch"
)

var folderCmd = &cobra.Command{
	Use:   "folder <root>",
	Short: "Compress one folder into a single shared reduced tree",
	Long: "Mirrors the whole structure under <root> into <root>/reduced, " +
		"prefixing every output with the folder's own name.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, files, err := collectFolder(args[0])
		if err != nil {
			return err
		}
		return runBatch(batch.Job{
			Files:     files,
			InputRoot: root,
			Mode:      batch.SingleFolder,
			Config:    batchConfig(),
		})
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
}
