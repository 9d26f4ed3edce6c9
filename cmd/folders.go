package cmd

import (
	"github.com/spf13/cobra"

	"squish/internal/batch"
)

var foldersCmd = &cobra.Command{
	Use:   "folders <root>",
	Short: "Compress each first-level folder under a root independently",
	Long: "Treats every first-level folder under <root> as its own group: each " +
		"group gets a reduced tree mirroring its structure, and the group name " +
		"becomes the filename prefix.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, files, err := collectFolder(args[0])
		if err != nil {
			return err
		}
		return runBatch(batch.Job{
			Files:     files,
			InputRoot: root,
			Mode:      batch.MultiFolder,
			Config:    batchConfig(),
		})
	},
}

func init() {
	rootCmd.AddCommand(foldersCmd)
}
