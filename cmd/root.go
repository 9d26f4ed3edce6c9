package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	maxKB        int
	startQuality int
	maxWidth     int
	plainOutput  bool
	allowNetwork bool
)

var rootCmd = &cobra.Command{
	Use:   "squish",
	Short: "squish 🗜 - batch-compress images to size-budgeted JPEGs",
	Long: "squish 🗜 compresses folders or hand-picked images to JPEG under a " +
		"target file size, renaming outputs with a folder-derived prefix into " +
		"per-folder \"reduced\" trees.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().IntVar(&maxKB, "max-kb", 150, "target output size in kilobytes")
	rootCmd.PersistentFlags().IntVarP(&startQuality, "quality", "q", 85, "starting JPEG quality (1-100)")
	rootCmd.PersistentFlags().IntVar(&maxWidth, "max-width", 1024, "downscale images wider than this")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "line-oriented progress instead of the full-screen UI")
	rootCmd.PersistentFlags().BoolVar(&allowNetwork, "allow-network", false, "allow roots that look like network mounts")
}
