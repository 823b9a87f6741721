package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/config"
	"github.com/ryan-gang/vidmark/util"
)

func init() {
	var configPath string
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		util.Red.Println("Error setting default config path: ", err)
		os.Exit(1)
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "Path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every bookmark store change")
}

var rootCmd = &cobra.Command{
	Use:   "vidmark",
	Short: "Bookmark videos, tag them and take timestamped notes",
	Long: `vidmark keeps a local library of video bookmarks with tags and
timestamped notes.

It can:
- Save video pages with their title, description and preview image
- Filter the library by tags, re-querying storage whenever the selection changes
- Export bookmarks and notes as JSON, markdown or epub and mail the export
- Import links from a bookmark file/folder, once or from a background daemon
- Watch a video in a browser and report when ads start and stop`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help if no command is provided
		cmd.Help()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
