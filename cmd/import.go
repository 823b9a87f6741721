package cmd

import (
	"os"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/bookmarks/providers"
	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/daemon"
	"github.com/ryan-gang/vidmark/internal/logger"
	"github.com/ryan-gang/vidmark/internal/pageinfo"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

var exampleImport = dedent.Dedent(`
	# Import the configured bookmark path once
	vidmark import

	# Import a file where each line is a URL followed by #tags
	#   https://youtu.be/rFejpH_tAHM #go #talks
	vidmark import links.txt`,
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:     "import [PATH]",
	Short:   "Import links from a bookmark file or folder",
	Long:    `Reads URL lines from a file or every file of a folder and bookmarks the ones not saved yet. Runs the same import the daemon runs on every tick.`,
	Example: exampleImport,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)

		path := cfg.GetBookmarkPath()
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			util.LogErrorf(util.ValidationError, "importing", "no path given and no bookmark_path configured")
			os.Exit(1)
		}

		registry, err := daemon.NewFileRegistry(path)
		if err != nil {
			util.LogError(util.BookmarkError, "configuring bookmark provider", err)
			os.Exit(1)
		}

		if fp, err := bookmarks.LookupAs[*providers.FileProvider](registry, providers.FileProviderName); err == nil {
			rootutil.Cyan.Printf("Reading links from %s\n", fp.Path())
		}

		db := cmdutil.OpenStorageOrExit(cfg)
		defer db.Close()

		importer := daemon.NewImporter(registry, db, pageinfo.NewFetcher(0), logger.NewWriterLogger(os.Stdout))
		result, err := importer.Import(cmd.Context())
		if err != nil {
			util.LogError(util.BookmarkError, "importing bookmarks", err)
			os.Exit(1)
		}
		rootutil.GreenBold.Printf("Imported %d of %d links", result.Saved, result.Found)
		rootutil.Cyan.Printf(" (%d already saved, %d without metadata)\n", result.Skipped, result.Failed)
	},
}
