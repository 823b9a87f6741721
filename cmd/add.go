package cmd

import (
	"os"
	"time"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/pageinfo"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

var exampleAdd = dedent.Dedent(`
	# Bookmark a video
	vidmark add "https://www.youtube.com/watch?v=rFejpH_tAHM"

	# Bookmark a video with tags
	vidmark add "https://youtu.be/rFejpH_tAHM" --tag go --tag talks

	# Same, with a comma separated list
	vidmark add "https://youtu.be/rFejpH_tAHM" -t go,talks`,
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringSliceP("tag", "t", nil, "Tags for the bookmark, repeat or comma separate")
	addCmd.Flags().Duration("timeout", 30*time.Second, "Timeout for fetching the page")
}

var addCmd = &cobra.Command{
	Use:     "add [URL]...",
	Short:   "Bookmark video pages",
	Long:    `Fetches each page's title, description and preview image and saves it as a bookmark. Adding a page again updates its details and tags.`,
	Example: exampleAdd,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		db := cmdutil.OpenStorageOrExit(cfg)
		defer db.Close()

		tags, _ := cmd.Flags().GetStringSlice("tag")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		fetcher := pageinfo.NewFetcher(timeout)

		failed := 0
		for _, link := range args {
			meta, err := fetcher.Fetch(cmd.Context(), link)
			if err != nil {
				util.LogError(util.NetworkError, "fetching "+link, err)
				meta = bookmarks.Meta{URL: pageinfo.CanonicalURL(link), Title: pageinfo.CanonicalURL(link)}
			}

			page, err := db.SavePage(cmd.Context(), bookmarks.Bookmark{
				ID:   pageinfo.PageID(link),
				Meta: meta,
				Tags: tags,
			})
			if err != nil {
				util.LogError(util.StorageError, "saving "+link, err)
				failed++
				continue
			}
			rootutil.Green.Printf("Saved %s ", shortID(page.ID))
			rootutil.Cyan.Printf("%s %v\n", page.Meta.Title, page.Tags)
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}
