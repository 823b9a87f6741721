package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove [ID]...",
	Aliases: []string{"rm"},
	Short:   "Remove bookmarks together with their notes",
	Long:    `Removes bookmarks by id. A unique id prefix, as shown by 'vidmark list', is enough.`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := cmdutil.OpenSession(cmd)
		defer session.Close()

		state, err := session.Thunks.FetchBookmarks(cmd.Context())
		if err != nil {
			util.LogError(util.StorageError, "loading bookmarks", err)
			os.Exit(1)
		}

		failed := 0
		for _, ref := range args {
			id, err := resolveID(state.Bookmarks, ref)
			if err != nil {
				util.LogError(util.BookmarkError, "removing", err)
				failed++
				continue
			}
			next, err := session.Thunks.RemoveBookmark(cmd.Context(), id)
			if err != nil {
				util.LogError(util.StorageError, "removing "+id, err)
				failed++
				continue
			}
			state = next
			rootutil.Green.Printf("Removed %s\n", shortID(id))
		}
		rootutil.Cyan.Printf("%d bookmarks left\n", len(state.Bookmarks))
		if failed > 0 {
			os.Exit(1)
		}
	},
}
