package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

var exampleList = dedent.Dedent(`
	# List every bookmark
	vidmark list

	# Only bookmarks tagged both go and talks
	vidmark list --tags go,talks

	# Start from go, then toggle talks on and go off again
	vidmark list --tags go --toggle talks --toggle go`,
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringSlice("tags", nil, "Show only bookmarks carrying all of these tags")
	listCmd.Flags().StringArray("toggle", nil, "Toggle a tag's selection after loading, in order")
	listCmd.Flags().Bool("clear", false, "Clear the tag selection after loading")
	listCmd.Flags().Bool("hide-tags", false, "Do not print the tag bar")
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List bookmarks, optionally filtered by tags",
	Example: exampleList,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		session := cmdutil.OpenSession(cmd)
		defer session.Close()

		selected, _ := cmd.Flags().GetStringSlice("tags")
		state, err := session.Load(cmd.Context(), selected)
		if err != nil {
			util.LogError(util.StorageError, "loading bookmarks", err)
			os.Exit(1)
		}

		toggles, _ := cmd.Flags().GetStringArray("toggle")
		warnUnknownTags(append(append([]string(nil), selected...), toggles...), state.Tags)
		for _, name := range toggles {
			session.State.SelectTag(name)
		}
		if clear, _ := cmd.Flags().GetBool("clear"); clear {
			session.State.UnSelectTags()
		}
		if hide, _ := cmd.Flags().GetBool("hide-tags"); hide {
			session.State.SetFiltering(false)
		}
		if err := session.Sync.Wait(); err != nil {
			util.LogError(util.StorageError, "filtering bookmarks", err)
			os.Exit(1)
		}
		state = session.State.Snapshot()

		if state.Toolbar.Filtering && len(state.Tags) > 0 {
			rootutil.Cyan.Printf("Tags: %s\n", tagLine(state.Tags))
			if names := state.SelectedTagNames(); len(names) > 0 {
				rootutil.Magenta.Printf("Showing bookmarks tagged %s\n", strings.Join(names, " + "))
			}
		}
		if len(state.Bookmarks) == 0 {
			rootutil.Cyan.Println("No bookmarks found")
			return
		}
		fmt.Println(renderTable(
			[]string{"#", "ID", "Title", "Tags", "Notes", "Added"},
			bookmarkRows(state.Bookmarks),
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
	},
}
