package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

func init() {
	rootCmd.AddCommand(tagsCmd)
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag with its bookmark count",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		session := cmdutil.OpenSession(cmd)
		defer session.Close()

		state, err := session.Load(cmd.Context(), nil)
		if err != nil {
			util.LogError(util.StorageError, "loading tags", err)
			os.Exit(1)
		}
		if len(state.Tags) == 0 {
			rootutil.Cyan.Println("No tags yet")
			return
		}

		counts := make(map[string]int)
		for _, b := range state.Bookmarks {
			for _, tag := range b.Tags {
				counts[tag]++
			}
		}
		rows := make([][]string, 0, len(state.Tags))
		for _, tag := range state.Tags {
			rows = append(rows, []string{tag.Name, strconv.Itoa(counts[tag.Name])})
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return counts[rows[i][0]] > counts[rows[j][0]]
		})
		fmt.Println(renderTable([]string{"Tag", "Bookmarks"}, rows, []columnAlignment{alignLeft, alignRight}))
	},
}
