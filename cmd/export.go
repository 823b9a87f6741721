package cmd

import (
	"context"
	"os"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/export"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

var (
	helpExport = `Exports bookmarks and their notes to a file. The format defaults to the
configured export format. With --tags only bookmarks carrying all of the tags
are exported. Epub exports render notes as chapters with their screenshots.`

	exampleExport = dedent.Dedent(`
		# Export everything in the configured format
		vidmark export

		# Export talks as an epub into ~/Books
		vidmark export --tags talks --format epub --out ~/Books

		# Export with a custom title
		vidmark export --format markdown --title "Conference notes"`,
	)
)

func init() {
	rootCmd.AddCommand(exportCmd)
	addExportFlags(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Directory to write the export to (default: configured store path)")
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("tags", nil, "Export only bookmarks carrying all of these tags")
	cmd.Flags().StringP("format", "f", "", "Export format: json, markdown or epub")
	cmd.Flags().String("title", "", "Title of the export, also used for the file name")
}

// exportSelection writes the bookmarks selected by the command's flags into
// dir and returns the file path
func exportSelection(ctx context.Context, cmd *cobra.Command, session *cmdutil.Session, dir string) (string, error) {
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		format, err := bookmarks.ParseExportFormat(name)
		if err != nil {
			return "", err
		}
		session.State.SetExportFormat(format)
	}

	selected, _ := cmd.Flags().GetStringSlice("tags")
	state, err := session.Load(ctx, selected)
	if err != nil {
		return "", err
	}
	warnUnknownTags(selected, state.Tags)

	ids := make([]string, 0, len(state.Bookmarks))
	for _, b := range state.Bookmarks {
		ids = append(ids, b.ID)
	}

	session.State.SetExporting(true)
	defer session.State.SetExporting(false)

	pages, err := session.DB.GetPagesWithNotes(ctx, ids)
	if err != nil {
		return "", err
	}
	title, _ := cmd.Flags().GetString("title")
	return export.Write(pages, state.Toolbar.ExportFormat, title, dir)
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export bookmarks and notes to a file",
	Long:    helpExport,
	Example: exampleExport,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		session := cmdutil.OpenSession(cmd)
		defer session.Close()
		cfg := session.Config

		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = cfg.GetStorePath()
		}

		path, err := exportSelection(cmd.Context(), cmd, session, dir)
		if err != nil {
			util.LogError(util.ExportError, "exporting bookmarks", err)
			os.Exit(1)
		}
		rootutil.GreenBold.Printf("Exported to %s\n", path)
	},
}
