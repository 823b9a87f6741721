package cmd

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

var exampleNote = dedent.Dedent(`
	# Note at 12:34 into the video, markdown allowed
	vidmark note add 1a2b3c "**Key idea**: channels own their data" --at 12:34

	# Attach a screenshot
	vidmark note add 1a2b3c "Architecture slide" --at 1:02:05 --image slide.png

	# Show notes with links that seek to their timestamp
	vidmark note list 1a2b3c

	# Remove a note by id
	vidmark note remove 7f8e9d`,
)

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteRemoveCmd)

	noteAddCmd.Flags().String("at", "0", "Position in the video, as seconds or [h:]m:ss")
	noteAddCmd.Flags().String("image", "", "Image file attached to the note")
}

var noteCmd = &cobra.Command{
	Use:     "note",
	Short:   "Timestamped notes on bookmarked videos",
	Example: exampleNote,
}

// imageDataURI reads an image file as a data URI
func imageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

var noteAddCmd = &cobra.Command{
	Use:   "add [BOOKMARK] [TEXT]",
	Short: "Add a note to a bookmark",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		session := cmdutil.OpenSession(cmd)
		defer session.Close()

		state, err := session.Thunks.FetchBookmarks(cmd.Context())
		if err != nil {
			util.LogError(util.StorageError, "loading bookmarks", err)
			os.Exit(1)
		}
		pageID, err := resolveID(state.Bookmarks, args[0])
		if err != nil {
			util.LogError(util.BookmarkError, "adding note", err)
			os.Exit(1)
		}

		at, _ := cmd.Flags().GetString("at")
		seconds, err := bookmarks.ParseTimestamp(at)
		if err != nil {
			util.LogError(util.ValidationError, "parsing --at", err)
			os.Exit(1)
		}

		note := bookmarks.Note{ID: uuid.NewString(), Content: args[1], Timestamp: seconds}
		if imagePath, _ := cmd.Flags().GetString("image"); imagePath != "" {
			if note.Image, err = imageDataURI(imagePath); err != nil {
				util.LogError(util.FileError, "reading image", err)
				os.Exit(1)
			}
		}

		if err := session.DB.SaveNote(cmd.Context(), pageID, note); err != nil {
			util.LogError(util.StorageError, "saving note", err)
			os.Exit(1)
		}
		page, err := session.DB.GetPage(cmd.Context(), pageID)
		if err == nil && page != nil {
			session.State.SetBookmark(bookmarks.Bookmark{ID: pageID, Notes: page.Notes})
		}
		rootutil.Green.Printf("Added note %s at %s\n", note.ID, bookmarks.SecondsToTime(seconds))
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list [BOOKMARK]",
	Short: "List the notes of a bookmark",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := cmdutil.OpenSession(cmd)
		defer session.Close()

		state, err := session.Thunks.FetchBookmarks(cmd.Context())
		if err != nil {
			util.LogError(util.StorageError, "loading bookmarks", err)
			os.Exit(1)
		}
		pageID, err := resolveID(state.Bookmarks, args[0])
		if err != nil {
			util.LogError(util.BookmarkError, "listing notes", err)
			os.Exit(1)
		}
		page, err := session.DB.GetPage(cmd.Context(), pageID)
		if err != nil || page == nil {
			util.LogErrorf(util.StorageError, "loading page", "page %s unavailable: %v", pageID, err)
			os.Exit(1)
		}

		rootutil.CyanBold.Println(page.Meta.Title)
		if len(page.Notes) == 0 {
			rootutil.Cyan.Println("No notes yet")
			return
		}
		rows := make([][]string, 0, len(page.Notes))
		for _, n := range page.Notes {
			image := ""
			if n.Image != "" {
				image = "yes"
			}
			rows = append(rows, []string{
				n.ID,
				bookmarks.SecondsToTime(n.Timestamp),
				n.Content,
				image,
				bookmarks.AutoSeekURL(page.Meta.URL, n.Timestamp),
			})
		}
		fmt.Println(renderTable([]string{"ID", "At", "Note", "Image", "Link"}, rows, []columnAlignment{alignLeft, alignRight}))
	},
}

var noteRemoveCmd = &cobra.Command{
	Use:     "remove [NOTE]",
	Aliases: []string{"rm"},
	Short:   "Remove a note by id",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		db := cmdutil.OpenStorageOrExit(cfg)
		defer db.Close()

		if err := db.RemoveNote(cmd.Context(), args[0]); err != nil {
			util.LogError(util.StorageError, "removing note", err)
			os.Exit(1)
		}
		rootutil.Green.Printf("Removed note %s\n", args[0])
	},
}
