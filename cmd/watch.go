package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/logger"
	"github.com/ryan-gang/vidmark/internal/player"
	"github.com/ryan-gang/vidmark/internal/util"
	"github.com/ryan-gang/vidmark/internal/watcher"
	rootutil "github.com/ryan-gang/vidmark/util"
)

const openTimeout = 60 * time.Second

var exampleWatch = dedent.Dedent(`
	# Play a video in a visible browser and report ad breaks until Ctrl+C
	vidmark watch "https://www.youtube.com/watch?v=rFejpH_tAHM" --headless=false

	# Start at 12:34 and stop after ten minutes
	vidmark watch "https://youtu.be/rFejpH_tAHM" --at 12:34 --duration 10m`,
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("selector", "", "CSS selector of the player element (default: configured player_selector)")
	watchCmd.Flags().String("class", "", "Class marking an ad break (default: configured ad_class_name)")
	watchCmd.Flags().Bool("headless", true, "Run the browser without a window")
	watchCmd.Flags().String("at", "", "Start playback at this position, as seconds or [h:]m:ss")
	watchCmd.Flags().Duration("duration", 0, "Stop watching after this long, 0 watches until interrupted")
}

var watchCmd = &cobra.Command{
	Use:     "watch [URL]",
	Short:   "Open a video and report when ads start and stop",
	Long:    `Opens the video in a Chrome browser and watches the player element's class list. While the ad class is present note capture is paused; a summary of ad breaks is printed on exit.`,
	Example: exampleWatch,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)

		selector, _ := cmd.Flags().GetString("selector")
		if selector == "" {
			selector = cfg.GetPlayerSelector()
		}
		className, _ := cmd.Flags().GetString("class")
		if className == "" {
			className = cfg.GetAdClassName()
		}
		headless := cfg.IsHeadless()
		if cmd.Flags().Changed("headless") {
			headless, _ = cmd.Flags().GetBool("headless")
		}

		pageURL := args[0]
		if at, _ := cmd.Flags().GetString("at"); at != "" {
			seconds, err := bookmarks.ParseTimestamp(at)
			if err != nil {
				util.LogError(util.ValidationError, "parsing --at", err)
				os.Exit(1)
			}
			pageURL = bookmarks.AutoSeekURL(pageURL, seconds)
		}

		log, err := logger.NewLogger(cfg)
		if err != nil {
			util.LogError(util.WatchError, "creating logger", err)
			os.Exit(1)
		}
		defer log.Close()

		tabCtx, closeBrowser := player.NewBrowser(headless)
		defer closeBrowser()

		openCtx, cancelOpen := context.WithTimeout(tabCtx, openTimeout)
		err = player.Open(openCtx, pageURL, selector)
		cancelOpen()
		if err != nil {
			util.LogError(util.WatchError, "opening "+pageURL, err)
			return
		}

		// a missing player attaches nothing; keep the source an untyped nil
		var source watcher.ClassSource
		chrome, err := player.AttachChrome(tabCtx, selector)
		if err != nil && !errors.Is(err, player.ErrElementNotFound) {
			util.LogError(util.WatchError, "attaching to player", err)
			return
		}
		if err == nil {
			source = chrome
		}

		gate := player.NewCaptureGate(log)
		yt := player.NewYoutubePlayer(source, className, gate.Handlers())
		defer yt.Close()
		if !yt.Attached() {
			log.Warnf("No player matches %s, ads will not be reported", selector)
		}

		log.Infof("Watching %s for class %q on %s", pageURL, className, selector)
		rootutil.Cyan.Println("Press Ctrl+C to stop")

		var timeout <-chan time.Time
		if d, _ := cmd.Flags().GetDuration("duration"); d > 0 {
			timeout = time.After(d)
		}
		select {
		case <-cmd.Context().Done():
		case <-tabCtx.Done():
			log.Warn("Browser closed")
		case <-timeout:
		}

		ads, total := gate.Stats()
		rootutil.GreenBold.Printf("Saw %d ad breaks, %s in total\n", ads, total.Round(time.Second))
	},
}
