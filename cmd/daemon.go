package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/config"
	"github.com/ryan-gang/vidmark/internal/daemon"
	"github.com/ryan-gang/vidmark/internal/logger"
	"github.com/ryan-gang/vidmark/internal/pageinfo"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

const stopTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonRestartCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Daemon management commands",
	Long:  `Manage the vidmark background daemon that imports new links from the configured bookmark file/folder.`,
}

func runDaemon(cfg config.ConfigProvider) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		util.LogError(util.DaemonError, "creating logger", err)
		os.Exit(1)
	}

	registry, err := daemon.NewFileRegistry(cfg.GetBookmarkPath())
	if err != nil {
		util.LogError(util.DaemonError, "configuring bookmark provider", err)
		os.Exit(1)
	}

	db := cmdutil.OpenStorageOrExit(cfg)
	defer db.Close()

	importer := daemon.NewImporter(registry, db, pageinfo.NewFetcher(0), log)
	d := daemon.NewDaemon(cfg, importer, log)
	if err := d.Start(); err != nil {
		util.LogError(util.DaemonError, "starting daemon", err)
		os.Exit(1)
	}
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the vidmark daemon",
	Long:  `Start the background daemon that imports new links from the configured bookmark path every configured interval.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		cmdutil.CheckDaemonEnabledOrExit(cfg)
		runDaemon(cfg)
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the vidmark daemon",
	Long:  `Stop the running background daemon.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)

		err := daemon.Terminate(cfg, stopTimeout)
		if errors.Is(err, daemon.ErrNotRunning) {
			rootutil.Red.Println("Daemon is not running")
			return
		}
		if err != nil {
			util.LogError(util.DaemonError, "stopping daemon", err)
			os.Exit(1)
		}
		rootutil.Green.Println("Daemon stopped successfully")
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check daemon status",
	Long:  `Check if the vidmark daemon is currently running and display its configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		if err := daemon.Status(cfg); err != nil {
			os.Exit(1)
		}
	},
}

var daemonRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the vidmark daemon",
	Long:  `Stop and then start the vidmark daemon.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		cmdutil.CheckDaemonEnabledOrExit(cfg)

		// Stop if running
		if _, err := daemon.Running(cfg); err == nil {
			rootutil.Cyan.Println("Stopping existing daemon...")
			if err := daemon.Terminate(cfg, stopTimeout); err != nil && !errors.Is(err, daemon.ErrNotRunning) {
				util.LogError(util.DaemonError, "stopping daemon", err)
				os.Exit(1)
			}
		}

		rootutil.Cyan.Println("Starting daemon...")
		runDaemon(cfg)
	},
}
