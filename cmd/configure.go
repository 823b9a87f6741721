package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/config"
	"github.com/ryan-gang/vidmark/util"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure vidmark settings",
	Long: `Configure vidmark settings including the bookmark database, export format,
email delivery, bookmark import path and check interval.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		if _, err := os.Stat(configPath); err != nil {
			util.CyanBold.Println("Creating new configuration...")
			cfg := config.CreateConfig()
			config.SetDefaults(cfg, configPath)
			if err := config.Save(*cfg, configPath); err != nil {
				util.Red.Printf("Error saving configuration: %v\n", err)
				os.Exit(1)
			}
			config.InitializeConfig(cfg)
			util.Green.Printf("Configuration saved to %s\n", configPath)
		} else {
			util.CyanBold.Println("Updating existing configuration...")
			cfg, err := config.Load(configPath)
			if err != nil {
				util.Red.Printf("Error loading configuration: %v\n", err)
				os.Exit(1)
			}

			util.Cyan.Println("\nCurrent settings:")
			util.Cyan.Printf("Database: %s\n", cfg.DatabasePath)
			util.Cyan.Printf("Export format: %s\n", cfg.ExportFormat)
			util.Cyan.Printf("Daemon enabled: %t\n", cfg.DaemonEnabled)
			util.Cyan.Printf("Bookmark path: %s\n", cfg.BookmarkPath)
			util.Cyan.Printf("Check interval: %d minutes\n", cfg.CheckInterval)

			util.CyanBold.Println("\nUpdate configuration? (y/n):")
			response := util.ScanlineTrim()

			if response == "y" || response == "Y" || response == "yes" {
				util.Cyan.Printf("Export format, json, markdown or epub (current: %s): ", cfg.ExportFormat)
				if format := util.ScanlineTrim(); format != "" {
					if parsed, err := bookmarks.ParseExportFormat(format); err == nil {
						cfg.ExportFormat = string(parsed)
					} else {
						util.Red.Println(err)
					}
				}

				util.Cyan.Printf("Path to bookmark file/folder to import (current: %s, empty to disable): ", cfg.BookmarkPath)
				newPath := util.ScanlineTrim()

				if newPath == "" {
					cfg.DaemonEnabled = false
					cfg.BookmarkPath = ""
				} else {
					cfg.DaemonEnabled = true
					cfg.BookmarkPath = newPath

					util.Cyan.Printf("Check interval in minutes (current: %d): ", cfg.CheckInterval)
					intervalStr := util.ScanlineTrim()
					if intervalStr != "" {
						if interval, err := strconv.Atoi(intervalStr); err == nil && interval > 0 {
							cfg.CheckInterval = interval
						}
					}
				}

				if err := config.Save(cfg, configPath); err != nil {
					util.Red.Printf("Error saving configuration: %v\n", err)
					os.Exit(1)
				}

				util.Green.Println("Configuration updated successfully!")
			}
			config.InitializeConfig(&cfg)
		}

		util.CyanBold.Println("\nNext steps:")
		util.Cyan.Println("- Run 'vidmark add <url> --tag <name>' to bookmark a video")
		if config.GetInstance().DaemonEnabled {
			util.Cyan.Println("- Run 'vidmark daemon start' to import bookmarks in the background")
			util.Cyan.Println("- Run 'vidmark daemon status' to check daemon status")
		} else {
			util.Cyan.Println("- Daemon is disabled. Use 'vidmark import <file>' for one-time imports")
			util.Cyan.Println("- Run 'vidmark configure' again to enable daemon mode")
		}
	},
}
