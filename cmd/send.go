package cmd

import (
	"os"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/cmdutil"
	"github.com/ryan-gang/vidmark/internal/mail"
	"github.com/ryan-gang/vidmark/internal/util"
)

var (
	helpSend = `Exports bookmarks like 'vidmark export' and mails the export to the
configured receiver. Epub exports can be read directly on an ereader.`

	exampleSend = dedent.Dedent(`
		# Mail every bookmark in the configured format
		vidmark send

		# Mail the notes of talks as an epub
		vidmark send --tags talks --format epub`,
	)
)

func init() {
	rootCmd.AddCommand(sendCmd)
	addExportFlags(sendCmd)
	sendCmd.Flags().IntP("mail-timeout", "m", 120, "Mail timeout in seconds, increase it for large exports")
}

var sendCmd = &cobra.Command{
	Use:     "send",
	Short:   "Export bookmarks and mail the export",
	Long:    helpSend,
	Example: exampleSend,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		session := cmdutil.OpenSession(cmd)
		defer session.Close()
		cfg := session.Config

		dir := cfg.GetStorePath()
		if dir == "" {
			dir = os.TempDir()
		}
		path, err := exportSelection(cmd.Context(), cmd, session, dir)
		if err != nil {
			util.LogError(util.ExportError, "exporting bookmarks", err)
			os.Exit(1)
		}

		timeout, err := cmd.Flags().GetInt("mail-timeout")
		if err != nil {
			timeout = 0
		}

		if err := mail.NewSMTPMailSender(cfg).Send([]string{path}, timeout); err != nil {
			os.Exit(1)
		}
	},
}
