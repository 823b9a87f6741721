package mail

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	internalutil "github.com/ryan-gang/vidmark/internal/util"
	"github.com/ryan-gang/vidmark/util"

	gomail "gopkg.in/mail.v2"
)

func (s *SMTPMailSender) Send(files []string, timeout int) error {
	cfg := s.cfg
	if cfg.GetReceiver() == "" || cfg.GetSender() == "" {
		return fmt.Errorf("mail is not configured, run 'vidmark configure'")
	}

	msg, attachedFiles := buildMessage(cfg.GetSender(), cfg.GetReceiver(), files)
	if len(attachedFiles) == 0 {
		util.Cyan.Println("No files to send")
		return fmt.Errorf("no valid files to send")
	}

	if timeout <= 0 {
		timeout = 120
	}
	dialer := gomail.NewDialer(cfg.GetServer(), cfg.GetPort(), cfg.GetSender(), cfg.GetPassword())
	dialer.Timeout = time.Duration(timeout) * time.Second
	util.CyanBold.Println("Sending mail")
	util.Cyan.Println("Mail timeout : ", dialer.Timeout.String())
	util.Cyan.Println("Following files will be sent :")
	for i, file := range attachedFiles {
		util.Cyan.Printf("%d. %s\n", i+1, file)
	}

	if err := dialer.DialAndSend(msg); err != nil {
		internalutil.LogError(internalutil.MailError, "sending mail", err)
		return fmt.Errorf("failed to send mail: %w", err)
	}

	util.GreenBold.Printf("Mailed %d files to %s\n", len(attachedFiles), cfg.GetReceiver())
	return nil
}

// buildMessage attaches every file that exists and returns the ones attached
func buildMessage(from, to string, files []string) (*gomail.Message, []string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "vidmark export")

	attachedFiles := make([]string, 0)
	names := ""
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			internalutil.LogErrorf(internalutil.FileError, "accessing file", "couldn't find file %s", file)
			continue
		}
		msg.Attach(file)
		attachedFiles = append(attachedFiles, file)
		names += "- " + filepath.Base(file) + "\n"
	}
	msg.SetBody("text/plain", "Video notes exported by vidmark:\n\n"+names)
	return msg, attachedFiles
}
