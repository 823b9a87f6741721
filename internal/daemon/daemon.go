package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/ryan-gang/vidmark/internal/config"
	"github.com/ryan-gang/vidmark/internal/logger"
	"github.com/ryan-gang/vidmark/util"
)

// ErrNotRunning is returned when no daemon holds the lock
var ErrNotRunning = errors.New("daemon is not running")

type Daemon struct {
	ctx      context.Context
	cancel   context.CancelFunc
	ticker   *time.Ticker
	importer *Importer
	cfg      config.ConfigProvider
	logger   logger.LoggerInterface
	lock     *flock.Flock
}

func NewDaemon(cfg config.ConfigProvider, importer *Importer, log logger.LoggerInterface) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	if log == nil {
		log = logger.Discard()
	}
	return &Daemon{
		ctx:      ctx,
		cancel:   cancel,
		importer: importer,
		cfg:      cfg,
		logger:   log,
		lock:     flock.New(lockPath(cfg)),
	}
}

func lockPath(cfg config.ConfigProvider) string {
	return cfg.GetPidFile() + ".lock"
}

// Start takes the daemon lock, imports once, then imports on every tick
// until a signal arrives or Stop is called.
func (d *Daemon) Start() error {
	if err := d.validateConfiguration(); err != nil {
		return err
	}

	if err := d.acquire(); err != nil {
		return err
	}
	defer d.logger.Close()

	sigChan := d.setupSignalHandling()
	defer signal.Stop(sigChan)
	d.setupTicker()
	d.logStartupInfo()
	d.processBookmarks()

	return d.runEventLoop(sigChan)
}

func (d *Daemon) validateConfiguration() error {
	if d.cfg == nil {
		return fmt.Errorf("configuration not provided")
	}

	if !d.cfg.IsDaemonEnabled() {
		return fmt.Errorf("daemon is not enabled in configuration")
	}

	if d.cfg.GetBookmarkPath() == "" {
		return fmt.Errorf("bookmark path is not configured")
	}

	if d.cfg.GetPidFile() == "" {
		return fmt.Errorf("pid file is not configured")
	}

	if d.importer == nil {
		return fmt.Errorf("importer not provided")
	}

	return nil
}

func (d *Daemon) acquire() error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("daemon is already running")
	}
	if err := d.writePidFile(); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

func (d *Daemon) setupSignalHandling() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

func (d *Daemon) setupTicker() {
	interval := time.Duration(d.cfg.GetCheckInterval()) * time.Minute
	if interval <= 0 {
		interval = time.Minute
	}
	d.ticker = time.NewTicker(interval)
}

func (d *Daemon) logStartupInfo() {
	util.GreenBold.Printf("vidmark daemon started, importing bookmarks every %d minutes\n", d.cfg.GetCheckInterval())
	util.Cyan.Printf("Monitoring bookmark path: %s\n", d.cfg.GetBookmarkPath())
	util.Cyan.Printf("Database: %s\n", d.cfg.GetDatabasePath())
	util.Cyan.Printf("PID file: %s\n", d.cfg.GetPidFile())
	util.Cyan.Printf("Log file: %s\n", d.cfg.GetLogPath())

	d.logger.Infof("Daemon started with PID %d", os.Getpid())
	d.logger.Infof("Monitoring bookmark path: %s", d.cfg.GetBookmarkPath())
	d.logger.Infof("Check interval: %d minutes", d.cfg.GetCheckInterval())
}

func (d *Daemon) runEventLoop(sigChan chan os.Signal) error {
	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Daemon context cancelled")
			d.cleanup()
			return nil
		case sig := <-sigChan:
			d.logger.Infof("Received signal: %v", sig)
			util.Cyan.Printf("Received signal: %v\n", sig)
			d.Stop()
			return nil
		case <-d.ticker.C:
			d.logger.Info("Starting import cycle")
			util.Cyan.Printf("Checking bookmarks at %s\n", time.Now().Format("2006-01-02 15:04:05"))
			d.processBookmarks()
		}
	}
}

// Stop ends the event loop and releases the lock
func (d *Daemon) Stop() {
	d.logger.Info("Stopping daemon...")

	if d.ticker != nil {
		d.ticker.Stop()
	}

	d.cancel()
	d.cleanup()

	d.logger.Info("Daemon stopped successfully")
	util.Green.Println("Daemon stopped successfully")
}

// RunOnce runs a single import cycle
func (d *Daemon) RunOnce() (ImportResult, error) {
	return d.importer.Import(d.ctx)
}

func (d *Daemon) processBookmarks() {
	result, err := d.RunOnce()
	if err != nil {
		d.logger.Errorf("Error importing bookmarks: %v", err)
		util.Red.Printf("Error importing bookmarks: %v\n", err)
		return
	}

	if result.Saved == 0 {
		d.logger.Info("No new bookmarks found")
		return
	}

	d.logger.Infof("Imported %d new bookmarks (%d already stored, %d without metadata)",
		result.Saved, result.Skipped, result.Failed)
	util.GreenBold.Printf("Imported %d new bookmarks\n", result.Saved)
}

func (d *Daemon) writePidFile() error {
	pid := os.Getpid()
	return os.WriteFile(d.cfg.GetPidFile(), []byte(strconv.Itoa(pid)), 0644)
}

func (d *Daemon) cleanup() {
	if d.cfg.GetPidFile() != "" {
		os.Remove(d.cfg.GetPidFile())
	}
	if d.lock.Locked() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warnf("failed to release daemon lock: %v", err)
		}
	}
}

// Running reports the PID of the daemon holding the lock, or ErrNotRunning
func Running(cfg config.ConfigProvider) (int, error) {
	check := flock.New(lockPath(cfg))
	ok, err := check.TryLock()
	if err != nil {
		return 0, fmt.Errorf("check lock: %w", err)
	}
	if ok {
		_ = check.Unlock()
		return 0, ErrNotRunning
	}

	data, err := os.ReadFile(cfg.GetPidFile())
	if err != nil {
		return 0, fmt.Errorf("reading pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing pid file: %w", err)
	}
	return pid, nil
}

// Status prints whether a daemon is running
func Status(cfg config.ConfigProvider) error {
	pid, err := Running(cfg)
	if err != nil {
		util.Red.Println("Daemon is not running")
		return err
	}
	util.Green.Printf("Daemon is running (PID: %d)\n", pid)
	util.Cyan.Printf("Bookmark path: %s\n", cfg.GetBookmarkPath())
	util.Cyan.Printf("Check interval: %d minutes\n", cfg.GetCheckInterval())
	return nil
}

// Terminate signals a running daemon and waits for it to release the lock
func Terminate(cfg config.ConfigProvider, timeout time.Duration) error {
	pid, err := Running(cfg)
	if err != nil {
		return err
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding daemon process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signalling daemon: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := Running(cfg); errors.Is(err, ErrNotRunning) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon (PID %d) did not stop within %s", pid, timeout)
}
