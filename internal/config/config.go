package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path"
	"strconv"
	"strings"

	"github.com/ryan-gang/vidmark/util"
)

type config struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Password string `json:"password"`
	Server   string `json:"server"`
	Port     int    `json:"port"`

	StorePath    string `json:"storepath"`
	DatabasePath string `json:"database_path"`
	ExportFormat string `json:"export_format"`

	BookmarkPath  string `json:"bookmark_path"`
	CheckInterval int    `json:"check_interval_minutes"`
	DaemonEnabled bool   `json:"daemon_enabled"`
	LogPath       string `json:"log_path"`
	PidFile       string `json:"pid_file"`

	PlayerSelector string `json:"player_selector"`
	AdClassName    string `json:"ad_class_name"`
	Headless       bool   `json:"headless"`
}

const DefaultTimeout = 120
const XdgConfigHome = "XDG_CONFIG_HOME"
const ConfigFolderName = "vidmark"

const (
	DefaultPlayerSelector = ".html5-video-player"
	DefaultAdClassName    = "ad-showing"
)

var instance *config

func isGmail(mail string) bool {
	return strings.HasSuffix(strings.ToLower(mail), "@gmail.com")
}

func DefaultConfigPath() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("couldn't get current user: %w", err)
	}
	xdgConfigHome := os.Getenv(XdgConfigHome)
	var configFolder string
	if len(xdgConfigHome) == 0 {
		configFolder = path.Join(user.HomeDir, ".config")
		configFolder = path.Join(configFolder, ConfigFolderName)
	} else {
		configFolder = path.Join(xdgConfigHome, ConfigFolderName)
	}
	if err := os.MkdirAll(configFolder, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return path.Join(configFolder, "config.json"), nil
}

// SetDefaults fills paths left empty relative to the directory of configPath
func SetDefaults(c *config, configPath string) {
	configDir := path.Dir(configPath)
	if c.LogPath == "" {
		c.LogPath = path.Join(configDir, "vidmark.log")
	}
	if c.PidFile == "" {
		c.PidFile = path.Join(configDir, "vidmark.pid")
	}
	if c.DatabasePath == "" {
		c.DatabasePath = path.Join(configDir, "bookmarks.db")
	}
	if c.ExportFormat == "" {
		c.ExportFormat = "json"
	}
	if c.PlayerSelector == "" {
		c.PlayerSelector = DefaultPlayerSelector
	}
	if c.AdClassName == "" {
		c.AdClassName = DefaultAdClassName
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 15
	}
}

func exists(filename string) bool {
	if _, err := os.Stat(filename); err != nil {
		return false
	}
	return true
}

func NewConfig() *config {
	config := config{}
	config.Server = "smtp.gmail.com"
	config.Port = 465

	config.CheckInterval = 15
	config.DaemonEnabled = false
	config.ExportFormat = "json"
	config.PlayerSelector = DefaultPlayerSelector
	config.AdClassName = DefaultAdClassName
	config.Headless = true
	return &config
}

func CreateConfig() *config {
	util.CyanBold.Println("CONFIGURE VIDMARK")

	configuration := NewConfig()

	util.Cyan.Printf("File path to store exports on your computer (empty is ok) :")
	configuration.StorePath = util.ScanlineTrim()

	util.Cyan.Printf("Default export format json, markdown or epub (default json) :")
	if format := util.ScanlineTrim(); format != "" {
		configuration.ExportFormat = strings.ToLower(format)
	}

	util.CyanBold.Println("\nMAIL CONFIGURATION")
	util.Cyan.Printf("Email that receives exports (empty to skip mail setup) : ")
	configuration.Receiver = util.ScanlineTrim()
	if configuration.Receiver != "" {
		util.Cyan.Printf("Email that'll be used to send exports (eg. yourname@gmail.com) : ")
		configuration.Sender = util.ScanlineTrim()

		if !isGmail(configuration.Sender) {
			util.Cyan.Println("Sender email is different then Gmail, " +
				"can you help with SMTP server address and SMTP port for your email provider")

			util.Cyan.Printf("Enter SMTP Server Address (eg. smtp.gmail.com) : ")
			configuration.Server = util.ScanlineTrim()
			for {
				util.Cyan.Printf("Enter SMTP port (usually 587 or 465) : ")
				portStr := util.ScanlineTrim()
				portInt, err := strconv.Atoi(portStr)
				if err != nil {
					util.Red.Println("Entered port number is either invalid or not an integer, please try again")
					continue
				}
				configuration.Port = portInt
				break
			}
		}

		util.Cyan.Printf("Enter password for Sender %s : ", configuration.Sender)
		configuration.Password = util.ScanlineTrim()
	}

	util.CyanBold.Println("\nDAEMON CONFIGURATION")
	util.Cyan.Printf("Path to bookmark file/folder to import from (empty to disable daemon) :")
	configuration.BookmarkPath = util.ScanlineTrim()
	if configuration.BookmarkPath != "" {
		configuration.DaemonEnabled = true
		util.Cyan.Printf("Check interval in minutes (default 15) :")
		intervalStr := util.ScanlineTrim()
		if intervalStr != "" {
			if interval, err := strconv.Atoi(intervalStr); err == nil && interval > 0 {
				configuration.CheckInterval = interval
			}
		}
	}

	return configuration
}

func handleCreation(filename string) error {
	util.Red.Println("Configuration file doesn't exist\n Answer next few questions to create config file")
	configuration := CreateConfig()
	if err := Save(*configuration, filename); err != nil {
		util.Red.Println("Error while writing config to ", filename, err)
		return err
	}
	util.Green.Printf("Config created successfully and stored at %s, you can directly edit it later on \n", filename)
	return nil
}

func LoadProvider(filename string) (ConfigProvider, error) {
	cfg, err := Load(filename)
	if err != nil {
		return nil, err
	}
	return NewConfigProvider(&cfg), nil
}

func Load(filename string) (config, error) {
	if !exists(filename) {
		if err := handleCreation(filename); err != nil {
			return config{}, err
		}
	}
	return Read(filename)
}

// Read parses an existing config file without prompting
func Read(filename string) (config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return config{}, fmt.Errorf("reading config: %w", err)
	}
	var c config
	if err := json.Unmarshal(data, &c); err != nil {
		return config{}, fmt.Errorf("decoding config: %w", err)
	}
	SetDefaults(&c, filename)
	if err := Validate(&c); err != nil {
		return config{}, err
	}

	InitializeConfig(&c)
	return c, nil
}

// Validate rejects settings the rest of the program cannot act on
func Validate(c *config) error {
	switch c.ExportFormat {
	case "json", "markdown", "epub":
	default:
		return fmt.Errorf("unsupported export format %q", c.ExportFormat)
	}
	if c.DaemonEnabled && c.BookmarkPath == "" {
		return fmt.Errorf("daemon enabled without bookmark_path")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid smtp port %d", c.Port)
	}
	return nil
}

func Save(c config, filename string) error {
	data, err := json.MarshalIndent(c, "", "	")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(filename, data, 0600)
}

func InitializeConfig(c *config) {
	if instance == nil {
		instance = c
	}
}

func GetInstance() *config {
	return instance
}
