package providers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/util"
)

// FileProviderName is the registry name of the file provider
const FileProviderName = "file"

// FileProvider reads links from a text file or a folder of them. Each line
// holds a URL optionally followed by #tags; lines starting with # are
// comments.
type FileProvider struct {
	path    string
	enabled bool
}

func NewFileProvider() *FileProvider {
	return &FileProvider{
		enabled: false,
	}
}

func (fp *FileProvider) Name() string {
	return FileProviderName
}

// Path returns the configured file or folder
func (fp *FileProvider) Path() string {
	return fp.path
}

func (fp *FileProvider) IsEnabled() bool {
	return fp.enabled && fp.path != ""
}

// Configure configures the file provider with the given settings
func (fp *FileProvider) Configure(config map[string]interface{}) error {
	if path, ok := config["path"].(string); ok && path != "" {
		fp.path = path
		fp.enabled = true
		return nil
	}
	return fmt.Errorf("file provider requires 'path' setting")
}

// GetLinks retrieves links from the configured file or directory
func (fp *FileProvider) GetLinks(ctx context.Context) ([]bookmarks.Link, error) {
	if !fp.IsEnabled() {
		return nil, fmt.Errorf("file provider is not enabled or configured")
	}

	info, err := os.Stat(fp.path)
	if err != nil {
		return nil, fmt.Errorf("bookmark path does not exist: %w", err)
	}

	if !info.IsDir() {
		links, err := fp.readLinkFile(fp.path, info)
		if err != nil {
			return nil, fmt.Errorf("error reading bookmark file: %w", err)
		}
		return links, nil
	}

	files, err := os.ReadDir(fp.path)
	if err != nil {
		return nil, fmt.Errorf("error reading bookmark directory: %w", err)
	}

	var allLinks []bookmarks.Link
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		filePath := filepath.Join(fp.path, file.Name())
		fileInfo, err := file.Info()
		if err != nil {
			util.Red.Printf("Error reading file %s: %v\n", filePath, err)
			continue
		}
		links, err := fp.readLinkFile(filePath, fileInfo)
		if err != nil {
			util.Red.Printf("Error reading file %s: %v\n", filePath, err)
			continue
		}
		allLinks = append(allLinks, links...)
	}
	return allLinks, nil
}

func (fp *FileProvider) readLinkFile(filePath string, info os.FileInfo) ([]bookmarks.Link, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var links []bookmarks.Link
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		if link, ok := ParseLine(scanner.Text()); ok {
			link.Source = fp.Name()
			link.Timestamp = info.ModTime()
			links = append(links, link)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return links, nil
}

// ParseLine parses "URL [#tag ...]". Blank lines, comments and lines that
// do not start with an http(s) URL are rejected.
func ParseLine(line string) (bookmarks.Link, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return bookmarks.Link{}, false
	}

	fields := strings.Fields(line)
	url := fields[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return bookmarks.Link{}, false
	}

	link := bookmarks.Link{URL: url, Tags: []string{}}
	for _, field := range fields[1:] {
		if tag := strings.TrimPrefix(field, "#"); tag != field && tag != "" {
			link.Tags = append(link.Tags, tag)
		}
	}
	return link, true
}
