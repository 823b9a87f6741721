package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"

	"github.com/ryan-gang/vidmark/util"
)

const maxImageBytes = 10 << 20

var imageClient = &http.Client{Timeout: 30 * time.Second}

// compressImage re-encodes JPEG and PNG data in its decoded format; other
// formats pass through
func compressImage(imgData []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	case "png":
		encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
		err = encoder.Encode(&buf, img)
	default:
		return imgData, nil
	}
	if err != nil {
		return nil, err
	}

	// keep the original when re-encoding does not help
	if buf.Len() >= len(imgData) {
		return imgData, nil
	}
	return buf.Bytes(), nil
}

// imageExts maps the sniffed content types we embed to file extensions.
var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// mediaType strips parameters from a Content-Type value.
func mediaType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
}

// imageExt returns the extension for contentType, or "" when it is not an
// image type we embed.
func imageExt(contentType string) string {
	return imageExts[mediaType(contentType)]
}

// downloadImage fetches a remote image, compresses it and embeds it as a
// data URL named base plus the extension of its sniffed type. The same URL
// is only downloaded once per book.
func (e *epubmaker) downloadImage(src, base string) (string, error) {
	if ref, ok := e.downloads[src]; ok {
		return ref, nil
	}

	resp, err := imageClient.Get(src)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	imgData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	compressed, err := compressImage(imgData)
	if err != nil {
		util.Red.Printf("Error compressing image %s: %s\n", src, err)
		compressed = imgData
	} else if len(compressed) < len(imgData) {
		util.Green.Printf("Image %s compressed: %d KB → %d KB\n",
			filepath.Base(src), len(imgData)/1024, len(compressed)/1024)
	}

	contentType := mediaType(mimetype.Detect(compressed).String())
	ext := imageExt(contentType)
	if ext == "" {
		return "", fmt.Errorf("download image: unsupported content type %q", contentType)
	}

	// go-epub reads sources when the book is written, so the bytes travel
	// inside the source string
	ref, err := e.Epub.AddImage(dataurl.New(compressed, contentType).String(), base+ext)
	if err != nil {
		return "", err
	}
	e.downloads[src] = ref
	return ref, nil
}
