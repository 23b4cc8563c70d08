package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/gabriel-vasile/mimetype"
)

// ForSource returns the loader for a source path and its resolved source
// type. If sourceType is empty it is resolved from the path: URLs map to the
// web loader, files are sniffed by content with a file-extension fallback.
func ForSource(path, sourceType string) (interfaces.Loader, string, error) {
	if sourceType == "" {
		sourceType = detectSourceType(path)
	}

	switch sourceType {
	case "txt":
		return NewTxtLoader(), sourceType, nil
	case "markdown":
		return NewMarkdownLoader(), sourceType, nil
	case "pdf":
		return NewPdfLoader(), sourceType, nil
	case "web":
		return NewWebLoader(), sourceType, nil
	default:
		return nil, "", fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

func detectSourceType(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return "web"
	}

	if mtype, err := mimetype.DetectFile(path); err == nil {
		switch {
		case mtype.Is("application/pdf"):
			return "pdf"
		case mtype.Is("text/markdown"):
			return "markdown"
		case strings.HasPrefix(mtype.String(), "text/"):
			// mimetype cannot tell markdown from plain text reliably,
			// so fall back to the extension for .md files.
			if ext := strings.ToLower(filepath.Ext(path)); ext == ".md" || ext == ".markdown" {
				return "markdown"
			}
			return "txt"
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf"
	case ".md", ".markdown":
		return "markdown"
	default:
		return "txt"
	}
}
