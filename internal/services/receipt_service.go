package services

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var ErrReceiptNotFound = errors.New("receipt not found")

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	receiptExtensions   = []string{".png", ".jpg", ".jpeg", ".webp"}
	receiptMIMETypes    = map[string]string{
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".webp": "image/webp",
		".gif":  "image/gif",
	}
)

// Receipt is a resolved receipt image.
type Receipt struct {
	Path        string
	ContentType string
	Data        []byte
}

// ReceiptService resolves upload codes to image files across an ordered list
// of directories. The first directory holding a match wins.
type ReceiptService struct {
	dirs   []string
	logger *zap.Logger
}

func NewReceiptService(dirs []string, logger *zap.Logger) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{dirs: dirs, logger: logger.With(zap.String("component", "receipts"))}
}

// SanitizeUploadCode strips every character outside [a-zA-Z0-9._-]. Codes that
// reduce to nothing or to a dot path are rejected.
func SanitizeUploadCode(code string) (string, bool) {
	clean := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(code), "")
	if clean == "" || clean == "." || clean == ".." {
		return "", false
	}
	return clean, true
}

// candidateNames lists the filenames to try for a sanitized code. A code that
// already carries an extension is tried as-is only.
func candidateNames(code string) []string {
	if ext := filepath.Ext(code); ext != "" && ext != code {
		return []string{filepath.Base(code)}
	}
	names := make([]string, 0, len(receiptExtensions))
	for _, ext := range receiptExtensions {
		names = append(names, code+ext)
	}
	return names
}

func contentTypeFor(name string) string {
	if ct, ok := receiptMIMETypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Find returns the first matching receipt or ErrReceiptNotFound.
func (s *ReceiptService) Find(code string) (*Receipt, error) {
	clean, ok := SanitizeUploadCode(code)
	if !ok {
		return nil, ErrReceiptNotFound
	}

	names := candidateNames(clean)
	for _, dir := range s.dirs {
		root, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		for _, name := range names {
			path := filepath.Join(root, name)
			if filepath.Dir(path) != root {
				continue
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				s.logger.Warn("failed to read receipt", zap.String("path", path), zap.Error(err))
				continue
			}
			return &Receipt{Path: path, ContentType: contentTypeFor(name), Data: data}, nil
		}
	}

	return nil, ErrReceiptNotFound
}
