package util

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadSize is the largest résumé accepted, 5MB.
const MaxUploadSize int64 = 5 * 1024 * 1024

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETXT  = "text/plain"
)

var allowedTypes = map[string]string{
	".pdf":  MIMEPDF,
	".docx": MIMEDOCX,
	".txt":  MIMETXT,
}

type FileErrorKind string

const (
	FileInvalidType FileErrorKind = "invalid_type"
	FileTooLarge    FileErrorKind = "too_large"
)

// FileError is a validation failure detected before anything is sent.
type FileError struct {
	Kind     FileErrorKind
	FileName string
	Detail   string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.FileName, e.Detail)
}

// ValidateFile accepts pdf, docx and txt résumés up to MaxUploadSize. A file
// is rejected on type only when both its MIME type and its extension fail.
func ValidateFile(fileName, contentType string, size int64) error {
	if !allowedMIME(contentType) && !allowedExtension(fileName) {
		return &FileError{
			Kind:     FileInvalidType,
			FileName: fileName,
			Detail:   fmt.Sprintf("unsupported file type %q (%s)", filepath.Ext(fileName), contentType),
		}
	}
	if size > MaxUploadSize {
		return &FileError{
			Kind:     FileTooLarge,
			FileName: fileName,
			Detail:   fmt.Sprintf("file size %d exceeds the %d byte limit", size, MaxUploadSize),
		}
	}
	return nil
}

// ResolveContentType keeps a meaningful declared type and otherwise sniffs
// the content. Pickers and multipart writers often send octet-stream.
func ResolveContentType(declared string, content []byte) string {
	media := baseMediaType(declared)
	if media != "" && media != "application/octet-stream" {
		return declared
	}
	if len(content) == 0 {
		return declared
	}
	return mimetype.Detect(content).String()
}

// ContentTypeFor returns the canonical MIME type for a supported extension.
func ContentTypeFor(fileName string) string {
	return allowedTypes[strings.ToLower(filepath.Ext(fileName))]
}

func allowedExtension(fileName string) bool {
	_, ok := allowedTypes[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

func allowedMIME(contentType string) bool {
	media := baseMediaType(contentType)
	for _, allowed := range allowedTypes {
		if media == allowed {
			return true
		}
	}
	return false
}

func baseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return media
}
