package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/propnest/rental-backend/internal/utils"
)

const (
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// contentTypes maps download extensions to the Content-Type served.
var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"doc":  mimeDOC,
	"docx": mimeDOCX,
	"txt":  "text/plain",
}

var documentMIMEs = []string{
	"application/pdf", "image/jpeg", "image/png", "image/gif", mimeDOC, mimeDOCX, "text/plain",
}

// Document is a validated notice attachment.
type Document struct {
	Base64   string
	FileType string
	Filename string
}

// ProcessDocument validates a notice attachment. The stored payload is plain
// base64 without a data URL prefix.
func ProcessDocument(data, filename string) (*Document, error) {
	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: document exceeds %d MB", utils.ErrFileTooLarge, MaxDocumentBytes>>20)
	}

	fileType, ok := documentType(raw, filename)
	if !ok {
		return nil, fmt.Errorf("%w: only pdf, images, doc, docx and txt are accepted", utils.ErrUnsupportedMediaType)
	}
	doc := &Document{Base64: encodeStd(raw), FileType: fileType}
	if strings.TrimSpace(filename) != "" {
		doc.Filename = filepath.Base(filename)
	}
	return doc, nil
}

// documentType sniffs raw. Legacy .doc files sniff as a generic OLE
// container, and .docx as a zip when the sniff window misses the Word
// parts, so the extension settles those.
func documentType(raw []byte, filename string) (string, bool) {
	mt := mimetype.Detect(raw)
	for m := mt; m != nil; m = m.Parent() {
		if mimetype.EqualsAny(m.String(), documentMIMEs...) {
			base, _, _ := strings.Cut(m.String(), ";")
			return base, true
		}
	}
	ext := Extension(filename)
	switch {
	case ext == "doc" && mt.Is("application/x-ole-storage"):
		return mimeDOC, true
	case ext == "docx" && mt.Is("application/zip"):
		return mimeDOCX, true
	}
	return "", false
}

// Extension returns the lower-cased extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ContentTypeFor picks the download Content-Type from the original filename,
// falling back to the stored file type and then to octet-stream.
func ContentTypeFor(filename, fileType string) string {
	if ct, ok := contentTypes[Extension(filename)]; ok {
		return ct
	}
	if ct, ok := contentTypes[strings.ToLower(fileType)]; ok {
		return ct
	}
	if fileType != "" && strings.Contains(fileType, "/") {
		return fileType
	}
	return "application/octet-stream"
}

// ExtensionFor is the reverse lookup used to name downloads without an
// original filename.
func ExtensionFor(fileType string) string {
	for ext, ct := range contentTypes {
		if ct == fileType && ext != "jpg" {
			return ext
		}
	}
	return "bin"
}
