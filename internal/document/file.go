package document

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	domainerrors "github.com/listenupapp/inkmark/internal/errors"
)

// MediaTypePDF is the only accepted upload type.
const MediaTypePDF = "application/pdf"

// File is an uploaded document. Data is never modified.
type File struct {
	Name      string
	Data      []byte
	MediaType string
}

// NewFile sniffs data and accepts only PDF content. The declared name is kept for
// export filenames but never trusted for the type.
func NewFile(name string, data []byte) (*File, error) {
	mt := mimetype.Detect(data)
	if len(data) == 0 || !mt.Is(MediaTypePDF) {
		return nil, domainerrors.UserInput("Please upload a PDF document").
			WithDetails(map[string]string{"detected": mt.String()})
	}

	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "document.pdf"
	}

	return &File{Name: name, Data: data, MediaType: MediaTypePDF}, nil
}

// ExportName is the download name of the re-delivered original.
func (f *File) ExportName() string {
	return "annotated-" + f.Name
}

// OverlayName is the download name of the annotation overlay.
func (f *File) OverlayName() string {
	return "annotations-" + f.Name
}
