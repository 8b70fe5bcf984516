package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/inkmark/internal/document/pdftest"
	domainerrors "github.com/listenupapp/inkmark/internal/errors"
)

func TestNewFile(t *testing.T) {
	f, err := NewFile("contract.pdf", pdftest.Build(pdftest.Pages(1)...))
	require.NoError(t, err)

	assert.Equal(t, "contract.pdf", f.Name)
	assert.Equal(t, MediaTypePDF, f.MediaType)
	assert.Equal(t, "annotated-contract.pdf", f.ExportName())
	assert.Equal(t, "annotations-contract.pdf", f.OverlayName())
}

func TestNewFile_RejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"plain text", "notes.txt", []byte("just some notes")},
		{"pdf name with png bytes", "scan.pdf", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")},
		{"empty", "empty.pdf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFile(tt.file, tt.data)
			require.ErrorIs(t, err, domainerrors.ErrUserInput)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "Please upload a PDF document", domainErr.Message)
		})
	}
}

func TestNewFile_SanitizesName(t *testing.T) {
	data := pdftest.Build(pdftest.Pages(1)...)

	f, err := NewFile("../../etc/report.pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", f.Name)

	f, err = NewFile("  ", data)
	require.NoError(t, err)
	assert.Equal(t, "document.pdf", f.Name)
}
