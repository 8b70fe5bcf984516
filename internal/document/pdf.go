package document

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/ledongthuc/pdf"

	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/geometry"
)

// letter is the page size assumed when no MediaBox is present.
var letter = geometry.Size{Width: 612, Height: 792}

// MaxPageSide is the largest page side PDF user space allows, in points.
const MaxPageSide = 14400

// PDFBackend reads page geometry with ledongthuc/pdf.
type PDFBackend struct{}

// NewPDFBackend creates a PDF backend.
func NewPDFBackend() *PDFBackend {
	return &PDFBackend{}
}

// Load parses data and reads every page box up front, so the returned Document
// never touches the parser again.
func (b *PDFBackend) Load(ctx context.Context, data []byte) (doc Document, err error) {
	if len(data) == 0 {
		return nil, domainerrors.Document("document is empty")
	}

	// The parser panics on some malformed input.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = domainerrors.Documentf("failed to parse document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeDocument, "failed to open document")
	}

	total := reader.NumPage()
	if total < 1 {
		return nil, domainerrors.Document("document has no pages")
	}

	boxes := make([]geometry.Size, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			return nil, domainerrors.Documentf("page %d is missing", i)
		}
		box, err := pageBox(page.V)
		if err != nil {
			return nil, domainerrors.Documentf("page %d: %v", i, err)
		}
		boxes = append(boxes, box)
	}

	return &pdfDocument{boxes: boxes}, nil
}

// pageBox resolves a page's MediaBox through the page tree and applies /Rotate.
func pageBox(page pdf.Value) (geometry.Size, error) {
	box := letter
	if mb := inherited(page, "MediaBox"); mb.Len() == 4 {
		w := math.Abs(mb.Index(2).Float64() - mb.Index(0).Float64())
		h := math.Abs(mb.Index(3).Float64() - mb.Index(1).Float64())
		if w > MaxPageSide || h > MaxPageSide {
			return geometry.Size{}, fmt.Errorf("page box %gx%g exceeds %dpt", w, h, MaxPageSide)
		}
		if w > 0 && h > 0 {
			box = geometry.Size{Width: w, Height: h}
		}
	}

	if rot := inherited(page, "Rotate"); !rot.IsNull() {
		if r := ((rot.Int64() % 360) + 360) % 360; r == 90 || r == 270 {
			box.Width, box.Height = box.Height, box.Width
		}
	}
	return box, nil
}

// inherited looks key up on the page, then on each ancestor.
func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if found := v.Key(key); !found.IsNull() {
			return found
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

type pdfDocument struct {
	boxes []geometry.Size
}

func (d *pdfDocument) PageCount() int {
	return len(d.boxes)
}

func (d *pdfDocument) PageBox(pageIndex int) (geometry.Size, error) {
	if pageIndex < 0 || pageIndex >= len(d.boxes) {
		return geometry.Size{}, domainerrors.Invariantf("page index %d outside [0, %d)", pageIndex, len(d.boxes))
	}
	return d.boxes[pageIndex], nil
}

func (d *pdfDocument) RenderPage(ctx context.Context, pageIndex int, scale float64) (*Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, domainerrors.Documentf("cannot render at scale %g", scale)
	}
	box, err := d.PageBox(pageIndex)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	scaled := box.Scale(scale)
	return &Surface{
		PageIndex: pageIndex,
		Scale:     scale,
		Width:     scaled.Width,
		Height:    scaled.Height,
	}, nil
}
