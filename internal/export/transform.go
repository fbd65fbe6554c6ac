package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"claimdocs/internal/imaging"
)

// ImageResizer scales images wider than Width down to Width. Other files
// pass through untouched.
type ImageResizer struct {
	Width int
}

func NewImageResizer(width int) *ImageResizer {
	return &ImageResizer{Width: width}
}

func (r *ImageResizer) Resize(ctx context.Context, f File) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	if !imaging.IsImage(f.Name) || r.Width <= 0 {
		return f, nil
	}
	img, format, err := imaging.Decode(f.Data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", f.Name, err)
	}
	if img.Bounds().Dx() <= r.Width {
		return f, nil
	}
	enc, err := imaging.Encode(imaging.ResizeToWidth(img, r.Width), format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", f.Name, err)
	}
	name := f.Name
	if !sameImageExtension(path.Ext(name), enc.Extension) {
		name = withExtension(name, enc.Extension)
	}
	return File{Name: name, ContentType: enc.ContentType, Data: enc.Data}, nil
}

func sameImageExtension(have, want string) bool {
	have = strings.ToLower(have)
	if have == ".jpeg" {
		have = ".jpg"
	}
	return have == want
}

// ZipAssembler writes every file as a deflated entry.
type ZipAssembler struct {
	now func() time.Time
}

func NewZipAssembler() *ZipAssembler {
	return &ZipAssembler{now: time.Now}
}

func (a *ZipAssembler) Assemble(ctx context.Context, files []File) (Artifact, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := a.now()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return Artifact{}, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return Artifact{}, fmt.Errorf("zip entry %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return Artifact{}, fmt.Errorf("zip entry %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return Artifact{}, fmt.Errorf("close zip: %w", err)
	}
	return Artifact{Data: buf.Bytes(), ContentType: "application/zip", Extension: ".zip"}, nil
}

// PdfAssembler places one image per A4 page, scaled to fit the margins.
// Pages of PDF files are imported one per page the same way. Other files and
// PDFs that cannot be read are skipped with a warning.
type PdfAssembler struct {
	logger *slog.Logger
}

func NewPdfAssembler(logger *slog.Logger) *PdfAssembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PdfAssembler{logger: logger}
}

var pdfImageTypes = map[string]string{
	".jpg":  "JPG",
	".jpeg": "JPG",
	".png":  "PNG",
	".gif":  "GIF",
}

const pdfBox = "/MediaBox"

func (a *PdfAssembler) Assemble(ctx context.Context, files []File) (Artifact, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	pageW, pageH := pdf.GetPageSize()
	left, top, right, bottom := pdf.GetMargins()
	frame := pageFrame{left: left, top: top, w: pageW - left - right, h: pageH - top - bottom}
	importer := gofpdi.NewImporter()
	// The importer keys sources by stream address, so every stream stays
	// reachable until the document is written.
	var sources []*io.ReadSeeker

	pages := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return Artifact{}, err
		}
		if strings.EqualFold(path.Ext(f.Name), ".pdf") {
			rs := io.ReadSeeker(bytes.NewReader(f.Data))
			sources = append(sources, &rs)
			n, err := importPages(pdf, importer, &rs, frame)
			if err != nil {
				a.logger.WarnContext(ctx, "pdf export skipped unreadable pdf", "file", f.Name, "error", err)
				continue
			}
			pages += n
			continue
		}
		if !imaging.IsImage(f.Name) {
			a.logger.WarnContext(ctx, "pdf export skipped non-image file", "file", f.Name)
			continue
		}
		data, imageType, err := pdfImage(f)
		if err != nil {
			return Artifact{}, err
		}

		info := pdf.RegisterImageOptionsReader(f.Name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
		if !pdf.Ok() {
			return Artifact{}, fmt.Errorf("pdf image %s: %w", f.Name, pdf.Error())
		}
		x, y, w, h := frame.fit(info.Extent())

		pdf.AddPage()
		pdf.ImageOptions(f.Name, x, y, w, h, false, fpdf.ImageOptions{ImageType: imageType}, 0, "")
		pages++
	}
	if pages == 0 {
		return Artifact{}, fmt.Errorf("pdf export has no printable pages: %w", ErrNothingToExport)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("render pdf: %w", err)
	}
	runtime.KeepAlive(sources)
	return Artifact{Data: buf.Bytes(), ContentType: "application/pdf", Extension: ".pdf"}, nil
}

// pageFrame is the printable area of a page.
type pageFrame struct {
	left, top, w, h float64
}

// fit scales a w by h box into the frame and centers it.
func (p pageFrame) fit(w, h float64) (float64, float64, float64, float64) {
	scale := min(p.w/w, p.h/h)
	w, h = w*scale, h*scale
	return p.left + (p.w-w)/2, p.top + (p.h-h)/2, w, h
}

// importPages adds one page per page of the source PDF. The importer panics
// on malformed input, which is reported as an error before any page is
// added.
func importPages(pdf *fpdf.Fpdf, importer *gofpdi.Importer, rs *io.ReadSeeker, frame pageFrame) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import pdf: %v", r)
		}
	}()

	first := importer.ImportPageFromStream(pdf, rs, 1, pdfBox)
	sizes := importer.GetPageSizes()
	if len(sizes) == 0 {
		return 0, fmt.Errorf("import pdf: no pages")
	}
	templates := []int{first}
	for page := 2; page <= len(sizes); page++ {
		templates = append(templates, importer.ImportPageFromStream(pdf, rs, page, pdfBox))
	}
	if !pdf.Ok() {
		return 0, pdf.Error()
	}

	for i, tpl := range templates {
		box := sizes[i+1][pdfBox]
		w, h := box["w"], box["h"]
		if w <= 0 || h <= 0 {
			w, h = frame.w, frame.h
		}
		x, y, fw, fh := frame.fit(w, h)
		pdf.AddPage()
		importer.UseImportedTemplate(pdf, tpl, x, y, fw, fh)
	}
	return len(templates), nil
}

// pdfImage converts formats the PDF writer cannot embed to PNG.
func pdfImage(f File) ([]byte, string, error) {
	if t, ok := pdfImageTypes[strings.ToLower(path.Ext(f.Name))]; ok {
		return f.Data, t, nil
	}
	img, _, err := imaging.Decode(f.Data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", f.Name, err)
	}
	enc, err := imaging.Encode(img, "png")
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", f.Name, err)
	}
	return enc.Data, "PNG", nil
}
