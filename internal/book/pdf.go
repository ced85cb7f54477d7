package book

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// pdfEpoch pins the document creation date. PDF output must be a pure
// function of the rendered pages: identical inputs have to produce
// byte-identical documents.
var pdfEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// encodePDF serializes rasters as one PDF page each, sized so the
// pixel rasters map to the configured print resolution. All pages in
// one document share the dimensions of the first.
func encodePDF(pages []*image.RGBA, dpi int) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdf: no pages to serialize")
	}

	// PDF user space is 72 points per inch.
	scale := 72.0 / float64(dpi)
	wPt := float64(pages[0].Bounds().Dx()) * scale
	hPt := float64(pages[0].Bounds().Dy()) * scale

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	pdf.SetCreationDate(pdfEpoch)
	// Resource catalogs are map-ordered unless sorted; sorting plus the
	// pinned creation date makes output a pure function of the pages.
	pdf.SetCatalogSort(true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, page := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, wPt, hPt, false, opts, 0, "")
	}

	if pdf.Err() {
		return nil, fmt.Errorf("pdf: %v", pdf.Error())
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return out.Bytes(), nil
}
