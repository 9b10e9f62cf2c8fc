package labels

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"gearscan/models"
)

// renderItemLabelsPDF lays out one label page per catalog item: name, group,
// location, points, stock level and a scannable code128 barcode.
func renderItemLabelsPDF(items []models.CatalogItem, printedAt time.Time) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no labels to render")
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.SetTitle("Item Labels", false)

	for i, item := range items {
		barcodePNG, err := renderCode128PNG(item.Barcode, 1200, 260)
		if err != nil {
			return nil, fmt.Errorf("barcode for %s: %w", item.Barcode, err)
		}

		pdf.AddPage()

		name := strings.TrimSpace(item.ItemName)
		if name == "" {
			name = "Unnamed Item"
		}
		group := strings.TrimSpace(item.Group)
		if group == "" {
			group = models.GroupOthers
		}
		location := strings.TrimSpace(item.Location)
		if location == "" {
			location = "-"
		}

		pdf.SetFont("Helvetica", "B", 30)
		pdf.CellFormat(0, 16, name, "", 1, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 13)
		pdf.CellFormat(0, 7, "Group: "+strings.ToUpper(group), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 7, "Location: "+location, "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("Stock: %d    Points: %d", item.TotalCount, item.PointsToRedeem), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 7, "Printed: "+printedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")

		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := fmt.Sprintf("item-barcode-%d", i)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		pageW, _ := pdf.GetPageSize()
		imgW := 150.0
		imgH := 34.0
		x := (pageW - imgW) / 2
		y := 70.0
		pdf.ImageOptions(imageName, x, y, imgW, imgH, false, opt, 0, "")

		pdf.SetY(y + imgH + 4)
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 10, item.Barcode, "", 1, "C", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var barcodePNG bytes.Buffer
	if err := png.Encode(&barcodePNG, normalized); err != nil {
		return nil, err
	}
	return barcodePNG.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
