package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	matching "bacnet-commissioning/internal/matching/domain"
)

// BuildApplicationPDF renders a template application report: the options used,
// the outcome, and one row per matched and unmatched template point.
func BuildApplicationPDF(template *matching.MappingTemplate, app *matching.TemplateApplication) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Template Application Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Template: %s (%s)", template.Name, template.ID),
		fmt.Sprintf("Target equipment: %s", app.TargetEquipmentID),
		fmt.Sprintf("Applied: %s", app.CreatedAt.Format(time.RFC3339)),
		fmt.Sprintf("Facet: %s  Threshold: %.2f  Partial: %t", app.Options.Facet, app.Options.ConfidenceThreshold, app.Options.AllowPartialMatches),
		fmt.Sprintf("Matched: %d  Unmatched: %d  Average confidence: %.3f", app.MatchedCount, app.UnmatchedCount, app.AverageConfidence),
		fmt.Sprintf("Successful: %t", app.IsSuccessful),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(55, 6, "Template value", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Target value", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Nav name", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Confidence", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, match := range app.Matched {
		pdf.CellFormat(55, 6, match.TemplateValue, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, match.TargetValue, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, match.NavName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.3f", match.Confidence), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	values := make(map[string]matching.PointMapping, len(template.PointMappings))
	for _, row := range template.PointMappings {
		values[row.TemplatePointID] = row
	}
	for _, id := range app.Unmatched {
		row := values[id]
		pdf.CellFormat(55, 6, row.Value(app.Options.Facet), "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, "-", "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, row.NavName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "unmatched", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
