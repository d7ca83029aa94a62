package http

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	semanticapp "bacnet-commissioning/internal/semantic/application"
)

var pointColumns = []string{
	"Point ID", "Original Name", "Object", "Units", "Normalized Name", "Description",
	"Function", "Category", "Tags", "Confidence", "Level", "Method", "Review", "Nav Name",
}

// BuildNormalizedXLSX renders the normalized points of one equipment, with a
// summary sheet and one row per point.
func BuildNormalizedXLSX(equipment *masterdata.Equipment, points []semanticapp.EquipmentPoint) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summarySheet := "summary"
	pointsSheet := "points"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(pointsSheet); err != nil {
		return nil, err
	}

	review := 0
	for _, p := range points {
		if p.Normalized.RequiresManualReview {
			review++
		}
	}
	_ = f.SetCellValue(summarySheet, "A1", "Normalized Points")
	_ = f.SetCellValue(summarySheet, "A3", "Equipment")
	_ = f.SetCellValue(summarySheet, "B3", equipment.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Type")
	_ = f.SetCellValue(summarySheet, "B4", equipment.Type)
	_ = f.SetCellValue(summarySheet, "A5", "Vendor")
	_ = f.SetCellValue(summarySheet, "B5", equipment.Vendor)
	_ = f.SetCellValue(summarySheet, "A6", "Points")
	_ = f.SetCellValue(summarySheet, "B6", len(points))
	_ = f.SetCellValue(summarySheet, "A7", "Requires Review")
	_ = f.SetCellValue(summarySheet, "B7", review)

	for i, title := range pointColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(pointsSheet, cell, title)
	}
	for i, p := range points {
		n := p.Normalized
		values := []any{
			p.Point.ID,
			p.Point.Raw.OriginalName,
			p.Point.CurRef(),
			p.Point.Raw.Units,
			n.NormalizedName,
			n.ExpandedDescription,
			string(n.PointFunction),
			string(n.Category),
			strings.Join(n.HaystackTags, " "),
			n.Confidence,
			string(n.ConfidenceLevel),
			n.NormalizationMethod,
			n.RequiresManualReview,
			p.Point.NavName,
		}
		row := i + 2
		if err := f.SetSheetRow(pointsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
