package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"surething-api/internal/repository"

	"github.com/xuri/excelize/v2"
)

var requestExportHeader = []string{
	"ID",
	"Title",
	"Status",
	"Category",
	"District",
	"Region",
	"Requester ID",
	"Responder ID",
	"Volunteers",
	"Start At",
	"End At",
	"Created At",
}

// ExportService renders request search results as an xlsx workbook.
type ExportService interface {
	ExportSearch(ctx context.Context, filters repository.SearchFilters) ([]byte, error)
}

type exportService struct {
	repo repository.RequestsRepository
}

func NewExportService(repo repository.RequestsRepository) ExportService {
	return &exportService{repo: repo}
}

func (s *exportService) ExportSearch(ctx context.Context, filters repository.SearchFilters) ([]byte, error) {
	rows, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	return generateRequestExport(rows)
}

func generateRequestExport(rows []*repository.RequestSearchRow) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Requests"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range requestExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, item := range rows {
		row := rowIdx + 2
		values := []any{
			item.ID,
			item.Title,
			string(item.Status),
			item.CategoryName,
			item.DistrictName,
			item.RegionName,
			item.RequesterID,
			formatOptionalID(item.ResponderID),
			formatVolunteers(item.Volunteers),
			formatOptionalTime(item.StartAt),
			formatOptionalTime(item.EndAt),
			item.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatVolunteers(volunteers []int64) string {
	parts := make([]string, len(volunteers))
	for i, v := range volunteers {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ",")
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
