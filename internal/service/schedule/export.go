package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/schedify-backend-go/internal/domain/schedule"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportSchedule implements schedule.ScheduleService.
// The sheet has one row per shift and one column per day; cells list the assigned employees.
func (s *scheduleServiceImpl) ExportSchedule(ctx context.Context, week int) (schedule.ExportFile, error) {
	sch, err := s.GetSchedule(ctx, week)
	if err != nil {
		return schedule.ExportFile{}, err
	}

	names := s.employeeNames(ctx)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	sheetName := fmt.Sprintf("Week %d", sch.Week)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return schedule.ExportFile{}, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return schedule.ExportFile{}, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(sch.Days) + 1)
	if err != nil {
		return schedule.ExportFile{}, err
	}

	title := fmt.Sprintf("Shift schedule - week %d", sch.Week)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return schedule.ExportFile{}, err
	}
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return schedule.ExportFile{}, err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return schedule.ExportFile{}, fmt.Errorf("failed to create title style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return schedule.ExportFile{}, err
	}

	if err := f.SetCellValue(sheetName, "A3", "Shift"); err != nil {
		return schedule.ExportFile{}, err
	}
	for i, day := range sch.Days {
		cell, err := excelize.CoordinatesToCellName(i+2, 3)
		if err != nil {
			return schedule.ExportFile{}, err
		}
		if err := f.SetCellValue(sheetName, cell, day.Date); err != nil {
			return schedule.ExportFile{}, err
		}
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return schedule.ExportFile{}, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A3", lastCol+"3", headerStyle); err != nil {
		return schedule.ExportFile{}, err
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return schedule.ExportFile{}, fmt.Errorf("failed to create cell style: %w", err)
	}

	for row, shift := range schedule.Shifts {
		rowNum := row + 4
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), string(shift)); err != nil {
			return schedule.ExportFile{}, err
		}
		for i, day := range sch.Days {
			cell, err := excelize.CoordinatesToCellName(i+2, rowNum)
			if err != nil {
				return schedule.ExportFile{}, err
			}
			labels := make([]string, 0, len(day.Shifts.Get(shift)))
			for _, ref := range day.Shifts.Get(shift) {
				if name, ok := names[ref]; ok {
					labels = append(labels, fmt.Sprintf("%s (%s)", name, ref))
				} else {
					labels = append(labels, ref)
				}
			}
			if err := f.SetCellValue(sheetName, cell, strings.Join(labels, "\n")); err != nil {
				return schedule.ExportFile{}, err
			}
		}
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), cellStyle); err != nil {
			return schedule.ExportFile{}, err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 10); err != nil {
		return schedule.ExportFile{}, err
	}
	if err := f.SetColWidth(sheetName, "B", lastCol, 22); err != nil {
		return schedule.ExportFile{}, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return schedule.ExportFile{}, fmt.Errorf("failed to write workbook: %w", err)
	}

	return schedule.ExportFile{
		Filename:    fmt.Sprintf("schedule_week_%02d.xlsx", sch.Week),
		ContentType: xlsxContentType,
		Content:     buf.Bytes(),
	}, nil
}

// employeeNames maps employee codes to names. Export still works without the directory.
func (s *scheduleServiceImpl) employeeNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	if s.employeeRepo == nil {
		return names
	}
	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		s.logger.Warn("export without employee names", "error", err)
		return names
	}
	for _, emp := range employees {
		names[emp.EmployeeCode] = emp.Name
	}
	return names
}
