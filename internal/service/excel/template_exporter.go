package excel

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/hours"
)

const (
	// DefaultAnchor first of the 12 consecutive role cells (row 9, column I).
	DefaultAnchor = "I9"
	// DefaultDurationCell receives the project duration in months.
	DefaultDurationCell = "D5"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// builtin number format 2 is "0.00"
	numFmtTwoDecimals = 2
	durationNumFmt    = "0.0"
)

// Options where and how the report is written.
type Options struct {
	TemplatePath string // empty: embedded template
	Sheet        string // empty: active sheet
	Anchor       string
	DurationCell string // empty: duration is not written
}

// Report an emitted workbook.
type Report struct {
	FileName string
	Data     []byte
}

// ReportEmitter fills the resource-analysis template with per-role hours.
type ReportEmitter struct {
	opts Options
	now  func() time.Time
}

// NewReportEmitter returns an emitter; the anchor defaults to DefaultAnchor.
func NewReportEmitter(opts Options) *ReportEmitter {
	if strings.TrimSpace(opts.Anchor) == "" {
		opts.Anchor = DefaultAnchor
	}
	return &ReportEmitter{opts: opts, now: time.Now}
}

// WithClock overrides the clock used for file names.
func (e *ReportEmitter) WithClock(now func() time.Time) *ReportEmitter {
	e.now = now
	return e
}

// OpenTemplate opens a workbook template from disk.
func OpenTemplate(path string) (*excelize.File, error) {
	if path == "" {
		return nil, errors.New("template path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	return excelize.OpenFile(path)
}

// Emit writes the vector into the template and returns the workbook bytes. Nothing is
// returned unless every write succeeded.
func (e *ReportEmitter) Emit(v model.RoleHoursVector, projectName string, durationMonths *float64) (*Report, error) {
	f, err := e.openTemplate()
	if err != nil {
		return nil, &model.ReportError{Op: "open template", Err: err}
	}
	defer f.Close()

	sheet, err := e.resolveSheet(f)
	if err != nil {
		return nil, &model.ReportError{Op: "resolve sheet", Err: err}
	}
	cells, err := roleCells(e.opts.Anchor)
	if err != nil {
		return nil, &model.ReportError{Op: "resolve anchor", Err: err}
	}
	if err := checkWritable(f, sheet, append(cells, e.durationCells(durationMonths)...)); err != nil {
		return nil, &model.ReportError{Op: "validate template", Err: err}
	}

	for i, cell := range cells {
		if err := writeNumber(f, sheet, cell, hours.Round2(v[i]), formatTwoDecimals); err != nil {
			return nil, &model.ReportError{Op: "write " + cell, Err: err}
		}
	}
	if durationMonths != nil && e.opts.DurationCell != "" {
		if err := writeNumber(f, sheet, e.opts.DurationCell, *durationMonths, formatOneDecimal); err != nil {
			return nil, &model.ReportError{Op: "write " + e.opts.DurationCell, Err: err}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &model.ReportError{Op: "write workbook", Err: err}
	}
	return &Report{
		FileName: FileName(projectName, e.now()),
		Data:     buf.Bytes(),
	}, nil
}

func (e *ReportEmitter) openTemplate() (*excelize.File, error) {
	if p := strings.TrimSpace(e.opts.TemplatePath); p != "" {
		return OpenTemplate(p)
	}
	return openEmbeddedTemplate()
}

func (e *ReportEmitter) resolveSheet(f *excelize.File) (string, error) {
	name := strings.TrimSpace(e.opts.Sheet)
	if name == "" {
		name = f.GetSheetName(f.GetActiveSheetIndex())
	}
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return "", err
	}
	if idx < 0 {
		return "", fmt.Errorf("sheet %q not found", name)
	}
	return name, nil
}

func (e *ReportEmitter) durationCells(durationMonths *float64) []string {
	if durationMonths == nil || e.opts.DurationCell == "" {
		return nil
	}
	return []string{e.opts.DurationCell}
}

// roleCells returns the 12 cells starting at anchor, left to right.
func roleCells(anchor string) ([]string, error) {
	col, row, err := excelize.CellNameToCoordinates(anchor)
	if err != nil {
		return nil, err
	}
	cells := make([]string, 0, model.RoleCount)
	for i := 0; i < model.RoleCount; i++ {
		name, err := excelize.CoordinatesToCellName(col+i, row)
		if err != nil {
			return nil, err
		}
		cells = append(cells, name)
	}
	return cells, nil
}

// checkWritable refuses templates whose target cells hold formulas.
func checkWritable(f *excelize.File, sheet string, cells []string) error {
	for _, cell := range cells {
		formula, err := f.GetCellFormula(sheet, cell)
		if err != nil {
			return err
		}
		if formula != "" {
			return fmt.Errorf("cell %s!%s holds formula %q", sheet, cell, formula)
		}
	}
	return nil
}

type numberFormat func(*excelize.Style)

func formatTwoDecimals(st *excelize.Style) {
	st.NumFmt = numFmtTwoDecimals
	st.CustomNumFmt = nil
}

func formatOneDecimal(st *excelize.Style) {
	s := durationNumFmt
	st.CustomNumFmt = &s
}

// writeNumber sets the value and number format while keeping the cell's other styling.
func writeNumber(f *excelize.File, sheet, cell string, value float64, format numberFormat) error {
	if err := f.SetCellFloat(sheet, cell, value, -1, 64); err != nil {
		return err
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return err
	}
	st, err := f.GetStyle(styleID)
	if err != nil {
		return err
	}
	format(st)
	newID, err := f.NewStyle(st)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, newID)
}

// FileName builds Calculadora_<project>_<YYYYmmdd_HHMMSS>.xlsx.
func FileName(projectName string, at time.Time) string {
	ts := at.Format("20060102_150405")
	name := sanitizeFileComponent(projectName)
	if name == "" {
		return fmt.Sprintf("Calculadora_%s.xlsx", ts)
	}
	return fmt.Sprintf("Calculadora_%s_%s.xlsx", name, ts)
}

func sanitizeFileComponent(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
