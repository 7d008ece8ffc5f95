package excel_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/excel"
)

var fixedNow = time.Date(2024, 5, 17, 9, 4, 5, 0, time.UTC)

func TestEmitWritesRoleHoursIntoEmbeddedTemplate(t *testing.T) {
	emitter := excel.NewReportEmitter(excel.Options{DurationCell: excel.DefaultDurationCell}).
		WithClock(func() time.Time { return fixedNow })

	v := model.RoleHoursVector{1.0}
	v[11] = 12.346
	months := 2.5
	report, err := emitter.Emit(v, "Alpha", &months)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	if !regexp.MustCompile(`^Calculadora_Alpha_\d{8}_\d{6}\.xlsx$`).MatchString(report.FileName) {
		t.Fatalf("unexpected file name %q", report.FileName)
	}
	if report.FileName != "Calculadora_Alpha_20240517_090405.xlsx" {
		t.Fatalf("file name=%q", report.FileName)
	}

	f := openReport(t, report)
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	assertCell(t, f, sheet, "I9", "1.00")
	// excelize renders zero as "0" regardless of format; check the stored value and style
	assertRawNumber(t, f, sheet, "J9", "0", 2)
	assertRawNumber(t, f, sheet, "I9", "1", 2)
	assertCell(t, f, sheet, "T9", "12.35")
	assertCell(t, f, sheet, "D5", "2.5")
	// template content passes through
	assertCell(t, f, sheet, "I8", "Gerente Unidad Proyectos")
	assertCell(t, f, sheet, "T8", "Senior Técnico-1 Telco")
	formula, err := f.GetCellFormula(sheet, "U9")
	if err != nil {
		t.Fatalf("GetCellFormula failed: %v", err)
	}
	if formula != "SUM(I9:T9)" {
		t.Fatalf("U9 formula=%q, want SUM(I9:T9)", formula)
	}
}

func TestEmitWithoutDurationLeavesCellEmpty(t *testing.T) {
	emitter := excel.NewReportEmitter(excel.Options{DurationCell: excel.DefaultDurationCell})
	report, err := emitter.Emit(model.RoleHoursVector{}, "", nil)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if !regexp.MustCompile(`^Calculadora_\d{8}_\d{6}\.xlsx$`).MatchString(report.FileName) {
		t.Fatalf("unexpected file name %q", report.FileName)
	}
	f := openReport(t, report)
	assertCell(t, f, "Analisis Recursos", "D5", "")
}

func TestEmitUsesExternalTemplateAndAnchor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	wb := excelize.NewFile()
	if err := wb.SetCellValue("Sheet1", "A1", "header"); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}

	emitter := excel.NewReportEmitter(excel.Options{TemplatePath: path, Sheet: "Sheet1", Anchor: "B2"})
	var v model.RoleHoursVector
	for i := range v {
		v[i] = float64(i)
	}
	report, err := emitter.Emit(v, "Beta", nil)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	f := openReport(t, report)
	assertCell(t, f, "Sheet1", "A1", "header")
	assertRawNumber(t, f, "Sheet1", "B2", "0", 2)
	assertCell(t, f, "Sheet1", "M2", "11.00")
	assertCell(t, f, "Sheet1", "N2", "")
}

func TestEmitFailsWithoutTemplate(t *testing.T) {
	emitter := excel.NewReportEmitter(excel.Options{TemplatePath: filepath.Join(t.TempDir(), "missing.xlsx")})
	report, err := emitter.Emit(model.RoleHoursVector{}, "Alpha", nil)
	if err == nil {
		t.Fatalf("expected error for missing template")
	}
	if report != nil {
		t.Fatalf("no report expected on failure")
	}
	var reportErr *model.ReportError
	if !errors.As(err, &reportErr) {
		t.Fatalf("expected ReportError, got %T", err)
	}
	if reportErr.Op != "open template" {
		t.Fatalf("op=%q", reportErr.Op)
	}
}

func TestEmitRefusesFormulaAtTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	wb := excelize.NewFile()
	if err := wb.SetCellFormula("Sheet1", "K9", "=1+1"); err != nil {
		t.Fatalf("SetCellFormula failed: %v", err)
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}

	_, err := excel.NewReportEmitter(excel.Options{TemplatePath: path}).Emit(model.RoleHoursVector{}, "x", nil)
	if err == nil {
		t.Fatalf("expected schema check to fail")
	}
}

func TestEmitFailsOnUnknownSheet(t *testing.T) {
	_, err := excel.NewReportEmitter(excel.Options{Sheet: "Nope"}).Emit(model.RoleHoursVector{}, "x", nil)
	if err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Alpha":          "Calculadora_Alpha_20240517_090405.xlsx",
		"Proyecto Telco": "Calculadora_Proyecto_Telco_20240517_090405.xlsx",
		"a/b":            "Calculadora_a_b_20240517_090405.xlsx",
		"  ":             "Calculadora_20240517_090405.xlsx",
	}
	for in, want := range cases {
		if got := excel.FileName(in, fixedNow); got != want {
			t.Errorf("FileName(%q)=%q, want %q", in, got, want)
		}
	}
}

func openReport(t *testing.T, report *excel.Report) *excelize.File {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(report.Data))
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func assertCell(t *testing.T, f *excelize.File, sheet, cell, want string) {
	t.Helper()

	got, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue %s!%s failed: %v", sheet, cell, err)
	}
	if got != want {
		t.Fatalf("%s!%s=%q, want %q", sheet, cell, got, want)
	}
}

func assertRawNumber(t *testing.T, f *excelize.File, sheet, cell, wantRaw string, wantNumFmt int) {
	t.Helper()

	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue %s!%s failed: %v", sheet, cell, err)
	}
	if raw != wantRaw {
		t.Fatalf("%s!%s raw=%q, want %q", sheet, cell, raw, wantRaw)
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellStyle %s!%s failed: %v", sheet, cell, err)
	}
	st, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle %s!%s failed: %v", sheet, cell, err)
	}
	if st.NumFmt != wantNumFmt {
		t.Fatalf("%s!%s numFmt=%d, want %d", sheet, cell, st.NumFmt, wantNumFmt)
	}
}
