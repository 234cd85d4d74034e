// Package report dựng từng loại báo cáo thành workbook xlsx và điều
// phối việc xuất hàng loạt. Mọi sheet theo cùng một khung: tiêu đề
// merge, dòng khoảng ngày, dòng trống, header tô nền, dữ liệu, dòng
// tổng cộng tô nền với số tổng tính lại từ chính các dòng đã ghi.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/vnfmt"
)

const (
	fillHeader     = "DDEEFF"
	fillTotal      = "FFCCCC"
	fillGroup      = "EFEFEF"
	fillDayHead    = "E6F3FF"
	fillDayTotal   = "F0F8FF"
	fillLavender   = "E6E6FA"
	fillGrandGold  = "FFD700"
	numFmtThousand = "#,##0"
	numFmtTwoDec   = "#,##0.00"
	numFmtPercent  = "0%"
)

// styleSet là các style dùng chung của một workbook. excelize gộp font,
// nền và định dạng số vào một style id nên mỗi tổ hợp cần một entry.
type styleSet struct {
	title       int
	subtitle    int
	header      int
	headerLav   int
	num         int
	num2        int
	pct         int
	groupHead   int
	dayHead     int
	dayTotal    int
	dayTotalNum int
	total       int
	totalNum    int
	totalNum2   int
	totalGold   int
	goldNum     int
	goldNum2    int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}
	thousand := numFmtThousand
	twoDec := numFmtTwoDec
	percent := numFmtPercent

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Bold: true}, Alignment: center,
	}); err != nil {
		return s, err
	}
	if s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true}, Alignment: center,
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Alignment: center, Fill: fill(fillHeader),
	}); err != nil {
		return s, err
	}
	if s.headerLav, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Alignment: center, Fill: fill(fillLavender),
	}); err != nil {
		return s, err
	}
	if s.num, err = f.NewStyle(&excelize.Style{CustomNumFmt: &thousand}); err != nil {
		return s, err
	}
	if s.num2, err = f.NewStyle(&excelize.Style{CustomNumFmt: &twoDec}); err != nil {
		return s, err
	}
	if s.pct, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percent}); err != nil {
		return s, err
	}
	if s.groupHead, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillGroup),
	}); err != nil {
		return s, err
	}
	if s.dayHead, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12}, Fill: fill(fillDayHead),
	}); err != nil {
		return s, err
	}
	if s.dayTotal, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillDayTotal),
	}); err != nil {
		return s, err
	}
	if s.dayTotalNum, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillDayTotal), CustomNumFmt: &thousand,
	}); err != nil {
		return s, err
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillTotal),
	}); err != nil {
		return s, err
	}
	if s.totalNum, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillTotal), CustomNumFmt: &thousand,
	}); err != nil {
		return s, err
	}
	if s.totalNum2, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillTotal), CustomNumFmt: &twoDec,
	}); err != nil {
		return s, err
	}
	if s.totalGold, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillGrandGold),
	}); err != nil {
		return s, err
	}
	if s.goldNum, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillGrandGold), CustomNumFmt: &thousand,
	}); err != nil {
		return s, err
	}
	if s.goldNum2, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: fill(fillGrandGold), CustomNumFmt: &twoDec,
	}); err != nil {
		return s, err
	}

	return s, nil
}

// sheet bọc một worksheet với con trỏ dòng tăng dần.
type sheet struct {
	f      *excelize.File
	name   string
	styles styleSet
	row    int
}

// newWorkbook tạo workbook một sheet với bộ style dùng chung.
func newWorkbook(sheetName string) (*excelize.File, *sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, nil, fmt.Errorf("rename sheet: %w", err)
	}
	styles, err := newStyleSet(f)
	if err != nil {
		return nil, nil, fmt.Errorf("init styles: %w", err)
	}
	return f, &sheet{f: f, name: sheetName, styles: styles}, nil
}

// addSheet thêm một worksheet nữa vào cùng workbook.
func addSheet(f *excelize.File, styles styleSet, sheetName string) (*sheet, error) {
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, fmt.Errorf("add sheet %q: %w", sheetName, err)
	}
	return &sheet{f: f, name: sheetName, styles: styles}, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// writeRow ghi một dòng giá trị vào dòng kế tiếp, trả số dòng đã ghi.
func (s *sheet) writeRow(values []any) (int, error) {
	s.row++
	if err := s.f.SetSheetRow(s.name, cellName(1, s.row), &values); err != nil {
		return 0, fmt.Errorf("write row %d: %w", s.row, err)
	}
	return s.row, nil
}

// blankRow chừa một dòng trống.
func (s *sheet) blankRow() { s.row++ }

// mergedRow ghi một giá trị merge ngang qua cols cột, áp style.
func (s *sheet) mergedRow(value string, cols, styleID int) error {
	s.row++
	start := cellName(1, s.row)
	end := cellName(cols, s.row)
	if err := s.f.MergeCell(s.name, start, end); err != nil {
		return fmt.Errorf("merge row %d: %w", s.row, err)
	}
	if err := s.f.SetCellValue(s.name, start, value); err != nil {
		return err
	}
	return s.f.SetCellStyle(s.name, start, end, styleID)
}

// styleRange áp style cho một dải cột của dòng row.
func (s *sheet) styleRange(row, fromCol, toCol, styleID int) error {
	return s.f.SetCellStyle(s.name, cellName(fromCol, row), cellName(toCol, row), styleID)
}

// styleCells áp style cho từng cột rời rạc của dòng row.
func (s *sheet) styleCells(row int, cols []int, styleID int) error {
	for _, col := range cols {
		cell := cellName(col, row)
		if err := s.f.SetCellStyle(s.name, cell, cell, styleID); err != nil {
			return err
		}
	}
	return nil
}

// setColWidths đặt độ rộng từng cột theo thứ tự từ cột A.
func (s *sheet) setColWidths(widths []float64) error {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := s.f.SetColWidth(s.name, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

// titleBlock ghi khung đầu sheet: tiêu đề lớn, dòng khoảng ngày và một
// dòng trống.
func (s *sheet) titleBlock(title string, f model.Filter, cols int) error {
	if err := s.mergedRow(title, cols, s.styles.title); err != nil {
		return err
	}
	subtitle := fmt.Sprintf("Từ ngày %s đến ngày %s", vnfmt.Date(f.TuNgay), vnfmt.Date(f.DenNgay))
	if err := s.mergedRow(subtitle, cols, s.styles.subtitle); err != nil {
		return err
	}
	s.blankRow()
	return nil
}

// headerRow ghi dòng tiêu đề cột với style header mặc định.
func (s *sheet) headerRow(headers []string) (int, error) {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	row, err := s.writeRow(values)
	if err != nil {
		return 0, err
	}
	return row, s.styleRange(row, 1, len(headers), s.styles.header)
}

// placeholderRow ghi dòng giải thích cho dataset rỗng: sheet chỉ có đúng
// một dòng này, không header, không tổng.
func (s *sheet) placeholderRow(message string) error {
	_, err := s.writeRow([]any{message})
	return err
}

// dataRow ghi một dòng dữ liệu rồi áp định dạng số cho các cột chỉ định.
func (s *sheet) dataRow(values []any, numCols []int, numStyle int) (int, error) {
	row, err := s.writeRow(values)
	if err != nil {
		return 0, err
	}
	return row, s.styleCells(row, numCols, numStyle)
}

// bandRow ghi một dòng tô nền toàn dải (dòng tổng, dòng nhóm): baseStyle
// phủ width cột đầu, numStyle đè lên các cột số.
func (s *sheet) bandRow(values []any, width, baseStyle int, numCols []int, numStyle int) (int, error) {
	row, err := s.writeRow(values)
	if err != nil {
		return 0, err
	}
	if err := s.styleRange(row, 1, width, baseStyle); err != nil {
		return 0, err
	}
	if len(numCols) > 0 {
		if err := s.styleCells(row, numCols, numStyle); err != nil {
			return 0, err
		}
	}
	return row, nil
}
