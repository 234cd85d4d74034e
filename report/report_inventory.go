package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quochoa304/codex-AI/aggregate"
	"github.com/quochoa304/codex-AI/session"
	"github.com/quochoa304/codex-AI/vnfmt"
)

var inventoryHeaders = []string{
	"STT", "Mã NL", "Tên sản phẩm", "ĐVT", "Đơn giá",
	"Tồn đầu kỳ", "GT đầu kỳ", "Tổng nhập", "GT nhập",
	"SL điều phối", "GT điều phối", "Nhập điều chuyển", "GT điều chuyển",
	"Tổng xuất", "GT xuất", "Tổng hủy", "GT hủy",
	"Tồn cuối kỳ", "GT cuối kỳ",
}

// buildTonKho dựng phiếu tồn kho 19 cột. Đơn giá từng dòng suy ra từ giá
// trị / số lượng, không bao giờ cộng vào dòng tổng.
func buildTonKho(_ context.Context, snap session.Snapshot, _ Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Tồn Kho")
	if err != nil {
		return nil, err
	}
	if len(snap.Inventory) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu tồn kho"); err != nil {
			return nil, err
		}
		return f, nil
	}

	width := len(inventoryHeaders)
	widths := make([]float64, width)
	widths[0], widths[1], widths[2], widths[3] = 6, 12, 35, 8
	for i := 4; i < width; i++ {
		widths[i] = 14
	}
	if err := sh.setColWidths(widths); err != nil {
		return nil, err
	}
	if err := sh.titleBlock("BÁO CÁO TỒN KHO", snap.Filter, width); err != nil {
		return nil, err
	}

	headerValues := make([]any, width)
	for i, h := range inventoryHeaders {
		headerValues[i] = h
	}
	headerRow, err := sh.writeRow(headerValues)
	if err != nil {
		return nil, err
	}
	if err := sh.styleRange(headerRow, 1, width, sh.styles.headerLav); err != nil {
		return nil, err
	}

	numCols := make([]int, 0, 15)
	for col := 5; col <= width; col++ {
		numCols = append(numCols, col)
	}

	for i, l := range snap.Inventory {
		values := []any{
			i + 1, l.MaNL, l.TenSP, l.DVT, l.UnitPrice(),
			l.OpeningQty(), l.OpeningValue(), l.TongNhap, l.GiaTriNhap,
			l.SoLuongDieuPhoi, l.GiaTriDieuPhoi, l.NhapDieuChuyen, l.GiaTriNhapDieuChuyen,
			l.TongXuat, l.GiaTriXuat, l.TongHuy, l.GiaTriHuy,
			l.TonCK, l.GiaTriCK,
		}
		if _, err := sh.dataRow(values, numCols, sh.styles.num); err != nil {
			return nil, err
		}
	}

	t := aggregate.SumInventory(snap.Inventory)
	total := []any{
		"", "", "TỔNG CỘNG", "", "",
		t.OpeningQty, t.OpeningValue, t.InQty, t.InValue,
		t.DispatchQty, t.DispatchValue, t.TransferQty, t.TransferValue,
		t.SaleOutQty, t.SaleOutValue, t.DisposalQty, t.DisposalValue,
		t.ClosingQty, t.ClosingValue,
	}
	if _, err := sh.bandRow(total, width, sh.styles.total, numCols[1:], sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}

var stocktakeSummaryHeaders = []string{
	"ID Phiếu", "Ngày kiểm kê", "Người kiểm kê", "Ghi chú",
	"Tổng mặt hàng", "Tổng chênh lệch SL", "Giá trị chênh lệch",
}

var stocktakeDetailHeaders = []string{
	"STT", "Mã SP", "Tên sản phẩm", "ĐVT", "Đơn giá",
	"Tồn sổ sách", "Tồn thực tế", "Chênh lệch", "Thành tiền CL",
}

// buildKiemKe dựng workbook kiểm kê: sheet tổng hợp một dòng mỗi phiếu,
// kèm một sheet chi tiết cho mỗi phiếu có dữ liệu. Phiếu lỗi khi tải chi
// tiết vẫn có dòng tổng hợp với số 0 và không có sheet chi tiết.
func buildKiemKe(ctx context.Context, snap session.Snapshot, deps Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Tổng hợp phiếu kiểm kê")
	if err != nil {
		return nil, err
	}
	if len(snap.Stocktakes) == 0 {
		if err := sh.placeholderRow("Không có phiếu kiểm kê trong khoảng ngày"); err != nil {
			return nil, err
		}
		return f, nil
	}

	entries, grand := aggregate.SummarizeStocktakes(ctx, snap.Stocktakes, deps.Details, deps.Logger)

	const width = 7
	if err := sh.setColWidths([]float64{12, 15, 25, 30, 15, 18, 20}); err != nil {
		return nil, err
	}
	if err := sh.titleBlock("BÁO CÁO TỔNG HỢP PHIẾU KIỂM KÊ", snap.Filter, width); err != nil {
		return nil, err
	}
	if _, err := sh.headerRow(stocktakeSummaryHeaders); err != nil {
		return nil, err
	}

	for _, e := range entries {
		note := e.Header.GhiChu
		if note == "" {
			note = "-"
		}
		values := []any{
			fmt.Sprintf("#%d", e.Header.IDPhieu), vnfmt.Date(e.Header.NgayKiemKe),
			e.Header.TenUser, note, e.Items, e.AbsVariance, e.AbsValue,
		}
		row, err := sh.dataRow(values, []int{5, 7}, sh.styles.num)
		if err != nil {
			return nil, err
		}
		if err := sh.styleCells(row, []int{6}, sh.styles.num2); err != nil {
			return nil, err
		}
	}

	total := []any{"TỔNG CỘNG", "", "", "", grand.Items, grand.AbsVariance, grand.AbsValue}
	row, err := sh.bandRow(total, width, sh.styles.totalGold, []int{5, 7}, sh.styles.goldNum)
	if err != nil {
		return nil, err
	}
	if err := sh.styleCells(row, []int{6}, sh.styles.goldNum2); err != nil {
		return nil, err
	}

	for _, e := range entries {
		if len(e.Details) == 0 {
			continue
		}
		if err := writeStocktakeDetailSheet(f, sh.styles, e); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeStocktakeDetailSheet(f *excelize.File, styles styleSet, e aggregate.StocktakeEntry) error {
	sh, err := addSheet(f, styles, fmt.Sprintf("Chi tiết #%d", e.Header.IDPhieu))
	if err != nil {
		return err
	}

	width := len(stocktakeDetailHeaders)
	if err := sh.setColWidths([]float64{6, 12, 35, 8, 14, 12, 12, 12, 16}); err != nil {
		return err
	}
	if err := sh.mergedRow(fmt.Sprintf("CHI TIẾT PHIẾU KIỂM KÊ #%d", e.Header.IDPhieu), width, styles.title); err != nil {
		return err
	}
	info := fmt.Sprintf("Ngày: %s | Người kiểm kê: %s", vnfmt.Date(e.Header.NgayKiemKe), e.Header.TenUser)
	if err := sh.mergedRow(info, width, styles.subtitle); err != nil {
		return err
	}
	if e.Header.GhiChu != "" {
		if err := sh.mergedRow("Ghi chú: "+e.Header.GhiChu, width, styles.subtitle); err != nil {
			return err
		}
	}
	sh.blankRow()
	if _, err := sh.headerRow(stocktakeDetailHeaders); err != nil {
		return err
	}

	var totalBook, totalActual float64
	for i, d := range e.Details {
		values := []any{
			i + 1, d.MaSP, d.TenSP, d.DonViTinh, d.DonGia,
			d.TonSoSach, d.TonThucTe, d.Variance(), d.VarianceValue(),
		}
		row, err := sh.dataRow(values, []int{5, 9}, styles.num)
		if err != nil {
			return err
		}
		if err := sh.styleCells(row, []int{6, 7, 8}, styles.num2); err != nil {
			return err
		}
		totalBook += d.TonSoSach
		totalActual += d.TonThucTe
	}

	total := []any{"", "", "TỔNG CỘNG", "", "", totalBook, totalActual, e.AbsVariance, e.AbsValue}
	row, err := sh.bandRow(total, width, styles.total, []int{9}, styles.totalNum)
	if err != nil {
		return err
	}
	return sh.styleCells(row, []int{6, 7, 8}, styles.totalNum2)
}
