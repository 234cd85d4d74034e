package report

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/quochoa304/codex-AI/aggregate"
	"github.com/quochoa304/codex-AI/session"
)

// buildNhapHang dựng sổ chi tiết nhập hàng: phiếu gộp theo (cửa hàng,
// ngày nhập), mỗi nhóm có hai dòng nhãn rồi tới các dòng hàng đã cộng
// dồn theo mã sản phẩm.
func buildNhapHang(_ context.Context, snap session.Snapshot, _ Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Nhập Hàng")
	if err != nil {
		return nil, err
	}
	if len(snap.Purchases) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu nhập hàng"); err != nil {
			return nil, err
		}
		return f, nil
	}

	const width = 7
	if err := sh.setColWidths([]float64{14, 40, 12, 15, 12, 18, 20}); err != nil {
		return nil, err
	}
	if err := sh.titleBlock("SỔ CHI TIẾT NHẬP HÀNG", snap.Filter, width); err != nil {
		return nil, err
	}

	headers := []string{"Mã SP", "Tên SP", "Số lượng", "Đơn giá", "Giảm giá (%)", "Thành tiền", "Ghi chú"}
	groups := aggregate.GroupPurchases(snap.Purchases)
	var totalQty, totalAmount float64

	for _, g := range groups {
		dayLabel, storeLabel := aggregate.GroupLabel(g)
		if _, err := sh.bandRow([]any{dayLabel}, width, sh.styles.groupHead, nil, 0); err != nil {
			return nil, err
		}
		if _, err := sh.bandRow([]any{storeLabel}, width, sh.styles.groupHead, nil, 0); err != nil {
			return nil, err
		}
		if _, err := sh.headerRow(headers); err != nil {
			return nil, err
		}
		for _, item := range g.Items {
			values := []any{item.MaSP, item.TenSP, item.SoLuong, item.GiaMua, item.GiamPT / 100, item.ThanhTien, ""}
			row, err := sh.dataRow(values, []int{3, 4, 6}, sh.styles.num)
			if err != nil {
				return nil, err
			}
			if err := sh.styleCells(row, []int{5}, sh.styles.pct); err != nil {
				return nil, err
			}
			totalQty += item.SoLuong
			totalAmount += item.ThanhTien
		}
		sh.blankRow()
	}

	total := []any{"", "TỔNG CỘNG", totalQty, "", "", totalAmount, ""}
	if _, err := sh.bandRow(total, width, sh.styles.total, []int{3, 6}, sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}
