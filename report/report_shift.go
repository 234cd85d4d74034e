package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quochoa304/codex-AI/aggregate"
	"github.com/quochoa304/codex-AI/session"
	"github.com/quochoa304/codex-AI/vnfmt"
)

// buildKetCa dựng báo cáo kết ca theo ngày: mỗi ngày một khối gồm dòng
// tiêu đề ngày, header cột lặp lại, các ca và dòng tổng ngày. Tổng tiền
// và tiền sau giảm của từng ca đã gộp doanh số bánh kem.
func buildKetCa(_ context.Context, snap session.Snapshot, _ Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Kết Ca")
	if err != nil {
		return nil, err
	}
	if len(snap.Shifts) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu kết ca"); err != nil {
			return nil, err
		}
		return f, nil
	}

	const width = 7
	if err := sh.setColWidths([]float64{14, 10, 25, 20, 16, 14, 18}); err != nil {
		return nil, err
	}
	if err := sh.titleBlock("BÁO CÁO KẾT CA", snap.Filter, width); err != nil {
		return nil, err
	}

	headers := []string{"Ngày", "Ca", "Nhân viên", "Thời gian kết ca", "Tổng tiền", "Giảm giá", "Tiền sau giảm giá"}
	numCols := []int{5, 6, 7}
	perDay, grand := aggregate.ShiftTotals(snap.Shifts)

	for i, day := range snap.Shifts {
		if err := sh.mergedRow(vnfmt.Date(day.Ngay), width, sh.styles.dayHead); err != nil {
			return nil, err
		}
		if _, err := sh.headerRow(headers); err != nil {
			return nil, err
		}
		for j, ca := range day.Ca {
			values := []any{
				vnfmt.Date(day.Ngay), fmt.Sprintf("Ca %d", j+1),
				ca.TenNhanVien, vnfmt.DateTime(ca.ThoiGianKetCa),
				ca.CombinedGross(), ca.GiamGia, ca.CombinedNet(),
			}
			if _, err := sh.dataRow(values, numCols, sh.styles.num); err != nil {
				return nil, err
			}
		}
		t := perDay[i]
		dayTotal := []any{"", fmt.Sprintf("Tổng ngày (%d ca)", t.Shifts), "", "", t.Gross, t.Discount, t.Net}
		if _, err := sh.bandRow(dayTotal, width, sh.styles.dayTotal, numCols, sh.styles.dayTotalNum); err != nil {
			return nil, err
		}
		sh.blankRow()
	}

	total := []any{"", fmt.Sprintf("TỔNG CỘNG (%d ca)", grand.Shifts), "", "", grand.Gross, grand.Discount, grand.Net}
	if _, err := sh.bandRow(total, width, sh.styles.total, numCols, sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}
