package report

import (
	"context"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quochoa304/codex-AI/aggregate"
	"github.com/quochoa304/codex-AI/session"
	"github.com/quochoa304/codex-AI/vnfmt"
)

// selectedStoreNames nối tên các cửa hàng đang chọn cho dòng đầu báo cáo.
func selectedStoreNames(snap session.Snapshot) string {
	byID := make(map[int]string, len(snap.Stores))
	for _, s := range snap.Stores {
		byID[s.IDCH] = s.TenCuaHang
	}
	names := make([]string, 0, len(snap.Filter.DsMaCH))
	for _, id := range snap.Filter.DsMaCH {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, strconv.Itoa(id))
		}
	}
	return strings.Join(names, ", ")
}

// buildBanhKem dựng báo cáo chi tiết bán bánh kem, sắp theo thời gian
// thực hiện giảm dần. Thời gian hiển thị đã lùi 7 tiếng; thành tiền tính
// lại từ số lượng × đơn giá.
func buildBanhKem(_ context.Context, snap session.Snapshot, _ Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Chi Tiết Bán Bánh Kem")
	if err != nil {
		return nil, err
	}
	if len(snap.CakeSales) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu bán bánh kem"); err != nil {
			return nil, err
		}
		return f, nil
	}

	const width = 10
	if err := sh.setColWidths([]float64{14, 14, 12, 35, 10, 14, 16, 18, 20, 25}); err != nil {
		return nil, err
	}
	if err := sh.mergedRow("BÁO CÁO CHI TIẾT BÁN BÁNH KEM", width, sh.styles.title); err != nil {
		return nil, err
	}
	subtitle := "Từ ngày " + vnfmt.Date(snap.Filter.TuNgay) + " đến ngày " + vnfmt.Date(snap.Filter.DenNgay)
	if err := sh.mergedRow(subtitle, width, sh.styles.subtitle); err != nil {
		return nil, err
	}
	if err := sh.mergedRow("Cửa hàng: "+selectedStoreNames(snap), width, sh.styles.subtitle); err != nil {
		return nil, err
	}
	sh.blankRow()

	headers := []string{
		"ID Điều Chuyển", "Sale Order", "Mã SP", "Tên SP", "Số Lượng",
		"Đơn Giá", "Thành Tiền", "Ngày Thực Hiện", "Nhân Viên", "Cửa Hàng",
	}
	if _, err := sh.headerRow(headers); err != nil {
		return nil, err
	}

	byCode := make(map[string]string, len(snap.Stores))
	for _, s := range snap.Stores {
		byCode[s.MaCuaHang] = s.TenCuaHang
	}

	numCols := []int{5, 6, 7}
	var totalQty, totalAmount float64
	for _, c := range aggregate.SortCakeSalesDesc(snap.CakeSales) {
		name, ok := byCode[c.MaCH]
		if !ok {
			name = c.MaCH
		}
		values := []any{
			c.IDDieuChuyen, c.SaleOrder, c.MaSP, c.TenSP, c.SoLuong,
			c.DonGia, c.Revenue(), vnfmt.CakeTime(c.NgayThucHien), c.NhanVien, name,
		}
		if _, err := sh.dataRow(values, numCols, sh.styles.num); err != nil {
			return nil, err
		}
		totalQty += c.SoLuong
		totalAmount += c.Revenue()
	}

	total := []any{"", "", "", "TỔNG CỘNG", totalQty, "", totalAmount, "", "", ""}
	if _, err := sh.bandRow(total, width, sh.styles.total, []int{5, 7}, sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}

// buildWholesale dựng báo cáo chi tiết bánh kem đặt, sắp theo ngày đặt
// giảm dần. Ngày đặt / ngày nhận giữ nguyên giờ nguồn, không lùi 7 tiếng.
func buildWholesale(_ context.Context, snap session.Snapshot, _ Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Chi Tiết Bánh Kem Đặt")
	if err != nil {
		return nil, err
	}
	if len(snap.Wholesale) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu bánh kem đặt"); err != nil {
			return nil, err
		}
		return f, nil
	}

	const width = 10
	if err := sh.setColWidths([]float64{14, 25, 12, 14, 10, 16, 18, 18, 20, 20}); err != nil {
		return nil, err
	}
	if err := sh.mergedRow("BÁO CÁO CHI TIẾT BÁNH KEM ĐẶT", width, sh.styles.title); err != nil {
		return nil, err
	}
	subtitle := "Từ ngày " + vnfmt.Date(snap.Filter.TuNgay) + " đến ngày " + vnfmt.Date(snap.Filter.DenNgay)
	if err := sh.mergedRow(subtitle, width, sh.styles.subtitle); err != nil {
		return nil, err
	}
	if err := sh.mergedRow("Cửa hàng: "+selectedStoreNames(snap), width, sh.styles.subtitle); err != nil {
		return nil, err
	}
	sh.blankRow()

	headers := []string{
		"Mã PB", "Cửa Hàng", "Mã SP", "Đơn Giá", "Số Lượng",
		"Thành Tiền", "Ngày Đặt", "Ngày Nhận", "Người Đặt", "Người Xác Nhận",
	}
	if _, err := sh.headerRow(headers); err != nil {
		return nil, err
	}

	byID := make(map[int]string, len(snap.Stores))
	for _, s := range snap.Stores {
		byID[s.IDCH] = s.TenCuaHang
	}

	numCols := []int{4, 5, 6}
	var totalQty, totalAmount float64
	for _, w := range aggregate.SortWholesaleDesc(snap.Wholesale) {
		name, ok := byID[w.IDCH]
		if !ok {
			name = strconv.Itoa(w.IDCH)
		}
		values := []any{
			w.MaPB, name, w.MaSP, w.DonGia, w.SoLuong,
			w.Revenue(), vnfmt.DateTime(w.NgayDat), vnfmt.DateTime(w.NgayNhan),
			w.NguoiDat, w.NguoiXacNhan,
		}
		if _, err := sh.dataRow(values, numCols, sh.styles.num); err != nil {
			return nil, err
		}
		totalQty += w.SoLuong
		totalAmount += w.Revenue()
	}

	total := []any{"", "", "TỔNG CỘNG", "", totalQty, totalAmount, "", "", "", ""}
	if _, err := sh.bandRow(total, width, sh.styles.total, []int{5, 6}, sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}
