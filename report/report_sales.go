package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/reconcile"
	"github.com/quochoa304/codex-AI/session"
	"github.com/quochoa304/codex-AI/vnfmt"
)

// buildDoanhSo dựng báo cáo doanh số ngày. Doanh thu và còn lại là số
// sau đối soát (đã cộng bánh kem, bánh kem đặt); dòng tổng cộng lại từ
// chính các dòng đã ghi.
func buildDoanhSo(_ context.Context, snap session.Snapshot, _ Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Doanh Số")
	if err != nil {
		return nil, err
	}
	if len(snap.Summary.THDoanhSo) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu doanh số"); err != nil {
			return nil, err
		}
		return f, nil
	}
	if err := sh.setColWidths([]float64{15, 30, 18, 15, 18}); err != nil {
		return nil, err
	}
	if err := sh.titleBlock("BÁO CÁO DOANH SỐ", snap.Filter, 5); err != nil {
		return nil, err
	}
	if _, err := sh.headerRow([]string{"Ngày", "Cửa Hàng", "Doanh Thu", "Giảm Giá", "Còn Lại"}); err != nil {
		return nil, err
	}

	records := reconcile.CombineDailyRevenue(snap.Summary.THDoanhSo, snap.CakeSales, snap.Wholesale, snap.Stores)
	var totalRevenue, totalDiscount, totalNet float64
	for _, r := range records {
		values := []any{vnfmt.Date(r.NgayThangNam), r.TenCuaHang, r.CombinedRevenue, r.GiamGia, r.CombinedNet}
		if _, err := sh.dataRow(values, []int{3, 4, 5}, sh.styles.num); err != nil {
			return nil, err
		}
		totalRevenue += r.CombinedRevenue
		totalDiscount += r.GiamGia
		totalNet += r.CombinedNet
	}

	total := []any{"", "TỔNG CỘNG", totalRevenue, totalDiscount, totalNet}
	if _, err := sh.bandRow(total, 5, sh.styles.total, []int{3, 4, 5}, sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}

// buildDoanhSoSP dựng báo cáo doanh số theo sản phẩm.
func buildDoanhSoSP(_ context.Context, snap session.Snapshot, _ Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Doanh Số SP")
	if err != nil {
		return nil, err
	}
	if len(snap.Summary.THDoanhSoSP) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu doanh số sản phẩm"); err != nil {
			return nil, err
		}
		return f, nil
	}
	if err := sh.setColWidths([]float64{12, 12, 40, 12, 15, 18}); err != nil {
		return nil, err
	}
	if err := sh.titleBlock("BÁO CÁO DOANH SỐ SẢN PHẨM", snap.Filter, 6); err != nil {
		return nil, err
	}
	if _, err := sh.headerRow([]string{"Mã SP", "MaNLSP", "Tên Sản Phẩm", "Số Lượng", "Giá Bán", "Thành Tiền"}); err != nil {
		return nil, err
	}

	var totalQty, totalAmount float64
	for _, p := range snap.Summary.THDoanhSoSP {
		values := []any{p.MaSP, p.MaNLSP, p.TenSP, p.SoLuong, p.GiaBan, p.ThanhTien}
		if _, err := sh.dataRow(values, []int{4, 5, 6}, sh.styles.num); err != nil {
			return nil, err
		}
		totalQty += p.SoLuong
		totalAmount += p.ThanhTien
	}

	total := []any{"", "", "TỔNG CỘNG", totalQty, "", totalAmount}
	if _, err := sh.bandRow(total, 6, sh.styles.total, []int{4, 6}, sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}

// invoiceColumns là schema cột cố định của báo cáo hóa đơn. Field ngoài
// schema (nếu upstream thêm) được suy luận thành cột phụ phía sau và ghi
// log cảnh báo.
var invoiceColumns = []string{
	"IDPhieu", "MaHD", "SoHD", "SoHoaDon", "MaHTTT",
	"DoanhThu", "ThanhTien", "TongTien", "GiamGia", "TienThue", "ThanhTienConLai",
}

// invoiceMoneyColumns đánh dấu cột tiền tệ: nhận định dạng nghìn và có
// dòng tổng.
var invoiceMoneyColumns = map[string]bool{
	"DoanhThu": true, "ThanhTien": true, "TongTien": true,
	"GiamGia": true, "TienThue": true, "ThanhTienConLai": true,
}

func invoiceCell(r model.InvoiceRecord, key string) any {
	switch key {
	case "IDPhieu":
		return r.IDPhieu.String()
	case "MaHD":
		return r.MaHD
	case "SoHD":
		return r.SoHD
	case "SoHoaDon":
		return r.SoHoaDon
	case "MaHTTT":
		return r.MaHTTT
	case "DoanhThu":
		return r.DoanhThu
	case "ThanhTien":
		return r.ThanhTien
	case "TongTien":
		return r.TongTien
	case "GiamGia":
		return r.GiamGia
	case "TienThue":
		return r.TienThue
	case "ThanhTienConLai":
		return r.ThanhTienConLai
	default:
		return rawCell(r.Extra[key])
	}
}

func rawCell(raw json.RawMessage) any {
	if raw == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// extraColumns gom các field ngoài schema, hợp nhất trên mọi record và
// sắp theo tên cho cột ổn định.
func extraColumns[T any](records []T, extraOf func(T) map[string]json.RawMessage) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range extraOf(r) {
			seen[k] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// buildHoaDon dựng báo cáo hóa đơn theo schema cột cố định.
func buildHoaDon(_ context.Context, snap session.Snapshot, deps Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Hóa Đơn")
	if err != nil {
		return nil, err
	}
	invoices := snap.Summary.THHoaDon
	if len(invoices) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu hóa đơn"); err != nil {
			return nil, err
		}
		return f, nil
	}

	extras := extraColumns(invoices, func(r model.InvoiceRecord) map[string]json.RawMessage { return r.Extra })
	if len(extras) > 0 {
		deps.Logger.Warn("hóa đơn có field ngoài schema, suy luận cột bổ sung",
			zap.Strings("columns", extras))
	}
	columns := append(append([]string{}, invoiceColumns...), extras...)

	if err := sh.titleBlock("BÁO CÁO HÓA ĐƠN", snap.Filter, len(columns)); err != nil {
		return nil, err
	}
	if _, err := sh.headerRow(columns); err != nil {
		return nil, err
	}

	var numCols []int
	for i, col := range columns {
		if invoiceMoneyColumns[col] {
			numCols = append(numCols, i+1)
		}
	}

	totals := make(map[string]float64)
	for _, hd := range invoices {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = invoiceCell(hd, col)
			if invoiceMoneyColumns[col] {
				if v, ok := values[i].(float64); ok {
					totals[col] += v
				}
			}
		}
		if _, err := sh.dataRow(values, numCols, sh.styles.num); err != nil {
			return nil, err
		}
	}

	total := make([]any, len(columns))
	total[0] = "TỔNG CỘNG"
	total[1] = fmt.Sprintf("%d hóa đơn", len(invoices))
	for i, col := range columns {
		if invoiceMoneyColumns[col] {
			total[i] = totals[col]
		}
	}
	if _, err := sh.bandRow(total, len(columns), sh.styles.total, numCols, sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}

// lineColumns là schema cột cố định của báo cáo chi tiết bán hàng.
var lineColumns = []string{
	"MaHoaDon", "IDPhieu", "SoHD", "SoHoaDon",
	"MaSP", "TenSP", "SoLuong", "GiaBan", "ThanhTien", "GiamGia", "MaHTTT",
}

func lineCell(it model.SaleLineItem, key string) any {
	switch key {
	case "MaHoaDon":
		return it.MaHoaDon.String()
	case "IDPhieu":
		return it.IDPhieu.String()
	case "SoHD":
		return it.SoHD
	case "SoHoaDon":
		return it.SoHoaDon
	case "MaSP":
		return it.MaSP
	case "TenSP":
		return it.TenSP
	case "SoLuong":
		return it.SoLuong
	case "GiaBan":
		return it.GiaBan
	case "ThanhTien":
		return it.ThanhTien
	case "GiamGia":
		return it.GiamGia
	case "MaHTTT":
		return it.MaHTTT
	default:
		return rawCell(it.Extra[key])
	}
}

// buildChiTietBanHang dựng báo cáo chi tiết bán hàng trên các dòng đã
// đối soát: thành tiền tính lại, hình thức thanh toán đã tra ngược từ
// hóa đơn. Tổng cột giảm giá là tiền giảm (GiamGia% × thành tiền), không
// phải tổng phần trăm.
func buildChiTietBanHang(_ context.Context, snap session.Snapshot, deps Deps) (*excelize.File, error) {
	f, sh, err := newWorkbook("Chi Tiết Bán Hàng")
	if err != nil {
		return nil, err
	}
	raw := snap.Summary.CTBanHang
	if len(raw) == 0 {
		if err := sh.placeholderRow("Không có dữ liệu chi tiết bán hàng"); err != nil {
			return nil, err
		}
		return f, nil
	}
	items := reconcile.CorrectLineItems(raw, snap.Summary.THHoaDon)

	extras := extraColumns(items, func(it model.SaleLineItem) map[string]json.RawMessage { return it.Extra })
	if len(extras) > 0 {
		deps.Logger.Warn("chi tiết bán hàng có field ngoài schema, suy luận cột bổ sung",
			zap.Strings("columns", extras))
	}
	columns := append(append([]string{}, lineColumns...), extras...)

	if err := sh.titleBlock("BÁO CÁO CHI TIẾT BÁN HÀNG", snap.Filter, len(columns)); err != nil {
		return nil, err
	}
	if _, err := sh.headerRow(columns); err != nil {
		return nil, err
	}

	numCols := []int{7, 8, 9, 10}
	var totalQty, totalAmount float64
	for _, it := range items {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = lineCell(it, col)
		}
		if _, err := sh.dataRow(values, numCols, sh.styles.num); err != nil {
			return nil, err
		}
		totalQty += it.SoLuong
		totalAmount += it.ThanhTien
	}

	total := make([]any, len(columns))
	total[0] = "TỔNG CỘNG"
	total[1] = fmt.Sprintf("%d giao dịch", len(items))
	total[6] = totalQty
	total[8] = totalAmount
	total[9] = reconcile.DiscountAmount(items)
	if _, err := sh.bandRow(total, len(columns), sh.styles.total, numCols, sh.styles.totalNum); err != nil {
		return nil, err
	}
	return f, nil
}
