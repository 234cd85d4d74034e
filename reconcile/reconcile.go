// Package reconcile đối soát số liệu giữa các nguồn: gộp doanh thu bánh
// kem và bánh kem đặt vào doanh số ngày, tra ngược hình thức thanh toán
// cho dòng bán hàng từ hóa đơn, và tính lại thành tiền từ số lượng × đơn
// giá thay vì tin field của nguồn.
package reconcile

import (
	"strconv"

	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/vnfmt"
)

// CombinedDailyRecord là doanh số ngày sau đối soát: doanh thu và doanh
// thu còn lại đã cộng phần bánh kem / bánh kem đặt khớp cùng ngày và
// cùng tên cửa hàng.
type CombinedDailyRecord struct {
	model.DailySalesRecord
	CakeRevenue      float64
	WholesaleRevenue float64
	CombinedRevenue  float64
	CombinedNet      float64
}

// lineKeyFn rút một ứng viên định danh hóa đơn từ dòng bán hàng.
type lineKeyFn func(model.SaleLineItem) string

// LineKeyPriority là thứ tự ưu tiên cố định khi dò hóa đơn cho một dòng
// bán hàng: MaHoaDon, IDPhieu, SoHD, SoHoaDon. Ứng viên đầu tiên có mặt
// trong chỉ mục hóa đơn thắng.
var LineKeyPriority = []lineKeyFn{
	func(it model.SaleLineItem) string { return it.MaHoaDon.String() },
	func(it model.SaleLineItem) string { return it.IDPhieu.String() },
	func(it model.SaleLineItem) string { return it.SoHD },
	func(it model.SaleLineItem) string { return it.SoHoaDon },
}

// BuildInvoicePaymentIndex lập chỉ mục định danh hóa đơn → hình thức
// thanh toán. Mỗi hóa đơn được ghi dưới mọi alias nó có; giá trị lấy
// theo MaHTTT, rồi HinhThucThanhToan, rồi PhuongThuc.
func BuildInvoicePaymentIndex(invoices []model.InvoiceRecord) map[string]string {
	idx := make(map[string]string, len(invoices)*2)
	for _, hd := range invoices {
		value := hd.MaHTTT
		if value == "" {
			value = hd.HinhThucThanhToan
		}
		if value == "" {
			value = hd.PhuongThuc
		}
		for _, key := range []string{hd.IDPhieu.String(), hd.MaHD, hd.SoHD, hd.SoHoaDon} {
			if key != "" && key != "0" {
				idx[key] = value
			}
		}
	}
	return idx
}

// ResolvePayment dò hình thức thanh toán cho một dòng theo LineKeyPriority.
// Không khớp được thì trả rỗng: đó là dữ liệu, không phải lỗi.
func ResolvePayment(idx map[string]string, item model.SaleLineItem) (string, bool) {
	for _, keyOf := range LineKeyPriority {
		key := keyOf(item)
		if key == "" || key == "0" {
			continue
		}
		if v, ok := idx[key]; ok {
			return v, true
		}
	}
	return "", false
}

// CorrectLineItems trả bản sao các dòng bán hàng đã đối soát: thành tiền
// tính lại từ số lượng × đơn giá, hình thức thanh toán thiếu thì tra
// ngược từ hóa đơn.
func CorrectLineItems(items []model.SaleLineItem, invoices []model.InvoiceRecord) []model.SaleLineItem {
	idx := BuildInvoicePaymentIndex(invoices)
	out := make([]model.SaleLineItem, len(items))
	for i, it := range items {
		if it.SoLuong != 0 && it.GiaBan != 0 {
			it.ThanhTien = it.SoLuong * it.GiaBan
		}
		if it.MaHTTT == "" {
			if v, ok := ResolvePayment(idx, it); ok {
				it.MaHTTT = v
			}
		}
		out[i] = it
	}
	return out
}

// DiscountAmount tính tổng tiền giảm: Σ GiamGia% × thành tiền (đã tính
// lại). Cộng dồn độc lập, không đọc field giảm giá tổng nào từ nguồn.
func DiscountAmount(items []model.SaleLineItem) float64 {
	var total float64
	for _, it := range items {
		if it.GiamGia != 0 && it.ThanhTien != 0 {
			total += it.GiamGia / 100 * it.ThanhTien
		}
	}
	return total
}

// storeNames lập hai bảng tra tên cửa hàng: theo MaCuaHang (bánh kem)
// và theo IDCH (bánh kem đặt).
func storeNames(stores []model.Store) (byCode map[string]string, byID map[int]string) {
	byCode = make(map[string]string, len(stores))
	byID = make(map[int]string, len(stores))
	for _, s := range stores {
		byCode[s.MaCuaHang] = s.TenCuaHang
		byID[s.IDCH] = s.TenCuaHang
	}
	return byCode, byID
}

// DayStoreKey là khóa khớp (ngày lịch, tên cửa hàng).
type DayStoreKey struct {
	Day   string
	Store string
}

// CakeRevenueByDayStore gộp doanh thu bánh kem theo (ngày, tên cửa hàng).
// Ngày lấy theo lịch từ timestamp gốc; mã cửa hàng phân giải ra tên qua
// danh mục, không có trong danh mục thì giữ nguyên mã.
func CakeRevenueByDayStore(cakes []model.CakeSaleRecord, stores []model.Store) map[DayStoreKey]float64 {
	byCode, _ := storeNames(stores)
	out := make(map[DayStoreKey]float64)
	for _, c := range cakes {
		name, ok := byCode[c.MaCH]
		if !ok {
			name = c.MaCH
		}
		out[DayStoreKey{Day: vnfmt.DayKey(c.NgayThucHien), Store: name}] += c.Revenue()
	}
	return out
}

// WholesaleRevenueByDayStore gộp doanh thu bánh kem đặt theo (ngày đặt,
// tên cửa hàng).
func WholesaleRevenueByDayStore(orders []model.WholesaleOrderRecord, stores []model.Store) map[DayStoreKey]float64 {
	_, byID := storeNames(stores)
	out := make(map[DayStoreKey]float64)
	for _, w := range orders {
		name, ok := byID[w.IDCH]
		if !ok {
			name = strconv.Itoa(w.IDCH)
		}
		out[DayStoreKey{Day: vnfmt.DayKey(w.NgayDat), Store: name}] += w.Revenue()
	}
	return out
}

// CombineDailyRevenue tính doanh số ngày sau đối soát. Khớp theo ngày
// lịch và tên cửa hàng (không phải id); phần khớp được cộng vào cả doanh
// thu lẫn doanh thu còn lại.
func CombineDailyRevenue(daily []model.DailySalesRecord, cakes []model.CakeSaleRecord, orders []model.WholesaleOrderRecord, stores []model.Store) []CombinedDailyRecord {
	cakeRev := CakeRevenueByDayStore(cakes, stores)
	wsRev := WholesaleRevenueByDayStore(orders, stores)

	out := make([]CombinedDailyRecord, len(daily))
	for i, d := range daily {
		key := DayStoreKey{Day: vnfmt.DayKey(d.NgayThangNam), Store: d.TenCuaHang}
		rec := CombinedDailyRecord{
			DailySalesRecord: d,
			CakeRevenue:      cakeRev[key],
			WholesaleRevenue: wsRev[key],
		}
		rec.CombinedRevenue = d.DoanhThu + rec.CakeRevenue + rec.WholesaleRevenue
		rec.CombinedNet = d.DoanhThuConLai + rec.CakeRevenue + rec.WholesaleRevenue
		out[i] = rec
	}
	return out
}

// RevenueByStore gộp doanh thu còn lại theo tên cửa hàng, cộng cả phần
// bánh kem và bánh kem đặt (dataset biểu đồ tròn của dashboard).
func RevenueByStore(daily []model.DailySalesRecord, cakes []model.CakeSaleRecord, orders []model.WholesaleOrderRecord, stores []model.Store) map[string]float64 {
	byCode, byID := storeNames(stores)
	out := make(map[string]float64)
	for _, d := range daily {
		out[d.TenCuaHang] += d.DoanhThuConLai
	}
	for _, c := range cakes {
		name, ok := byCode[c.MaCH]
		if !ok {
			name = c.MaCH
		}
		out[name] += c.Revenue()
	}
	for _, w := range orders {
		name, ok := byID[w.IDCH]
		if !ok {
			name = strconv.Itoa(w.IDCH)
		}
		out[name] += w.Revenue()
	}
	return out
}
