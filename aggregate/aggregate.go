// Package aggregate gộp nhóm và tính tổng các dataset đã tải cho phần
// hiển thị và xuất báo cáo.
package aggregate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/vnfmt"
)

// GroupPurchases gộp phiếu nhập theo (cửa hàng, ngày nhập): dòng trùng
// mã sản phẩm trong cùng nhóm được cộng dồn số lượng và thành tiền.
// Nhóm sắp theo mã cửa hàng rồi theo ngày tăng dần; dòng trong nhóm sắp
// theo mã sản phẩm. Gộp hai lần cùng một tập phiếu cho ra kết quả y hệt.
func GroupPurchases(receipts []model.PurchaseReceipt) []model.PurchaseGroup {
	type groupKey struct {
		maCH string
		day  string
	}
	groups := make(map[groupKey]map[string]model.PurchaseItem)

	for _, phieu := range receipts {
		key := groupKey{maCH: phieu.MaCH, day: vnfmt.DayKey(phieu.NgayNhap)}
		items, ok := groups[key]
		if !ok {
			items = make(map[string]model.PurchaseItem)
			groups[key] = items
		}
		for _, item := range phieu.Items {
			if existing, ok := items[item.MaSP]; ok {
				existing.SoLuong += item.SoLuong
				existing.ThanhTien += item.ThanhTien
				items[item.MaSP] = existing
			} else {
				items[item.MaSP] = item
			}
		}
	}

	out := make([]model.PurchaseGroup, 0, len(groups))
	for key, items := range groups {
		group := model.PurchaseGroup{MaCH: key.maCH, NgayNhap: key.day}
		for _, item := range items {
			group.Items = append(group.Items, item)
		}
		sort.Slice(group.Items, func(i, j int) bool {
			return group.Items[i].MaSP < group.Items[j].MaSP
		})
		out = append(out, group)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MaCH != out[j].MaCH {
			return out[i].MaCH < out[j].MaCH
		}
		return out[i].NgayNhap < out[j].NgayNhap
	})
	return out
}

// PurchaseTotals là tổng số lượng và thành tiền trên mọi dòng nhập.
func PurchaseTotals(receipts []model.PurchaseReceipt) (qty, amount float64) {
	for _, phieu := range receipts {
		for _, item := range phieu.Items {
			qty += item.SoLuong
			amount += item.ThanhTien
		}
	}
	return qty, amount
}

// ShiftDayTotals là tổng một ngày kết ca, đã gộp doanh số bánh kem.
type ShiftDayTotals struct {
	Ngay     string
	Shifts   int
	Gross    float64
	Discount float64
	Net      float64
}

// ShiftGrandTotals là tổng kết ca toàn kỳ.
type ShiftGrandTotals struct {
	Shifts   int
	Gross    float64
	Discount float64
	Net      float64
}

// ShiftTotals tính tổng ngày và tổng kỳ: tổng tiền và tiền sau giảm đều
// cộng doanh số bánh kem của từng ca, giảm giá thì không.
func ShiftTotals(days []model.ShiftDay) ([]ShiftDayTotals, ShiftGrandTotals) {
	perDay := make([]ShiftDayTotals, 0, len(days))
	var grand ShiftGrandTotals
	for _, day := range days {
		t := ShiftDayTotals{Ngay: day.Ngay, Shifts: len(day.Ca)}
		for _, ca := range day.Ca {
			t.Gross += ca.CombinedGross()
			t.Discount += ca.GiamGia
			t.Net += ca.CombinedNet()
		}
		perDay = append(perDay, t)
		grand.Shifts += t.Shifts
		grand.Gross += t.Gross
		grand.Discount += t.Discount
		grand.Net += t.Net
	}
	return perDay, grand
}

// StocktakeEntry là một phiếu kiểm kê kèm chi tiết và số tổng hợp.
// Phiếu lỗi khi tải chi tiết có Details rỗng và các tổng bằng 0.
type StocktakeEntry struct {
	Header      model.StocktakeHeader
	Details     []model.StocktakeDetail
	Items       int
	AbsVariance float64
	AbsValue    float64
}

// StocktakeGrandTotals là tổng toàn kỳ trên mọi phiếu xử lý được.
type StocktakeGrandTotals struct {
	Items       int
	AbsVariance float64
	AbsValue    float64
}

// DetailFetchFunc tải chi tiết của một phiếu kiểm kê.
type DetailFetchFunc func(ctx context.Context, headerID int) ([]model.StocktakeDetail, error)

// SummarizeStocktakes xử lý từng phiếu theo thứ tự ngày tăng dần. Lỗi
// tải chi tiết của một phiếu không chặn các phiếu sau: phiếu đó góp 0
// vào tổng và vẫn có dòng tổng hợp.
func SummarizeStocktakes(ctx context.Context, headers []model.StocktakeHeader, fetch DetailFetchFunc, logger *zap.Logger) ([]StocktakeEntry, StocktakeGrandTotals) {
	sorted := make([]model.StocktakeHeader, len(headers))
	copy(sorted, headers)
	sort.Slice(sorted, func(i, j int) bool {
		return vnfmt.DayKey(sorted[i].NgayKiemKe) < vnfmt.DayKey(sorted[j].NgayKiemKe)
	})

	entries := make([]StocktakeEntry, 0, len(sorted))
	var grand StocktakeGrandTotals
	for _, header := range sorted {
		entry := StocktakeEntry{Header: header}
		details, err := fetch(ctx, header.IDPhieu)
		if err != nil {
			logger.Warn("stocktake detail fetch failed",
				zap.Int("IDPhieu", header.IDPhieu), zap.Error(err))
			entries = append(entries, entry)
			continue
		}
		entry.Details = details
		entry.Items = len(details)
		for _, d := range details {
			entry.AbsVariance += math.Abs(d.Variance())
			entry.AbsValue += math.Abs(d.VarianceValue())
		}
		grand.Items += entry.Items
		grand.AbsVariance += entry.AbsVariance
		grand.AbsValue += entry.AbsValue
		entries = append(entries, entry)
	}
	return entries, grand
}

// FilterStocktakesByRange lọc phiếu kiểm kê theo khoảng ngày của bộ lọc
// (endpoint upstream không nhận bộ lọc).
func FilterStocktakesByRange(headers []model.StocktakeHeader, f model.Filter) []model.StocktakeHeader {
	from, errFrom := time.Parse("2006-01-02", f.TuNgay)
	to, errTo := time.Parse("2006-01-02", f.DenNgay)
	if errFrom != nil || errTo != nil {
		return headers
	}
	to = to.Add(24*time.Hour - time.Second)

	out := make([]model.StocktakeHeader, 0, len(headers))
	for _, h := range headers {
		day, err := time.Parse("2006-01-02", vnfmt.DayKey(h.NgayKiemKe))
		if err != nil {
			continue
		}
		if !day.Before(from) && !day.After(to) {
			out = append(out, h)
		}
	}
	return out
}

// InventoryTotals là tổng từng cột số của phiếu tồn kho. Đơn giá không
// bao giờ cộng dồn, chỉ suy ra theo dòng.
type InventoryTotals struct {
	OpeningQty    float64
	OpeningValue  float64
	InQty         float64
	InValue       float64
	DispatchQty   float64
	DispatchValue float64
	TransferQty   float64
	TransferValue float64
	SaleOutQty    float64
	SaleOutValue  float64
	DisposalQty   float64
	DisposalValue float64
	ClosingQty    float64
	ClosingValue  float64
}

// SumInventory cộng dồn các cột số trên mọi dòng tồn kho.
func SumInventory(lines []model.InventoryLine) InventoryTotals {
	var t InventoryTotals
	for _, l := range lines {
		t.OpeningQty += l.OpeningQty()
		t.OpeningValue += l.OpeningValue()
		t.InQty += l.TongNhap
		t.InValue += l.GiaTriNhap
		t.DispatchQty += l.SoLuongDieuPhoi
		t.DispatchValue += l.GiaTriDieuPhoi
		t.TransferQty += l.NhapDieuChuyen
		t.TransferValue += l.GiaTriNhapDieuChuyen
		t.SaleOutQty += l.TongXuat
		t.SaleOutValue += l.GiaTriXuat
		t.DisposalQty += l.TongHuy
		t.DisposalValue += l.GiaTriHuy
		t.ClosingQty += l.TonCK
		t.ClosingValue += l.GiaTriCK
	}
	return t
}

// SortCakeSalesDesc sắp chi tiết bánh kem theo thời gian thực hiện giảm
// dần cho hiển thị và xuất.
func SortCakeSalesDesc(cakes []model.CakeSaleRecord) []model.CakeSaleRecord {
	out := make([]model.CakeSaleRecord, len(cakes))
	copy(out, cakes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NgayThucHien > out[j].NgayThucHien
	})
	return out
}

// SortWholesaleDesc sắp bánh kem đặt theo ngày đặt giảm dần.
func SortWholesaleDesc(orders []model.WholesaleOrderRecord) []model.WholesaleOrderRecord {
	out := make([]model.WholesaleOrderRecord, len(orders))
	copy(out, orders)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NgayDat > out[j].NgayDat
	})
	return out
}

// SummaryStats là khối số liệu tổng quan của dashboard.
type SummaryStats struct {
	TotalRevenue          float64 `json:"totalRevenue"`
	TotalCakeRevenue      float64 `json:"totalCakeRevenue"`
	TotalWholesaleRevenue float64 `json:"totalWholesaleRevenue"`
	TotalCombinedRevenue  float64 `json:"totalCombinedRevenue"`
	TotalCombinedNet      float64 `json:"totalCombinedNet"`
	TotalDiscount         float64 `json:"totalDiscount"`
	TotalOrders           int     `json:"totalOrders"`
	TotalProducts         float64 `json:"totalProducts"`
	TotalCakeProducts     float64 `json:"totalCakeProducts"`
	TotalWholesaleItems   float64 `json:"totalWholesaleItems"`
	TotalShifts           int     `json:"totalShifts"`
	TotalShiftRevenue     float64 `json:"totalShiftRevenue"`
	InventoryClosingQty   float64 `json:"inventoryClosingQty"`
	InventoryClosingValue float64 `json:"inventoryClosingValue"`

	RevenueDisplay     string `json:"revenueDisplay"`
	CombinedDisplay    string `json:"combinedDisplay"`
	CombinedNetDisplay string `json:"combinedNetDisplay"`
	DiscountDisplay    string `json:"discountDisplay"`

	RevenueByStore map[string]float64 `json:"revenueByStore"`
}

// BuildSummaryStats tính các thẻ tổng quan. Doanh thu tổng hợp cộng đủ
// cả bánh kem lẫn bánh kem đặt vào doanh thu và doanh thu còn lại.
func BuildSummaryStats(summary model.SummaryData, cakes []model.CakeSaleRecord, orders []model.WholesaleOrderRecord, shifts []model.ShiftDay, inventory []model.InventoryLine, revenueByStore map[string]float64) SummaryStats {
	var s SummaryStats

	var netRevenue float64
	for _, d := range summary.THDoanhSo {
		s.TotalRevenue += d.DoanhThu
		s.TotalDiscount += d.GiamGia
		netRevenue += d.DoanhThuConLai
	}
	for _, c := range cakes {
		s.TotalCakeRevenue += c.Revenue()
		s.TotalCakeProducts += c.SoLuong
	}
	for _, w := range orders {
		s.TotalWholesaleRevenue += w.Revenue()
		s.TotalWholesaleItems += w.SoLuong
	}
	s.TotalCombinedRevenue = s.TotalRevenue + s.TotalCakeRevenue + s.TotalWholesaleRevenue
	s.TotalCombinedNet = netRevenue + s.TotalCakeRevenue + s.TotalWholesaleRevenue

	s.TotalOrders = len(summary.THHoaDon)
	for _, p := range summary.THDoanhSoSP {
		s.TotalProducts += p.SoLuong
	}
	for _, day := range shifts {
		s.TotalShifts += len(day.Ca)
		for _, ca := range day.Ca {
			s.TotalShiftRevenue += ca.CombinedNet()
		}
	}
	for _, l := range inventory {
		s.InventoryClosingQty += l.TonCK
		s.InventoryClosingValue += l.GiaTriCK
	}

	s.RevenueDisplay = vnfmt.Currency(s.TotalRevenue)
	s.CombinedDisplay = vnfmt.Currency(s.TotalCombinedRevenue)
	s.CombinedNetDisplay = vnfmt.Currency(s.TotalCombinedNet)
	s.DiscountDisplay = vnfmt.Currency(s.TotalDiscount)
	s.RevenueByStore = revenueByStore

	return s
}

// GroupLabel là nhãn nhóm phiếu nhập trên báo cáo.
func GroupLabel(g model.PurchaseGroup) (string, string) {
	return fmt.Sprintf("Ngày: %s", vnfmt.Date(g.NgayNhap)),
		fmt.Sprintf("Cửa hàng: %s", g.MaCH)
}
