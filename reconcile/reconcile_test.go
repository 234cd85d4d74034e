package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quochoa304/codex-AI/model"
)

var testStores = []model.Store{
	{IDCH: 1, MaCuaHang: "CH001", TenCuaHang: "Cửa hàng A"},
	{IDCH: 2, MaCuaHang: "CH002", TenCuaHang: "Cửa hàng B"},
}

func TestCombineDailyRevenue(t *testing.T) {
	daily := []model.DailySalesRecord{
		{NgayThangNam: "2025-03-01", IDCH: 1, TenCuaHang: "Cửa hàng A",
			DoanhThu: 1_000_000, GiamGia: 50_000, DoanhThuConLai: 950_000},
	}
	cakes := []model.CakeSaleRecord{
		{MaCH: "CH001", NgayThucHien: "2025-03-01T10:00:00", SoLuong: 1, DonGia: 150_000},
	}
	orders := []model.WholesaleOrderRecord{
		{IDCH: 1, NgayDat: "2025-03-01T09:00:00", SoLuong: 1, DonGia: 150_000},
	}

	combined := CombineDailyRevenue(daily, cakes, orders, testStores)
	require.Len(t, combined, 1)
	rec := combined[0]
	assert.Equal(t, 150_000.0, rec.CakeRevenue)
	assert.Equal(t, 150_000.0, rec.WholesaleRevenue)
	assert.Equal(t, 1_300_000.0, rec.CombinedRevenue)
	assert.Equal(t, 1_250_000.0, rec.CombinedNet)
}

func TestCombineDailyRevenueMatchesOnDayAndStoreName(t *testing.T) {
	daily := []model.DailySalesRecord{
		{NgayThangNam: "2025-03-01", TenCuaHang: "Cửa hàng A", DoanhThu: 100, DoanhThuConLai: 100},
	}
	// Cùng ngày nhưng cửa hàng khác, và cùng cửa hàng nhưng hôm sau:
	// không được cộng vào.
	cakes := []model.CakeSaleRecord{
		{MaCH: "CH002", NgayThucHien: "2025-03-01T08:00:00", SoLuong: 1, DonGia: 999},
		{MaCH: "CH001", NgayThucHien: "2025-03-02T08:00:00", SoLuong: 1, DonGia: 999},
	}

	combined := CombineDailyRevenue(daily, cakes, nil, testStores)
	require.Len(t, combined, 1)
	assert.Equal(t, 0.0, combined[0].CakeRevenue)
	assert.Equal(t, 100.0, combined[0].CombinedRevenue)
}

func TestCakeRevenueByDayStoreKeepsRawCodeForUnknownStore(t *testing.T) {
	cakes := []model.CakeSaleRecord{
		{MaCH: "CH999", NgayThucHien: "2025-03-01T08:00:00", SoLuong: 2, DonGia: 100},
	}
	rev := CakeRevenueByDayStore(cakes, testStores)
	assert.Equal(t, 200.0, rev[DayStoreKey{Day: "2025-03-01", Store: "CH999"}])
}

func TestCorrectLineItemsRecomputesLineTotal(t *testing.T) {
	items := []model.SaleLineItem{
		{MaSP: "P1", SoLuong: 3, GiaBan: 20_000, ThanhTien: 999},
		// Thiếu đơn giá thì giữ nguyên thành tiền nguồn.
		{MaSP: "P2", SoLuong: 2, GiaBan: 0, ThanhTien: 777},
	}
	out := CorrectLineItems(items, nil)
	require.Len(t, out, 2)
	assert.Equal(t, 60_000.0, out[0].ThanhTien)
	assert.Equal(t, 777.0, out[1].ThanhTien)
	// Bản gốc không bị sửa.
	assert.Equal(t, 999.0, items[0].ThanhTien)
}

func TestResolvePaymentFollowsKeyPriority(t *testing.T) {
	invoices := []model.InvoiceRecord{
		{IDPhieu: json.Number("100"), MaHTTT: "TM"},
		{SoHD: "HD-7", HinhThucThanhToan: "CK"},
		{SoHoaDon: "SO-9", PhuongThuc: "MOMO"},
	}
	idx := BuildInvoicePaymentIndex(invoices)

	tests := []struct {
		name string
		item model.SaleLineItem
		want string
		ok   bool
	}{
		{
			name: "MaHoaDon thắng dù SoHD cũng khớp",
			item: model.SaleLineItem{MaHoaDon: json.Number("100"), SoHD: "HD-7"},
			want: "TM", ok: true,
		},
		{
			name: "rơi xuống SoHD",
			item: model.SaleLineItem{SoHD: "HD-7"},
			want: "CK", ok: true,
		},
		{
			name: "rơi xuống SoHoaDon, lấy PhuongThuc",
			item: model.SaleLineItem{SoHoaDon: "SO-9"},
			want: "MOMO", ok: true,
		},
		{
			name: "không khớp",
			item: model.SaleLineItem{SoHD: "HD-404"},
			want: "", ok: false,
		},
		{
			name: "id bằng 0 không dùng làm khóa",
			item: model.SaleLineItem{MaHoaDon: json.Number("0")},
			want: "", ok: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolvePayment(idx, tt.item)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorrectLineItemsBackfillsPayment(t *testing.T) {
	invoices := []model.InvoiceRecord{{SoHD: "HD-1", MaHTTT: "TM"}}
	items := []model.SaleLineItem{
		{SoHD: "HD-1", SoLuong: 1, GiaBan: 100},
		{SoHD: "HD-1", SoLuong: 1, GiaBan: 100, MaHTTT: "CK"},
	}
	out := CorrectLineItems(items, invoices)
	assert.Equal(t, "TM", out[0].MaHTTT)
	// Đã có hình thức thanh toán thì không ghi đè.
	assert.Equal(t, "CK", out[1].MaHTTT)
}

func TestDiscountAmount(t *testing.T) {
	items := []model.SaleLineItem{
		{GiamGia: 10, ThanhTien: 60_000},
		{GiamGia: 0, ThanhTien: 40_000},
		{GiamGia: 50, ThanhTien: 0},
	}
	assert.Equal(t, 6_000.0, DiscountAmount(items))
}

func TestRevenueByStore(t *testing.T) {
	daily := []model.DailySalesRecord{
		{TenCuaHang: "Cửa hàng A", DoanhThuConLai: 500},
		{TenCuaHang: "Cửa hàng B", DoanhThuConLai: 300},
	}
	cakes := []model.CakeSaleRecord{{MaCH: "CH001", SoLuong: 1, DonGia: 100}}
	orders := []model.WholesaleOrderRecord{
		{IDCH: 2, SoLuong: 1, DonGia: 50},
		// Cửa hàng ngoài danh mục giữ id thô làm tên.
		{IDCH: 99, SoLuong: 1, DonGia: 70},
	}

	rev := RevenueByStore(daily, cakes, orders, testStores)
	assert.Equal(t, 600.0, rev["Cửa hàng A"])
	assert.Equal(t, 350.0, rev["Cửa hàng B"])
	assert.Equal(t, 70.0, rev["99"])
}
