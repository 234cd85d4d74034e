package model

import "encoding/json"

// SummaryData là bốn dataset trả về chung từ một request /api/thong-ke.
type SummaryData struct {
	THDoanhSo   []DailySalesRecord   `json:"THDoanhSo"`
	THDoanhSoSP []ProductSalesRecord `json:"THDoanhSoSP"`
	THHoaDon    []InvoiceRecord      `json:"THHoaDon"`
	CTBanHang   []SaleLineItem       `json:"CTBanHang"`
}

// DailySalesRecord là doanh số một (cửa hàng, ngày).
type DailySalesRecord struct {
	NgayThangNam   string  `json:"NgayThangNam"`
	IDCH           int     `json:"IDCH"`
	TenCuaHang     string  `json:"TenCuaHang"`
	DoanhThu       float64 `json:"DoanhThu"`
	GiamGia        float64 `json:"GiamGia"`
	DoanhThuConLai float64 `json:"DoanhThuConLai"`
}

// ProductSalesRecord là doanh số gộp theo sản phẩm trong khoảng ngày.
type ProductSalesRecord struct {
	MaSP      string  `json:"MaSP"`
	MaNLSP    string  `json:"MaNLSP"`
	TenSP     string  `json:"TenSP"`
	SoLuong   float64 `json:"SoLuong"`
	GiaBan    float64 `json:"GiaBan"`
	ThanhTien float64 `json:"ThanhTien"`
}

// InvoiceRecord là một hóa đơn. Định danh hóa đơn và hình thức thanh toán
// có thể nằm ở nhiều field tùy nguồn, nên giữ đủ các alias.
type InvoiceRecord struct {
	IDPhieu  json.Number `json:"IDPhieu"`
	MaHD     string      `json:"MaHD"`
	SoHD     string      `json:"SoHD"`
	SoHoaDon string      `json:"SoHoaDon"`

	MaHTTT            string `json:"MaHTTT"`
	HinhThucThanhToan string `json:"HinhThucThanhToan"`
	PhuongThuc        string `json:"PhuongThuc"`

	DoanhThu        float64 `json:"DoanhThu"`
	ThanhTien       float64 `json:"ThanhTien"`
	TongTien        float64 `json:"TongTien"`
	GiamGia         float64 `json:"GiamGia"`
	TienThue        float64 `json:"TienThue"`
	ThanhTienConLai float64 `json:"ThanhTienConLai"`

	// Extra giữ các field upstream ngoài schema cố định, chỉ dùng cho
	// chế độ suy luận cột (degraded mode) khi xuất báo cáo.
	Extra map[string]json.RawMessage `json:"-"`
}

var invoiceKnownFields = []string{
	"IDPhieu", "MaHD", "SoHD", "SoHoaDon",
	"MaHTTT", "HinhThucThanhToan", "PhuongThuc",
	"DoanhThu", "ThanhTien", "TongTien", "GiamGia", "TienThue", "ThanhTienConLai",
}

func (r *InvoiceRecord) UnmarshalJSON(b []byte) error {
	type alias InvoiceRecord
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	a.Extra = extraFields(b, invoiceKnownFields)
	*r = InvoiceRecord(a)
	return nil
}

// SaleLineItem là một dòng bán hàng. ThanhTien từ nguồn không tin được,
// luôn tính lại SoLuong*GiaBan trước khi cộng dồn. GiamGia là phần trăm.
type SaleLineItem struct {
	MaHoaDon json.Number `json:"MaHoaDon"`
	IDPhieu  json.Number `json:"IDPhieu"`
	SoHD     string      `json:"SoHD"`
	SoHoaDon string      `json:"SoHoaDon"`

	MaSP      string  `json:"MaSP"`
	TenSP     string  `json:"TenSP"`
	SoLuong   float64 `json:"SoLuong"`
	GiaBan    float64 `json:"GiaBan"`
	ThanhTien float64 `json:"ThanhTien"`
	GiamGia   float64 `json:"GiamGia"`
	MaHTTT    string  `json:"MaHTTT"`

	Extra map[string]json.RawMessage `json:"-"`
}

var lineItemKnownFields = []string{
	"MaHoaDon", "IDPhieu", "SoHD", "SoHoaDon",
	"MaSP", "TenSP", "SoLuong", "GiaBan", "ThanhTien", "GiamGia", "MaHTTT",
}

func (r *SaleLineItem) UnmarshalJSON(b []byte) error {
	type alias SaleLineItem
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	a.Extra = extraFields(b, lineItemKnownFields)
	*r = SaleLineItem(a)
	return nil
}

func extraFields(b []byte, known []string) map[string]json.RawMessage {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}
