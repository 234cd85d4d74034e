package model

// CakeSaleRecord là một lần bán bánh kem (điều chuyển từ xưởng về cửa
// hàng rồi bán). Doanh thu = SoLuong * DonGia; NgayThucHien là timestamp
// theo giờ nguồn, khi hiển thị lùi 7 tiếng.
type CakeSaleRecord struct {
	IDDieuChuyen int     `json:"IDDieuChuyen"`
	SaleOrder    string  `json:"Sale_Order"`
	MaSP         string  `json:"MaSP"`
	TenSP        string  `json:"TenSP"`
	SoLuong      float64 `json:"SoLuong"`
	DonGia       float64 `json:"DonGia"`
	NgayThucHien string  `json:"NgayThucHien"`
	NhanVien     string  `json:"NhanVien"`
	MaCH         string  `json:"MaCH"`
}

// Revenue là doanh thu của dòng, luôn tính từ số lượng và đơn giá.
func (c CakeSaleRecord) Revenue() float64 { return c.SoLuong * c.DonGia }

// WholesaleOrderRecord là một đơn bánh kem đặt (bán sỉ).
type WholesaleOrderRecord struct {
	MaPB         string  `json:"MaPB"`
	IDCH         int     `json:"IDCH"`
	MaSP         string  `json:"MaSP"`
	DonGia       float64 `json:"DonGia"`
	SoLuong      float64 `json:"SoLuong"`
	NgayDat      string  `json:"NgayDat"`
	NgayNhan     string  `json:"NgayNhan"`
	NguoiDat     string  `json:"NguoiDat"`
	NguoiXacNhan string  `json:"NguoiXacNhan"`
}

func (w WholesaleOrderRecord) Revenue() float64 { return w.SoLuong * w.DonGia }
