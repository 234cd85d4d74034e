package model

// InventoryLine là một dòng trong phiếu tổng hợp tồn kho. Tồn/giá trị
// đầu kỳ có hai tên field tùy phiên bản upstream (TonDK/TonDauKy), dùng
// OpeningQty/OpeningValue để đọc.
type InventoryLine struct {
	STT   int    `json:"STT"`
	MaNL  string `json:"MaNL"`
	TenSP string `json:"Ten_SP"`
	DVT   string `json:"DVT_SP"`

	TonDK       float64 `json:"TonDK"`
	TonDauKy    float64 `json:"TonDauKy"`
	GiaTriDK    float64 `json:"GiaTriDK"`
	GiaTriDauKy float64 `json:"GiaTriDauKy"`

	TongNhap   float64 `json:"TongNhap"`
	GiaTriNhap float64 `json:"GiaTriNhap"`

	SoLuongDieuPhoi      float64 `json:"SoLuongDieuPhoi"`
	GiaTriDieuPhoi       float64 `json:"GiaTriDieuPhoi"`
	NhapDieuChuyen       float64 `json:"NhapDieuChuyen"`
	GiaTriNhapDieuChuyen float64 `json:"GiaTriNhapDieuChuyen"`

	TongXuat   float64 `json:"TongXuat"`
	GiaTriXuat float64 `json:"GiaTriXuat"`
	TongHuy    float64 `json:"TongHuy"`
	GiaTriHuy  float64 `json:"GiaTriHuy"`

	TonCK    float64 `json:"TonCK"`
	GiaTriCK float64 `json:"GiaTriCK"`
}

// OpeningQty là tồn đầu kỳ, ưu tiên TonDK rồi tới TonDauKy.
func (l InventoryLine) OpeningQty() float64 {
	if l.TonDK != 0 {
		return l.TonDK
	}
	return l.TonDauKy
}

// OpeningValue là giá trị đầu kỳ, ưu tiên GiaTriDK rồi tới GiaTriDauKy.
func (l InventoryLine) OpeningValue() float64 {
	if l.GiaTriDK != 0 {
		return l.GiaTriDK
	}
	return l.GiaTriDauKy
}

// UnitPrice là đơn giá suy ra cho dòng tồn kho: giá trị cuối kỳ / tồn
// cuối kỳ, không có thì giá trị nhập / tổng nhập, không có nữa thì 0.
func (l InventoryLine) UnitPrice() float64 {
	if l.TonCK > 0 {
		return l.GiaTriCK / l.TonCK
	}
	if l.TongNhap > 0 {
		return l.GiaTriNhap / l.TongNhap
	}
	return 0
}

// StocktakeHeader là một phiếu kiểm kê.
type StocktakeHeader struct {
	IDPhieu    int    `json:"IDPhieu"`
	NgayKiemKe string `json:"NgayKiemKe"`
	TenUser    string `json:"TenUser"`
	GhiChu     string `json:"GhiChu"`
}

// StocktakeDetail là một dòng kiểm kê của phiếu.
type StocktakeDetail struct {
	MaSP      string  `json:"MaSP"`
	TenSP     string  `json:"TenSP"`
	DonViTinh string  `json:"DonViTinh"`
	DonGia    float64 `json:"DonGia"`
	TonSoSach float64 `json:"TonSoSach"`
	TonThucTe float64 `json:"TonThucTe"`
}

// Variance là chênh lệch số lượng: thực tế - sổ sách.
func (d StocktakeDetail) Variance() float64 { return d.TonThucTe - d.TonSoSach }

// VarianceValue là thành tiền chênh lệch.
func (d StocktakeDetail) VarianceValue() float64 { return d.Variance() * d.DonGia }
