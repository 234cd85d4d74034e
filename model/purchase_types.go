package model

// PurchaseReceipt là một phiếu nhập hàng, kèm danh sách dòng nhập.
type PurchaseReceipt struct {
	SoPN     string         `json:"SoPN"`
	MaCH     string         `json:"MaCH"`
	NgayNhap string         `json:"NgayNhap"`
	Items    []PurchaseItem `json:"Items"`
}

// PurchaseItem là một dòng nhập trong phiếu. GiamPT là phần trăm giảm.
type PurchaseItem struct {
	MaSP      string  `json:"MaSP"`
	TenSP     string  `json:"TenSP"`
	SoLuong   float64 `json:"SoLuong"`
	GiaMua    float64 `json:"GiaMua"`
	GiamPT    float64 `json:"GiamPT"`
	ThanhTien float64 `json:"ThanhTien"`
}

// PurchaseGroup là phiếu nhập gộp theo (cửa hàng, ngày): các dòng trùng
// mã sản phẩm đã được cộng dồn số lượng và thành tiền.
type PurchaseGroup struct {
	MaCH     string
	NgayNhap string
	Items    []PurchaseItem
}
