package model

// ShiftDay là các ca kết trong một ngày.
type ShiftDay struct {
	Ngay string        `json:"Ngay"`
	Ca   []ShiftRecord `json:"Ca"`
}

// ShiftRecord là một ca kết. DSBanhKem là doanh số bánh kem phát sinh
// trong ca, cộng thêm vào cả tổng tiền lẫn tiền sau giảm giá khi hiển thị.
type ShiftRecord struct {
	CaID           int     `json:"CaID"`
	TenNhanVien    string  `json:"TenNhanVien"`
	ThoiGianKetCa  string  `json:"ThoiGianKetCa"`
	TongTien       float64 `json:"TongTien"`
	GiamGia        float64 `json:"GiamGia"`
	TienSauGiamGia float64 `json:"TienSauGiamGia"`
	DSBanhKem      float64 `json:"DSBanhKem"`
}

// CombinedGross là tổng tiền ca đã gộp doanh số bánh kem.
func (s ShiftRecord) CombinedGross() float64 { return s.TongTien + s.DSBanhKem }

// CombinedNet là tiền sau giảm giá đã gộp doanh số bánh kem.
func (s ShiftRecord) CombinedNet() float64 { return s.TienSauGiamGia + s.DSBanhKem }
