package model

import "encoding/json"

// Store là một cửa hàng trong danh mục chuỗi.
type Store struct {
	IDCH       int    `json:"IDCH"`
	MaCuaHang  string `json:"MaCuaHang"`
	TenCuaHang string `json:"TenCuaHang"`
	// LoaiCH về nguyên tắc là số, nhưng upstream có lúc trả chuỗi ("3").
	LoaiCH   json.Number `json:"LoaiCH"`
	LaBakery bool        `json:"LaBakery"`
}

// Filter là bộ lọc chung cho một chu kỳ tải dữ liệu: khoảng ngày
// (bao gồm cả hai đầu, định dạng yyyy-MM-dd) và danh sách cửa hàng.
type Filter struct {
	TuNgay  string `json:"tuNgay"`
	DenNgay string `json:"denNgay"`
	DsMaCH  []int  `json:"dsMaCH"`
}
