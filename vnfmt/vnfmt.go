// Package vnfmt định dạng ngày và số theo kiểu hiển thị vi-VN
// dùng chung cho báo cáo và phần tổng quan.
package vnfmt

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CakeTimeOffset: timestamp bánh kem từ nguồn lệch múi giờ cố định,
// hiển thị phải lùi 7 tiếng.
const CakeTimeOffset = -7 * time.Hour

var printer = message.NewPrinter(language.Vietnamese)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func parse(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date đưa chuỗi ngày của upstream về dd/MM/yyyy. Không parse được thì
// trả nguyên chuỗi gốc.
func Date(s string) string {
	t, ok := parse(s)
	if !ok {
		return s
	}
	return t.Format("02/01/2006")
}

// DateTime đưa timestamp về dd/MM/yyyy HH:mm.
func DateTime(s string) string {
	t, ok := parse(s)
	if !ok {
		return s
	}
	return t.Format("02/01/2006 15:04")
}

// CakeTime hiển thị timestamp bánh kem sau khi lùi 7 tiếng.
func CakeTime(s string) string {
	t, ok := parse(s)
	if !ok {
		return s
	}
	return t.Add(CakeTimeOffset).Format("02/01/2006 15:04")
}

// DayKey lấy phần ngày (yyyy-MM-dd) để so khớp theo ngày lịch.
// Khớp doanh thu dùng timestamp gốc, không áp dụng lùi giờ hiển thị.
func DayKey(s string) string {
	t, ok := parse(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02")
}

// Number in số với dấu phân tách hàng nghìn theo locale vi.
func Number(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// Currency in số tiền VND đã định dạng.
func Currency(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0))) + " ₫"
}
