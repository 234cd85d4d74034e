package posapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, zap.NewNop())
}

func TestPurchaseReceiptsSortedByReceiptNumber(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sale-nhap-hang-by-ch", r.URL.Path)
		assert.Equal(t, "1,2", r.URL.Query().Get("MaCHs"))
		w.Write([]byte(`[
			{"SoPN":"10","MaCH":"CH001","NgayNhap":"2025-03-02","Items":[]},
			{"SoPN":"2","MaCH":"CH001","NgayNhap":"2025-03-01","Items":[]},
			{"SoPN":"abc","MaCH":"CH001","NgayNhap":"2025-03-03","Items":[]}
		]`))
	}))

	f := model.Filter{TuNgay: "2025-03-01", DenNgay: "2025-03-05", DsMaCH: []int{1, 2}}
	receipts, err := client.PurchaseReceipts(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, receipts, 3)
	// SoPN không phải số xếp trước (coi như 0), còn lại tăng dần theo số.
	assert.Equal(t, "abc", receipts[0].SoPN)
	assert.Equal(t, "2", receipts[1].SoPN)
	assert.Equal(t, "10", receipts[2].SoPN)
}

func TestCakeSalesEnvelope(t *testing.T) {
	t.Run("success=true trả data", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/doansobanhkem", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			w.Write([]byte(`{"success":true,"data":[{"IDDieuChuyen":7,"SoLuong":2,"DonGia":100}]}`))
		}))
		cakes, err := client.CakeSales(context.Background(), 1, model.Filter{TuNgay: "2025-03-01", DenNgay: "2025-03-02"})
		require.NoError(t, err)
		require.Len(t, cakes, 1)
		assert.Equal(t, 7, cakes[0].IDDieuChuyen)
	})

	t.Run("success=false là dataset rỗng, không phải lỗi", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"data":null}`))
		}))
		cakes, err := client.CakeSales(context.Background(), 1, model.Filter{})
		require.NoError(t, err)
		assert.Empty(t, cakes)
	})
}

func TestInventoryEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/khohang", r.URL.Path)
		assert.Equal(t, "9", r.URL.Query().Get("MaCH"))
		w.Write([]byte(`{"success":true,"data":[{"MaNL":"NL1","TonCK":5,"GiaTriCK":500}]}`))
	}))
	lines, err := client.Inventory(context.Background(), 9, model.Filter{TuNgay: "2025-03-01", DenNgay: "2025-03-02"})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "NL1", lines[0].MaNL)
	assert.Equal(t, 100.0, lines[0].UnitPrice())
}

func TestAPIErrorOnHTTPFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bốc cháy", http.StatusInternalServerError)
	}))
	_, err := client.StocktakeHeaders(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "bốc cháy")
}

func TestStocktakeDetailsPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chi-tiet-phieu-kiem-ke/42", r.URL.Path)
		w.Write([]byte(`[{"MaSP":"P1","TonSoSach":3,"TonThucTe":5}]`))
	}))
	details, err := client.StocktakeDetails(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, 2.0, details[0].Variance())
}

func TestSummaryPostsFilter(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/thong-ke", r.URL.Path)
		w.Write([]byte(`{"THDoanhSo":[{"TenCuaHang":"Cửa hàng A","DoanhThu":100}]}`))
	}))
	result, err := client.Summary(context.Background(), model.Filter{DsMaCH: []int{1}})
	require.NoError(t, err)
	require.Len(t, result.THDoanhSo, 1)
	assert.Equal(t, "Cửa hàng A", result.THDoanhSo[0].TenCuaHang)
}
