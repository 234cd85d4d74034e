package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/posapi"
)

// fakePOS dựng server POS giả với dữ liệu cố định cho mọi domain.
type fakePOS struct {
	mux           *http.ServeMux
	inventoryHits atomic.Int64
	failSummary   bool
}

func newFakePOS() *fakePOS {
	p := &fakePOS{mux: http.NewServeMux()}

	p.mux.HandleFunc("/api/thong-ke", func(w http.ResponseWriter, r *http.Request) {
		if p.failSummary {
			http.Error(w, "bốc cháy", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"THDoanhSo":[{"NgayThangNam":"2025-03-01","TenCuaHang":"Cửa hàng A","DoanhThu":1000,"DoanhThuConLai":900}]}`))
	})
	p.mux.HandleFunc("/api/sale-nhap-hang-by-ch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"SoPN":"1","MaCH":"CH001","NgayNhap":"2025-03-01","Items":[{"MaSP":"P1","SoLuong":2,"ThanhTien":200}]}]`))
	})
	p.mux.HandleFunc("/api/sale-ket-ca", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Ngay":"2025-03-01","Ca":[{"CaID":1,"TongTien":100,"TienSauGiamGia":90}]}]`))
	})
	p.mux.HandleFunc("/api/doansobanhkem", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"IDDieuChuyen":1,"MaCH":"CH001","SoLuong":1,"DonGia":100,"NgayThucHien":"2025-03-01T10:00:00"}]}`))
	})
	p.mux.HandleFunc("/api/cake-wholesale-summary-detail", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"MaPB":"PB1","IDCH":1,"SoLuong":1,"DonGia":50,"NgayDat":"2025-03-01T08:00:00"}]`))
	})
	p.mux.HandleFunc("/api/phieu-kiem-ke", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"IDPhieu":1,"NgayKiemKe":"2025-03-02"},
			{"IDPhieu":2,"NgayKiemKe":"2024-01-01"}
		]`))
	})
	p.mux.HandleFunc("/api/khohang", func(w http.ResponseWriter, r *http.Request) {
		p.inventoryHits.Add(1)
		w.Write([]byte(`{"success":true,"data":[{"MaNL":"NL1","TonCK":5,"GiaTriCK":500}]}`))
	})
	return p
}

func newTestSession(t *testing.T, pos *fakePOS) *Session {
	t.Helper()
	server := httptest.NewServer(pos.mux)
	t.Cleanup(server.Close)
	api := posapi.NewClient(server.URL, 5*time.Second, zap.NewNop())
	return New(api, zap.NewNop())
}

func testFilter() model.Filter {
	return model.Filter{TuNgay: "2025-03-01", DenNgay: "2025-03-15", DsMaCH: []int{1, 2}}
}

func TestRefreshRequiresStoreSelection(t *testing.T) {
	sess := newTestSession(t, newFakePOS())
	sess.SetFilter(model.Filter{TuNgay: "2025-03-01", DenNgay: "2025-03-15"})
	err := sess.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoStoreSelected)
}

func TestRefreshLoadsAllDomains(t *testing.T) {
	sess := newTestSession(t, newFakePOS())
	sess.SetFilter(testFilter())
	require.NoError(t, sess.Refresh(context.Background()))

	snap := sess.Snapshot()
	require.Len(t, snap.Summary.THDoanhSo, 1)
	assert.Equal(t, "Cửa hàng A", snap.Summary.THDoanhSo[0].TenCuaHang)
	require.Len(t, snap.Purchases, 1)
	require.Len(t, snap.Shifts, 1)
	// Fan-out theo cửa hàng: hai cửa hàng, mỗi cửa hàng một dòng.
	assert.Len(t, snap.CakeSales, 2)
	assert.Len(t, snap.Wholesale, 2)
	// Phiếu ngoài khoảng ngày bị loại ngay khi tải.
	require.Len(t, snap.Stocktakes, 1)
	assert.Equal(t, 1, snap.Stocktakes[0].IDPhieu)
	// Tồn kho không nằm trong chu kỳ mặc định.
	assert.Empty(t, snap.Inventory)

	assert.False(t, sess.AnyLoading())
	for _, d := range Domains {
		assert.False(t, sess.DomainLoading(d), string(d))
	}
}

func TestRefreshDegradesFailedDomainToEmpty(t *testing.T) {
	pos := newFakePOS()
	pos.failSummary = true
	sess := newTestSession(t, pos)
	sess.SetFilter(testFilter())
	require.NoError(t, sess.Refresh(context.Background()))

	snap := sess.Snapshot()
	assert.Empty(t, snap.Summary.THDoanhSo)
	// Domain khác không bị ảnh hưởng.
	assert.Len(t, snap.Purchases, 1)
	assert.Len(t, snap.Shifts, 1)
}

func TestEnsureInventorySingleFlight(t *testing.T) {
	pos := newFakePOS()
	sess := newTestSession(t, pos)
	sess.SetFilter(testFilter())
	require.NoError(t, sess.Refresh(context.Background()))

	lines, err := sess.EnsureInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, sess.InventoryLoaded())

	// Lần hai dùng cache, không gọi upstream nữa.
	_, err = sess.EnsureInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pos.inventoryHits.Load())

	// Refresh xóa cache: lần sau tải lại.
	require.NoError(t, sess.Refresh(context.Background()))
	assert.False(t, sess.InventoryLoaded())
	_, err = sess.EnsureInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos.inventoryHits.Load())
}

func TestEnsureInventoryRequiresStore(t *testing.T) {
	sess := newTestSession(t, newFakePOS())
	sess.SetFilter(model.Filter{TuNgay: "2025-03-01", DenNgay: "2025-03-02"})
	_, err := sess.EnsureInventory(context.Background())
	assert.ErrorIs(t, err, ErrNoStoreSelected)
}
