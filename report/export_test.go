package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/posapi"
	"github.com/quochoa304/codex-AI/session"
)

// newExportFixture dựng session trên một server POS giả trả dữ liệu rỗng
// hợp lệ, trừ các path được handler riêng ghi đè.
func newExportFixture(t *testing.T, overrides map[string]http.HandlerFunc) (*Exporter, *session.Session, string) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	for path, h := range overrides {
		mux.HandleFunc(path, h)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	api := posapi.NewClient(server.URL, 5*time.Second, zap.NewNop())
	sess := session.New(api, zap.NewNop())
	sess.SetFilter(model.Filter{TuNgay: "2025-03-01", DenNgay: "2025-03-15", DsMaCH: []int{1}})

	dir := t.TempDir()
	exporter := NewExporter(sess, api.StocktakeDetails, dir, zap.NewNop())
	return exporter, sess, dir
}

func TestParseReportType(t *testing.T) {
	rt, err := ParseReportType("doanhSo")
	require.NoError(t, err)
	assert.Equal(t, ReportDoanhSo, rt)

	_, err = ParseReportType("doanhThuTuanTrang")
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestNormalizeOrdersAndDeduplicates(t *testing.T) {
	list, err := normalize([]ReportType{ReportKetCa, ReportDoanhSo, ReportKetCa})
	require.NoError(t, err)
	assert.Equal(t, []ReportType{ReportDoanhSo, ReportKetCa}, list)

	_, err = normalize(nil)
	assert.ErrorIs(t, err, ErrNothingSelected)

	_, err = normalize([]ReportType{"bậyBạ"})
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestFileName(t *testing.T) {
	f := model.Filter{TuNgay: "2025-03-01", DenNgay: "2025-03-15"}
	assert.Equal(t, "DoanhSo_2025-03-01_2025-03-15.xlsx", FileName("DoanhSo", f))
}

func TestExportSelectedWritesFiles(t *testing.T) {
	exporter, _, dir := newExportFixture(t, nil)

	result, err := exporter.ExportSelected(context.Background(), []ReportType{ReportDoanhSo, ReportKetCa})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	require.Equal(t, []string{
		"DoanhSo_2025-03-01_2025-03-15.xlsx",
		"BaoCaoKetCa_2025-03-01_2025-03-15.xlsx",
	}, result.Files)

	for _, name := range result.Files {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestExportTonKhoLazyLoadsInventory(t *testing.T) {
	var hits atomic.Int64
	exporter, sess, dir := newExportFixture(t, map[string]http.HandlerFunc{
		"/api/khohang": func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Write([]byte(`{"success":true,"data":[{"MaNL":"NL1","TonCK":5,"GiaTriCK":500}]}`))
		},
	})

	result, err := exporter.ExportSelected(context.Background(), []ReportType{ReportTonKho})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, int64(1), hits.Load())
	assert.True(t, sess.InventoryLoaded())

	// Lượt xuất sau dùng lại cache của chu kỳ lọc.
	_, err = exporter.ExportSelected(context.Background(), []ReportType{ReportTonKho})
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load())

	_, err = os.Stat(filepath.Join(dir, "PhieuTonKho_2025-03-01_2025-03-15.xlsx"))
	assert.NoError(t, err)
}

func TestExportBlockedWhileDomainLoading(t *testing.T) {
	release := make(chan struct{})
	exporter, sess, _ := newExportFixture(t, map[string]http.HandlerFunc{
		"/api/thong-ke": func(w http.ResponseWriter, r *http.Request) {
			<-release
			w.Write([]byte(`{}`))
		},
	})

	done := make(chan error, 1)
	go func() { done <- sess.Refresh(context.Background()) }()

	// Chờ cờ thống kê bật lên rồi mới thử xuất.
	deadline := time.After(2 * time.Second)
	for !sess.DomainLoading(session.DomainThongKe) {
		select {
		case <-deadline:
			t.Fatal("cờ thống kê không bật")
		case <-time.After(5 * time.Millisecond):
		}
	}

	_, err := exporter.ExportSelected(context.Background(), []ReportType{ReportDoanhSo})
	var busy *DomainBusyError
	require.ErrorAs(t, err, &busy)
	assert.Equal(t, ReportDoanhSo, busy.Report)
	assert.Equal(t, session.DomainThongKe, busy.Domain)

	// Báo cáo không phụ thuộc domain đang tải vẫn xuất được, chờ domain
	// của nó tải xong trước.
	for sess.DomainLoading(session.DomainKetCa) {
		select {
		case <-deadline:
			t.Fatal("cờ kết ca không tắt")
		case <-time.After(5 * time.Millisecond):
		}
	}
	_, err = exporter.ExportSelected(context.Background(), []ReportType{ReportKetCa})
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestRenderOne(t *testing.T) {
	exporter, _, _ := newExportFixture(t, nil)

	name, data, err := exporter.RenderOne(context.Background(), ReportDoanhSo)
	require.NoError(t, err)
	assert.Equal(t, "DoanhSo_2025-03-01_2025-03-15.xlsx", name)
	assert.NotEmpty(t, data)

	_, _, err = exporter.RenderOne(context.Background(), "bậyBạ")
	assert.ErrorIs(t, err, ErrUnknownReport)
}
