package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quochoa304/codex-AI/aggregate"
	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/session"
)

// ReportType định danh một loại báo cáo xuất được.
type ReportType string

const (
	ReportDoanhSo        ReportType = "doanhSo"
	ReportDoanhSoSP      ReportType = "doanhSoSP"
	ReportHoaDon         ReportType = "hoaDon"
	ReportChiTietBanHang ReportType = "chiTietBanHang"
	ReportNhapHang       ReportType = "nhapHang"
	ReportTonKho         ReportType = "tonKho"
	ReportKetCa          ReportType = "ketCa"
	ReportKiemKe         ReportType = "kiemKe"
	ReportBanhKem        ReportType = "banhKem"
	ReportWholesale      ReportType = "wholesale"
)

// ReportOrder là thứ tự xuất cố định khi chọn nhiều báo cáo.
var ReportOrder = []ReportType{
	ReportDoanhSo, ReportDoanhSoSP, ReportHoaDon, ReportChiTietBanHang,
	ReportNhapHang, ReportTonKho, ReportKetCa, ReportKiemKe,
	ReportBanhKem, ReportWholesale,
}

// Deps là phụ thuộc ngoài của các renderer: hàm tải chi tiết kiểm kê và
// logger cho chế độ suy luận cột.
type Deps struct {
	Details aggregate.DetailFetchFunc
	Logger  *zap.Logger
}

type buildFunc func(context.Context, session.Snapshot, Deps) (*excelize.File, error)

type reportSpec struct {
	Label  string
	Domain session.Domain
	build  buildFunc
}

// reportSpecs ánh xạ loại báo cáo sang nhãn tên file, domain dữ liệu nó
// phụ thuộc (để chặn xuất khi domain còn đang tải) và renderer.
var reportSpecs = map[ReportType]reportSpec{
	ReportDoanhSo:        {Label: "DoanhSo", Domain: session.DomainThongKe, build: buildDoanhSo},
	ReportDoanhSoSP:      {Label: "DoanhSoSanPham", Domain: session.DomainThongKe, build: buildDoanhSoSP},
	ReportHoaDon:         {Label: "HoaDon", Domain: session.DomainThongKe, build: buildHoaDon},
	ReportChiTietBanHang: {Label: "ChiTietBanHang", Domain: session.DomainThongKe, build: buildChiTietBanHang},
	ReportNhapHang:       {Label: "SoChiTietNhapHang", Domain: session.DomainNhapHang, build: buildNhapHang},
	ReportTonKho:         {Label: "PhieuTonKho", Domain: session.DomainKhoHang, build: buildTonKho},
	ReportKetCa:          {Label: "BaoCaoKetCa", Domain: session.DomainKetCa, build: buildKetCa},
	ReportKiemKe:         {Label: "PhieuKiemKe", Domain: session.DomainKiemKe, build: buildKiemKe},
	ReportBanhKem:        {Label: "ChiTietBanBanhKem", Domain: session.DomainBanhKem, build: buildBanhKem},
	ReportWholesale:      {Label: "ChiTietBanhKemDat", Domain: session.DomainWholesale, build: buildWholesale},
}

var (
	ErrNothingSelected = errors.New("chưa chọn báo cáo nào")
	ErrUnknownReport   = errors.New("loại báo cáo không hợp lệ")
)

// DomainBusyError báo một báo cáo bị chặn vì domain dữ liệu của nó còn
// đang tải.
type DomainBusyError struct {
	Report ReportType
	Domain session.Domain
}

func (e *DomainBusyError) Error() string {
	return fmt.Sprintf("báo cáo %s chưa xuất được: dữ liệu %s đang tải", e.Report, e.Domain)
}

// ParseReportType kiểm tra một khóa báo cáo từ request.
func ParseReportType(s string) (ReportType, error) {
	rt := ReportType(s)
	if _, ok := reportSpecs[rt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownReport, s)
	}
	return rt, nil
}

// FileName là tên file xuất: nhãn báo cáo và khoảng ngày của bộ lọc.
func FileName(label string, f model.Filter) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", label, f.TuNgay, f.DenNgay)
}

// Result là kết quả một lượt xuất hàng loạt.
type Result struct {
	Count int      `json:"count"`
	Files []string `json:"files"`
}

// Exporter dựng các báo cáo đã chọn từ snapshot phiên và ghi ra thư mục
// xuất.
type Exporter struct {
	sess   *session.Session
	deps   Deps
	dir    string
	logger *zap.Logger
}

func NewExporter(sess *session.Session, details aggregate.DetailFetchFunc, dir string, logger *zap.Logger) *Exporter {
	logger = logger.Named("export")
	return &Exporter{
		sess:   sess,
		deps:   Deps{Details: details, Logger: logger},
		dir:    dir,
		logger: logger,
	}
}

// normalize sắp các báo cáo đã chọn theo ReportOrder và bỏ trùng.
func normalize(selected []ReportType) ([]ReportType, error) {
	want := make(map[ReportType]bool, len(selected))
	for _, rt := range selected {
		if _, ok := reportSpecs[rt]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownReport, rt)
		}
		want[rt] = true
	}
	out := make([]ReportType, 0, len(want))
	for _, rt := range ReportOrder {
		if want[rt] {
			out = append(out, rt)
		}
	}
	if len(out) == 0 {
		return nil, ErrNothingSelected
	}
	return out, nil
}

// checkReady chặn lượt xuất khi domain của một báo cáo đã chọn còn đang
// tải. Tồn kho chưa tải lần nào không tính là đang tải, nó sẽ được tải
// trễ ngay trước khi dựng.
func (e *Exporter) checkReady(selected []ReportType) error {
	for _, rt := range selected {
		spec := reportSpecs[rt]
		if e.sess.DomainLoading(spec.Domain) {
			return &DomainBusyError{Report: rt, Domain: spec.Domain}
		}
	}
	return nil
}

// ensureInventory tải tồn kho trễ nếu lượt xuất có báo cáo tồn kho.
func (e *Exporter) ensureInventory(ctx context.Context, selected []ReportType) error {
	for _, rt := range selected {
		if rt != ReportTonKho {
			continue
		}
		if _, err := e.sess.EnsureInventory(ctx); err != nil {
			return fmt.Errorf("tải tồn kho trước khi xuất: %w", err)
		}
		return nil
	}
	return nil
}

// render dựng một báo cáo thành bytes xlsx kèm tên file.
func (e *Exporter) render(ctx context.Context, rt ReportType, snap session.Snapshot) (string, []byte, error) {
	spec := reportSpecs[rt]
	f, err := spec.build(ctx, snap, e.deps)
	if err != nil {
		return "", nil, fmt.Errorf("dựng báo cáo %s: %w", rt, err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("ghi workbook %s: %w", rt, err)
	}
	return FileName(spec.Label, snap.Filter), buf.Bytes(), nil
}

// ExportSelected dựng song song các báo cáo đã chọn và ghi từng file vào
// thư mục xuất. Một báo cáo lỗi làm cả lượt trả lỗi; file đã ghi xong
// trước đó vẫn nằm lại trên đĩa.
func (e *Exporter) ExportSelected(ctx context.Context, selected []ReportType) (Result, error) {
	list, err := normalize(selected)
	if err != nil {
		return Result{}, err
	}
	if err := e.checkReady(list); err != nil {
		return Result{}, err
	}
	if err := e.ensureInventory(ctx, list); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("tạo thư mục xuất: %w", err)
	}

	snap := e.sess.Snapshot()
	files := make([]string, len(list))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, rt := range list {
		i, rt := i, rt
		g.Go(func() error {
			name, data, err := e.render(gctx, rt, snap)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(e.dir, name), data, 0o644); err != nil {
				return fmt.Errorf("ghi file %s: %w", name, err)
			}
			mu.Lock()
			files[i] = name
			mu.Unlock()
			e.logger.Info("đã xuất báo cáo", zap.String("report", string(rt)), zap.String("file", name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Count: len(files), Files: files}, nil
}

// RenderOne dựng một báo cáo trong bộ nhớ cho endpoint tải trực tiếp.
func (e *Exporter) RenderOne(ctx context.Context, rt ReportType) (string, []byte, error) {
	list, err := normalize([]ReportType{rt})
	if err != nil {
		return "", nil, err
	}
	if err := e.checkReady(list); err != nil {
		return "", nil, err
	}
	if err := e.ensureInventory(ctx, list); err != nil {
		return "", nil, err
	}
	return e.render(ctx, rt, e.sess.Snapshot())
}
