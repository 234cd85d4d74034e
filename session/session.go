// Package session giữ trạng thái một phiên dashboard: bộ lọc, cờ đang
// tải theo domain và các dataset đã tải. Mọi component đọc/ghi qua
// method, không có state toàn cục.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/aggregate"
	"github.com/quochoa304/codex-AI/model"
	"github.com/quochoa304/codex-AI/posapi"
)

// Domain là một nhóm dữ liệu tải độc lập.
type Domain string

const (
	DomainThongKe   Domain = "thongKe"
	DomainNhapHang  Domain = "nhapHang"
	DomainKetCa     Domain = "ketCa"
	DomainBanhKem   Domain = "banhKem"
	DomainWholesale Domain = "wholesale"
	DomainKiemKe    Domain = "kiemKe"
	DomainKhoHang   Domain = "khoHang"
)

// Domains liệt kê mọi domain theo thứ tự hiển thị cờ trạng thái.
var Domains = []Domain{
	DomainThongKe, DomainNhapHang, DomainKetCa,
	DomainBanhKem, DomainWholesale, DomainKiemKe, DomainKhoHang,
}

var ErrNoStoreSelected = errors.New("chưa chọn cửa hàng nào")

// Snapshot là bản sao dataset của phiên tại một thời điểm, cấp cho tầng
// đối soát / báo cáo. Mỗi chu kỳ tải thay thế trọn bộ dataset.
type Snapshot struct {
	Filter     model.Filter
	Stores     []model.Store
	Summary    model.SummaryData
	Purchases  []model.PurchaseReceipt
	Shifts     []model.ShiftDay
	CakeSales  []model.CakeSaleRecord
	Wholesale  []model.WholesaleOrderRecord
	Stocktakes []model.StocktakeHeader
	Inventory  []model.InventoryLine
}

type Session struct {
	api    *posapi.Client
	logger *zap.Logger

	mu      sync.Mutex
	filter  model.Filter
	stores  []model.Store
	loading map[Domain]bool

	summary    model.SummaryData
	purchases  []model.PurchaseReceipt
	shifts     []model.ShiftDay
	cakeSales  []model.CakeSaleRecord
	wholesale  []model.WholesaleOrderRecord
	stocktakes []model.StocktakeHeader

	// Tồn kho tải trễ: mỗi chu kỳ lọc chỉ fetch một lần, refresh mới
	// sẽ xóa để lần xuất sau tính lại.
	inventory       []model.InventoryLine
	inventoryLoaded bool
}

func New(api *posapi.Client, logger *zap.Logger) *Session {
	return &Session{
		api:     api,
		logger:  logger.Named("session"),
		loading: make(map[Domain]bool),
	}
}

func (s *Session) SetStores(stores []model.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores = stores
}

func (s *Session) SetFilter(f model.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

func (s *Session) Filter() model.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Session) Stores() []model.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores
}

// DomainLoading cho biết một domain còn đang tải không.
func (s *Session) DomainLoading(d Domain) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[d]
}

// AnyLoading là OR của mọi cờ domain.
func (s *Session) AnyLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.loading {
		if v {
			return true
		}
	}
	return false
}

// LoadingFlags trả bản sao cờ trạng thái cho endpoint /api/status.
func (s *Session) LoadingFlags() map[Domain]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Domain]bool, len(Domains))
	for _, d := range Domains {
		out[d] = s.loading[d]
	}
	return out
}

func (s *Session) setLoading(d Domain, v bool) {
	s.mu.Lock()
	s.loading[d] = v
	s.mu.Unlock()
}

// Refresh tải lại mọi domain mặc định cho bộ lọc hiện tại: các request
// bắn song song, chờ đủ rồi trả về. Domain nào lỗi thì hạ xuống dataset
// rỗng, không ảnh hưởng domain khác. Tồn kho không nằm trong chu kỳ
// mặc định; cache tồn kho cũ bị xóa ngay khi chu kỳ mới bắt đầu.
// Kết quả tới muộn từ chu kỳ trước sẽ bị chu kỳ sau ghi đè (last write
// wins) — chấp nhận vì UI chỉ chạy một chu kỳ tại một thời điểm.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	f := s.filter
	if len(f.DsMaCH) == 0 {
		s.mu.Unlock()
		return ErrNoStoreSelected
	}
	s.inventory = nil
	s.inventoryLoaded = false
	s.mu.Unlock()

	var wg sync.WaitGroup

	run := func(d Domain, task func()) {
		s.setLoading(d, true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.setLoading(d, false)
			task()
		}()
	}

	run(DomainThongKe, func() {
		result, err := s.api.Summary(ctx, f)
		if err != nil {
			s.logger.Warn("lỗi tải thống kê", zap.Error(err))
			result = model.SummaryData{}
		}
		s.mu.Lock()
		s.summary = result
		s.mu.Unlock()
	})

	run(DomainNhapHang, func() {
		receipts, err := s.api.PurchaseReceipts(ctx, f)
		if err != nil {
			s.logger.Warn("lỗi tải nhập hàng", zap.Error(err))
			receipts = nil
		}
		s.mu.Lock()
		s.purchases = receipts
		s.mu.Unlock()
	})

	run(DomainKetCa, func() {
		days, err := s.api.ShiftDays(ctx, f)
		if err != nil {
			s.logger.Warn("lỗi tải kết ca", zap.Error(err))
			days = nil
		}
		s.mu.Lock()
		s.shifts = days
		s.mu.Unlock()
	})

	run(DomainBanhKem, func() {
		cakes := fanOutPerStore(ctx, s.logger, f, "bánh kem",
			func(ctx context.Context, storeID int) ([]model.CakeSaleRecord, error) {
				return s.api.CakeSales(ctx, storeID, f)
			})
		s.mu.Lock()
		s.cakeSales = cakes
		s.mu.Unlock()
	})

	run(DomainWholesale, func() {
		orders := fanOutPerStore(ctx, s.logger, f, "bánh kem đặt",
			func(ctx context.Context, storeID int) ([]model.WholesaleOrderRecord, error) {
				return s.api.WholesaleOrders(ctx, storeID, f)
			})
		s.mu.Lock()
		s.wholesale = orders
		s.mu.Unlock()
	})

	run(DomainKiemKe, func() {
		headers, err := s.api.StocktakeHeaders(ctx)
		if err != nil {
			s.logger.Warn("lỗi tải kiểm kê", zap.Error(err))
			headers = nil
		}
		filtered := aggregate.FilterStocktakesByRange(headers, f)
		s.mu.Lock()
		s.stocktakes = filtered
		s.mu.Unlock()
	})

	wg.Wait()
	return nil
}

// EnsureInventory tải tồn kho trễ, mỗi chu kỳ lọc đúng một lần rồi dùng
// lại. Upstream chỉ nhận một cửa hàng: lấy cửa hàng đầu tiên đang chọn
// (hành vi giữ nguyên từ trước, kể cả khi chọn nhiều cửa hàng).
func (s *Session) EnsureInventory(ctx context.Context) ([]model.InventoryLine, error) {
	s.mu.Lock()
	if s.inventoryLoaded {
		cached := s.inventory
		s.mu.Unlock()
		return cached, nil
	}
	f := s.filter
	s.mu.Unlock()

	if len(f.DsMaCH) == 0 {
		return nil, ErrNoStoreSelected
	}

	s.setLoading(DomainKhoHang, true)
	defer s.setLoading(DomainKhoHang, false)

	lines, err := s.api.Inventory(ctx, f.DsMaCH[0], f)
	if err != nil {
		s.logger.Warn("lỗi tải tồn kho", zap.Error(err))
		lines = nil
	}

	s.mu.Lock()
	s.inventory = lines
	s.inventoryLoaded = true
	s.mu.Unlock()
	return lines, nil
}

// InventoryLoaded cho biết cache tồn kho của chu kỳ này đã có chưa.
func (s *Session) InventoryLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventoryLoaded
}

// Snapshot trả bản sao dataset hiện tại.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Filter:     s.filter,
		Stores:     s.stores,
		Summary:    s.summary,
		Purchases:  s.purchases,
		Shifts:     s.shifts,
		CakeSales:  s.cakeSales,
		Wholesale:  s.wholesale,
		Stocktakes: s.stocktakes,
		Inventory:  s.inventory,
	}
}

// fanOutPerStore bắn một request cho từng cửa hàng đang chọn rồi nối
// kết quả. Cửa hàng lỗi góp danh sách rỗng; thứ tự giữa các cửa hàng
// không đảm bảo, tầng dùng sẽ tự sắp lại.
func fanOutPerStore[T any](ctx context.Context, logger *zap.Logger, f model.Filter, label string, fetch func(context.Context, int) ([]T, error)) []T {
	results := make([][]T, len(f.DsMaCH))
	var wg sync.WaitGroup
	for i, storeID := range f.DsMaCH {
		wg.Add(1)
		go func(i, storeID int) {
			defer wg.Done()
			items, err := fetch(ctx, storeID)
			if err != nil {
				logger.Warn("lỗi tải theo cửa hàng",
					zap.String("domain", label), zap.Int("storeID", storeID), zap.Error(err))
				return
			}
			results[i] = items
		}(i, storeID)
	}
	wg.Wait()

	var out []T
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}
