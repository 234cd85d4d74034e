// Package posapi là client cho API dữ liệu của hệ thống POS.
// Mỗi method tương ứng một domain dữ liệu; lỗi vận chuyển hay decode
// trả error để tầng điều phối tự hạ xuống dataset rỗng.
package posapi

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/model"
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pos api error: %s", e.Status)
	}
	return fmt.Sprintf("pos api error: %s: %s", e.Status, e.Body)
}

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(2 * time.Second)

	return &Client{
		http:   httpClient,
		logger: logger.Named("posapi"),
	}
}

// Stores lấy toàn bộ danh mục cửa hàng. Lọc theo vai trò là việc của caller.
func (c *Client) Stores(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	if err := c.doGet(ctx, "/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// Summary lấy bốn dataset thống kê (doanh số, doanh số SP, hóa đơn,
// chi tiết bán hàng) trong một request.
func (c *Client) Summary(ctx context.Context, f model.Filter) (model.SummaryData, error) {
	var result model.SummaryData
	if err := c.doPost(ctx, "/api/thong-ke", f, &result); err != nil {
		return model.SummaryData{}, err
	}
	return result, nil
}

// PurchaseReceipts lấy phiếu nhập của các cửa hàng trong khoảng ngày,
// sắp theo số phiếu (SoPN, so sánh kiểu số) tăng dần.
func (c *Client) PurchaseReceipts(ctx context.Context, f model.Filter) ([]model.PurchaseReceipt, error) {
	query := map[string]string{
		"MaCHs":     joinStoreIDs(f.DsMaCH),
		"startDate": f.TuNgay,
		"endDate":   f.DenNgay,
	}
	var receipts []model.PurchaseReceipt
	if err := c.doGet(ctx, "/api/sale-nhap-hang-by-ch", query, &receipts); err != nil {
		return nil, err
	}
	sort.SliceStable(receipts, func(i, j int) bool {
		return receiptSeq(receipts[i].SoPN) < receiptSeq(receipts[j].SoPN)
	})
	return receipts, nil
}

// ShiftDays lấy danh sách kết ca theo ngày.
func (c *Client) ShiftDays(ctx context.Context, f model.Filter) ([]model.ShiftDay, error) {
	query := map[string]string{}
	if f.TuNgay != "" {
		query["fromDate"] = f.TuNgay
	}
	if f.DenNgay != "" {
		query["toDate"] = f.DenNgay
	}
	if len(f.DsMaCH) > 0 {
		query["idch"] = joinStoreIDs(f.DsMaCH)
	}
	var days []model.ShiftDay
	if err := c.doGet(ctx, "/api/sale-ket-ca", query, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// CakeSales lấy chi tiết bán bánh kem của một cửa hàng. Khoảng lọc là
// timestamp trọn ngày (00:00:00 → 23:59:59).
func (c *Client) CakeSales(ctx context.Context, storeID int, f model.Filter) ([]model.CakeSaleRecord, error) {
	body := map[string]any{
		"MaCH":        storeID,
		"NgayBatDau":  f.TuNgay + "T00:00:00",
		"NgayKetThuc": f.DenNgay + "T23:59:59",
	}
	var env struct {
		Success bool                   `json:"success"`
		Data    []model.CakeSaleRecord `json:"data"`
	}
	if err := c.doPost(ctx, "/api/doansobanhkem", body, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, nil
	}
	return env.Data, nil
}

// WholesaleOrders lấy chi tiết bánh kem đặt của một cửa hàng, lọc theo
// ngày thuần (không kèm giờ).
func (c *Client) WholesaleOrders(ctx context.Context, storeID int, f model.Filter) ([]model.WholesaleOrderRecord, error) {
	body := map[string]any{
		"MaCH":        storeID,
		"NgayBatDau":  f.TuNgay,
		"NgayKetThuc": f.DenNgay,
	}
	var orders []model.WholesaleOrderRecord
	if err := c.doPost(ctx, "/api/cake-wholesale-summary-detail", body, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// StocktakeHeaders lấy toàn bộ phiếu kiểm kê. Endpoint không nhận bộ
// lọc; caller tự lọc theo khoảng ngày.
func (c *Client) StocktakeHeaders(ctx context.Context) ([]model.StocktakeHeader, error) {
	var headers []model.StocktakeHeader
	if err := c.doGet(ctx, "/api/phieu-kiem-ke", nil, &headers); err != nil {
		return nil, err
	}
	return headers, nil
}

// StocktakeDetails lấy dòng kiểm kê của một phiếu.
func (c *Client) StocktakeDetails(ctx context.Context, headerID int) ([]model.StocktakeDetail, error) {
	var details []model.StocktakeDetail
	path := fmt.Sprintf("/api/chi-tiet-phieu-kiem-ke/%d", headerID)
	if err := c.doGet(ctx, path, nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// Inventory lấy snapshot tồn kho của một cửa hàng đại diện trong khoảng
// ngày. Response bọc trong envelope success/data; success=false coi như
// không có dữ liệu.
func (c *Client) Inventory(ctx context.Context, storeID int, f model.Filter) ([]model.InventoryLine, error) {
	query := map[string]string{
		"MaCH":        strconv.Itoa(storeID),
		"NgayBatDau":  f.TuNgay,
		"NgayKetThuc": f.DenNgay,
	}
	var env struct {
		Success bool                  `json:"success"`
		Data    []model.InventoryLine `json:"data"`
	}
	if err := c.doGet(ctx, "/api/khohang", query, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		c.logger.Debug("inventory request returned success=false", zap.Int("storeID", storeID))
		return nil, nil
	}
	return env.Data, nil
}

func (c *Client) doGet(ctx context.Context, path string, query map[string]string, result any) error {
	req := c.http.R().SetContext(ctx).SetResult(result)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("pos request: %w", err)
	}
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func (c *Client) doPost(ctx context.Context, path string, body, result any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(result).Post(path)
	if err != nil {
		return fmt.Errorf("pos request: %w", err)
	}
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func apiErrorFromResponse(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       strings.TrimSpace(resp.String()),
	}
}

func joinStoreIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

func receiptSeq(soPN string) int {
	n, err := strconv.Atoi(strings.TrimSpace(soPN))
	if err != nil {
		return 0
	}
	return n
}
