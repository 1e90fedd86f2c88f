package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotel-booking-engine/config"
	"hotel-booking-engine/internal/model"
	apperrors "hotel-booking-engine/pkg/app_errors"
)

// CouponLedger 遠端折扣券總帳。總帳是唯一的真實來源，
// 本地任何快取都不得作為「已使用」判斷的依據。
type CouponLedger interface {
	FetchCoupon(ctx context.Context, code string) (*model.Coupon, error)
	MarkUsed(ctx context.Context, coupon *model.Coupon, usedBy string, usedAt time.Time) error
}

// SheetLedger 表格式總帳的 HTTP 客戶端。
// 每列格式：code, amount, used_at, used_by。
type SheetLedger struct {
	client     *http.Client
	baseURL    string
	sheetID    string
	apiKey     string
	sheetRange string
}

func NewSheetLedger(cfg *config.LedgerConfig) *SheetLedger {
	return &SheetLedger{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		sheetID:    cfg.SheetID,
		apiKey:     cfg.APIKey,
		sheetRange: cfg.SheetRange,
	}
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

type valuesRequest struct {
	Values [][]string `json:"values"`
}

func (l *SheetLedger) rangeURL(sheetRange string) string {
	return fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		l.baseURL, l.sheetID, url.PathEscape(sheetRange), url.QueryEscape(l.apiKey))
}

// ReadRange 讀取指定範圍的所有列
func (l *SheetLedger) ReadRange(ctx context.Context, sheetRange string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.rangeURL(sheetRange), nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrUpstreamUnavailable, sheetRange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: read %s: status %d", apperrors.ErrUpstreamUnavailable, sheetRange, resp.StatusCode)
	}

	var body valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", apperrors.ErrUpstreamUnavailable, sheetRange, err)
	}

	return body.Values, nil
}

// UpdateCell 回寫單一儲存格
func (l *SheetLedger) UpdateCell(ctx context.Context, cellRange, value string) error {
	payload, err := json.Marshal(valuesRequest{Values: [][]string{{value}}})
	if err != nil {
		return err
	}

	u := l.rangeURL(cellRange) + "&valueInputOption=RAW"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", apperrors.ErrUpstreamUnavailable, cellRange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: update %s: status %d", apperrors.ErrUpstreamUnavailable, cellRange, resp.StatusCode)
	}

	return nil
}

// FetchCoupon 依折扣碼查找券；code 需已正規化
func (l *SheetLedger) FetchCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	rows, err := l.ReadRange(ctx, l.sheetRange)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if len(row) == 0 || model.NormalizeCode(row[0]) != code {
			continue
		}

		coupon := &model.Coupon{
			Code: code,
			Row:  i + 2, // 範圍從第 2 列開始（第 1 列是標題）
		}
		if len(row) > 1 {
			amount, err := strconv.ParseInt(row[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid coupon amount for %s: %w", code, err)
			}
			coupon.Amount = amount
		}
		if len(row) > 2 {
			coupon.UsedAt = row[2]
		}
		if len(row) > 3 {
			coupon.UsedBy = row[3]
		}
		return coupon, nil
	}

	return nil, apperrors.ErrCouponNotFound
}

func (l *SheetLedger) sheetName() string {
	if i := strings.Index(l.sheetRange, "!"); i > 0 {
		return l.sheetRange[:i]
	}
	return l.sheetRange
}

// MarkUsed 寫入 used_at 與 used_by；寫入失敗時券保持未消耗，可安全重試
func (l *SheetLedger) MarkUsed(ctx context.Context, coupon *model.Coupon, usedBy string, usedAt time.Time) error {
	usedAtCell := fmt.Sprintf("%s!C%d", l.sheetName(), coupon.Row)
	if err := l.UpdateCell(ctx, usedAtCell, usedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	usedByCell := fmt.Sprintf("%s!D%d", l.sheetName(), coupon.Row)
	if err := l.UpdateCell(ctx, usedByCell, usedBy); err != nil {
		return err
	}

	return nil
}
