package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel-booking-engine/config"
	"hotel-booking-engine/internal/model"
	apperrors "hotel-booking-engine/pkg/app_errors"

	"github.com/stretchr/testify/assert"
)

func newTestLedger(baseURL string) *SheetLedger {
	return NewSheetLedger(&config.LedgerConfig{
		BaseURL:    baseURL,
		SheetID:    "sheet-1",
		APIKey:     "test-key",
		SheetRange: "Coupons!A2:D",
		Timeout:    time.Second,
	})
}

func TestFetchCoupon(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/v4/spreadsheets/sheet-1/values/")
			json.NewEncoder(w).Encode(map[string][][]string{
				"values": {
					{"WELCOME50", "50000", "", ""},
					{"SAVE100", "100000", "", ""},
				},
			})
		}))
		defer server.Close()

		l := newTestLedger(server.URL)
		coupon, err := l.FetchCoupon(context.Background(), "SAVE100")

		assert.NoError(t, err)
		assert.Equal(t, int64(100_000), coupon.Amount)
		// 範圍從第 2 列起算，SAVE100 是第二筆資料
		assert.Equal(t, 3, coupon.Row)
		assert.False(t, coupon.IsUsed())
	})

	t.Run("Success - 已使用的券帶回 used_at 與 used_by", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string][][]string{
				"values": {{"SAVE100", "100000", "2026-01-01T00:00:00Z", "BK1"}},
			})
		}))
		defer server.Close()

		l := newTestLedger(server.URL)
		coupon, err := l.FetchCoupon(context.Background(), "SAVE100")

		assert.NoError(t, err)
		assert.True(t, coupon.IsUsed())
		assert.Equal(t, "BK1", coupon.UsedBy)
	})

	t.Run("Failed - 找不到折扣碼", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string][][]string{"values": {{"OTHER", "1", "", ""}}})
		}))
		defer server.Close()

		l := newTestLedger(server.URL)
		_, err := l.FetchCoupon(context.Background(), "SAVE100")
		assert.ErrorIs(t, err, apperrors.ErrCouponNotFound)
	})

	t.Run("Failed - 上游回 500", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		l := newTestLedger(server.URL)
		_, err := l.FetchCoupon(context.Background(), "SAVE100")
		assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	})
}

func TestMarkUsed(t *testing.T) {
	t.Run("Success - 回寫 used_at 與 used_by 儲存格", func(t *testing.T) {
		var updatedRanges []string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut {
				parts := strings.Split(r.URL.Path, "/")
				updatedRanges = append(updatedRanges, parts[len(parts)-1])
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		l := newTestLedger(server.URL)
		coupon := &model.Coupon{Code: "SAVE100", Amount: 100_000, Row: 4}
		usedAt := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

		err := l.MarkUsed(context.Background(), coupon, "BK20260110-ABCDEF", usedAt)

		assert.NoError(t, err)
		assert.Equal(t, []string{"Coupons!C4", "Coupons!D4"}, updatedRanges)
	})

	t.Run("Failed - 回寫遭拒", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		l := newTestLedger(server.URL)
		coupon := &model.Coupon{Code: "SAVE100", Row: 4}

		err := l.MarkUsed(context.Background(), coupon, "BK1", time.Now())
		assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	})
}
