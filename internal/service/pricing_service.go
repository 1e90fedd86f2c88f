package service

import (
	"context"
	"sort"
	"time"

	"hotel-booking-engine/internal/model"
	"hotel-booking-engine/internal/repository"
	apperrors "hotel-booking-engine/pkg/app_errors"
)

const dateLayout = "2006-01-02"

// PricingService 計價引擎：純讀取，不改動任何狀態
type PricingService interface {
	// Quote 解析住宿區間為逐晚價格序列與加價明細
	Quote(ctx context.Context, req model.QuoteRequest) (*model.Quote, error)
	// CalendarPrices 日曆聚合：飯店底下所有房型每日的最低可訂價
	CalendarPrices(ctx context.Context, hotelID int, from, to string) ([]*model.CalendarDay, error)
	// ListRooms 飯店底下的房型目錄
	ListRooms(ctx context.Context, hotelID int) ([]*model.Room, error)
}

type PricingServiceImpl struct {
	roomRepo repository.RoomRepository
	rateRepo repository.RateRepository
}

func NewPricingService(roomRepo repository.RoomRepository, rateRepo repository.RateRepository) PricingService {
	return &PricingServiceImpl{roomRepo: roomRepo, rateRepo: rateRepo}
}

func parseStayRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidDateRange
	}
	to, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidDateRange
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func (s *PricingServiceImpl) Quote(ctx context.Context, req model.QuoteRequest) (*model.Quote, error) {
	if req.RoomCount < 1 {
		return nil, apperrors.NewValidationError("room_count", "must be at least 1")
	}
	if req.PackageType == "" {
		req.PackageType = model.PackageRoomOnly
	}
	if !req.PackageType.IsValid() {
		return nil, apperrors.NewValidationError("package_type", "unknown package type")
	}

	from, to, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	room, err := s.roomRepo.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	rates, err := s.rateRepo.ListRange(ctx, req.RoomID, from, to)
	if err != nil {
		return nil, err
	}

	ratesByDate := make(map[string]*model.RoomRate, len(rates))
	for _, rate := range rates {
		ratesByDate[rate.Date.Format(dateLayout)] = rate
	}

	// 逐晚價格：未定價的日期以 0 計（尚不可售的訊號，由可售檢查攔下，不是計價錯誤）
	nights := make([]model.NightPrice, 0)
	var nightlyTotal int64
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		night := model.NightPrice{
			Date:       key,
			Weekday:    d.Weekday().String(),
			SaleStatus: model.SaleAvailable,
		}
		if rate, ok := ratesByDate[key]; ok {
			night.Price = rate.PriceFor(req.PackageType)
			night.SaleStatus = rate.SaleStatus
		}
		nightlyTotal += night.Price
		nights = append(nights, night)
	}

	roomsTotal := nightlyTotal * int64(req.RoomCount)
	nightCount := len(nights)

	rules, err := s.roomRepo.ListSurchargeRules(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	surcharges, surchargeTotal := computeSurcharges(rules, &req, room, roomsTotal, nightCount)

	snapshot := model.PricingSnapshot{
		Nights:         nights,
		Surcharges:     surcharges,
		NightlyTotal:   nightlyTotal,
		RoomsTotal:     roomsTotal,
		SurchargeTotal: surchargeTotal,
		DiscountTotal:  0,
		GrandTotal:     roomsTotal + surchargeTotal,
	}

	return &model.Quote{
		RoomID:      req.RoomID,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		RoomCount:   req.RoomCount,
		PackageType: req.PackageType,
		Snapshot:    snapshot,
	}, nil
}

// computeSurcharges 規則彼此獨立計算後加總，不互斥
func computeSurcharges(rules []*model.SurchargeRule, req *model.QuoteRequest, room *model.Room, roomsTotal int64, nightCount int) ([]model.SurchargeLine, int64) {
	lines := make([]model.SurchargeLine, 0)
	var total int64

	for _, rule := range rules {
		if !rule.AppliesTo(req.PackageType) {
			continue
		}

		quantity := surchargeQuantity(rule, req, room)
		if quantity <= 0 {
			continue
		}

		unit := rule.Amount
		nightsFactor := 1
		if rule.AmountUnit == model.AmountPercent {
			// 百分比以整段住宿的房價總額為基數，不再乘晚數
			unit = roomsTotal * rule.Amount / 100
		} else if rule.PerNight {
			nightsFactor = nightCount
		}

		amount := unit * int64(quantity) * int64(nightsFactor)

		lines = append(lines, model.SurchargeLine{
			RuleID:     rule.ID,
			Kind:       rule.Kind,
			Quantity:   quantity,
			Nights:     nightsFactor,
			UnitAmount: unit,
			Amount:     amount,
		})
		total += amount
	}

	return lines, total
}

func surchargeQuantity(rule *model.SurchargeRule, req *model.QuoteRequest, room *model.Room) int {
	switch rule.Kind {
	case model.SurchargeExtraOccupant, model.SurchargeAdult:
		extra := req.Adults - room.BaseOccupancy*req.RoomCount
		if extra < 0 {
			return 0
		}
		return extra
	case model.SurchargeChild:
		min, max := rule.AgeBand()
		count := 0
		for _, age := range req.ChildrenAges {
			if age >= min && age <= max {
				count++
			}
		}
		return count
	case model.SurchargeBreakfast:
		// 早餐只在必選或套裝方案時計入；落在所有年齡區間外的孩童仍算人頭
		if !rule.Mandatory && req.PackageType != model.PackageCombo {
			return 0
		}
		return req.Adults + req.Children
	case model.SurchargeOther:
		if !rule.Mandatory {
			return 0
		}
		return req.RoomCount
	}
	return 0
}

func (s *PricingServiceImpl) ListRooms(ctx context.Context, hotelID int) ([]*model.Room, error) {
	return s.roomRepo.ListByHotelID(ctx, hotelID)
}

func (s *PricingServiceImpl) CalendarPrices(ctx context.Context, hotelID int, from, to string) ([]*model.CalendarDay, error) {
	start, end, err := parseStayRange(from, to)
	if err != nil {
		return nil, err
	}

	rates, err := s.rateRepo.ListByHotelRange(ctx, hotelID, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]*model.RoomRate)
	for _, rate := range rates {
		key := rate.Date.Format(dateLayout)
		byDate[key] = append(byDate[key], rate)
	}

	days := make([]*model.CalendarDay, 0, len(byDate))
	for date, dayRates := range byDate {
		day := &model.CalendarDay{Date: date, SoldOut: true}
		for _, rate := range dayRates {
			if !rate.SaleStatus.Bookable() || rate.Stock <= 0 {
				continue
			}
			day.SoldOut = false
			if rate.PriceRoomOnly > 0 && (day.MinRoomOnly == nil || rate.PriceRoomOnly < *day.MinRoomOnly) {
				price := rate.PriceRoomOnly
				day.MinRoomOnly = &price
			}
			if rate.PricePackage > 0 && (day.MinPackage == nil || rate.PricePackage < *day.MinPackage) {
				price := rate.PricePackage
				day.MinPackage = &price
			}
		}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return days, nil
}
