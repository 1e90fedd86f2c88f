package model

// PackageType 定價方案：純住房或含餐套裝
type PackageType string

const (
	PackageRoomOnly PackageType = "room_only"
	PackageCombo    PackageType = "combo"
)

// IsValid 驗證方案是否有效
func (p PackageType) IsValid() bool {
	return p == PackageRoomOnly || p == PackageCombo
}

// SurchargeKind 加價規則類型（固定封閉集合，不可由使用者自訂公式）
type SurchargeKind string

const (
	SurchargeExtraOccupant SurchargeKind = "extra_occupant"
	SurchargeChild         SurchargeKind = "child"
	SurchargeAdult         SurchargeKind = "adult"
	SurchargeBreakfast     SurchargeKind = "breakfast"
	SurchargeOther         SurchargeKind = "other"
)

// AmountUnit 加價金額單位
type AmountUnit string

const (
	AmountFixed   AmountUnit = "fixed"
	AmountPercent AmountUnit = "percent"
)

// SurchargeRule 房型加價規則；單次計價期間視為不可變
type SurchargeRule struct {
	ID              int           `json:"id" db:"id"`
	RoomID          int           `json:"room_id" db:"room_id"`
	Kind            SurchargeKind `json:"kind" db:"kind"`
	MinAge          *int          `json:"min_age,omitempty" db:"min_age"`
	MaxAge          *int          `json:"max_age,omitempty" db:"max_age"`
	Amount          int64         `json:"amount" db:"amount"`
	AmountUnit      AmountUnit    `json:"amount_unit" db:"amount_unit"`
	PerNight        bool          `json:"per_night" db:"per_night"`
	Mandatory       bool          `json:"mandatory" db:"mandatory"`
	AppliesRoomOnly bool          `json:"applies_room_only" db:"applies_room_only"`
	AppliesPackage  bool          `json:"applies_package" db:"applies_package"`
	SortOrder       int           `json:"sort_order" db:"sort_order"`
}

// AppliesTo 規則是否適用於指定方案
func (r *SurchargeRule) AppliesTo(pkg PackageType) bool {
	if pkg == PackageCombo {
		return r.AppliesPackage
	}
	return r.AppliesRoomOnly
}

// AgeBand 回傳 child 規則的年齡區間，未設定時預設 0-17
func (r *SurchargeRule) AgeBand() (int, int) {
	min, max := 0, 17
	if r.MinAge != nil {
		min = *r.MinAge
	}
	if r.MaxAge != nil {
		max = *r.MaxAge
	}
	return min, max
}

// QuoteRequest 報價請求
type QuoteRequest struct {
	RoomID       int         `json:"room_id" binding:"required"`
	CheckIn      string      `json:"check_in" binding:"required"`
	CheckOut     string      `json:"check_out" binding:"required"`
	RoomCount    int         `json:"room_count" binding:"required,min=1"`
	Adults       int         `json:"adults" binding:"required,min=1"`
	Children     int         `json:"children"`
	ChildrenAges []int       `json:"children_ages"`
	PackageType  PackageType `json:"package_type"`
}

// NightPrice 單晚價格明細；欄位名稱是對外的持久化契約，不可更動
type NightPrice struct {
	Date       string     `json:"date"`
	Weekday    string     `json:"weekday"`
	Price      int64      `json:"price"`
	SaleStatus SaleStatus `json:"sale_status"`
}

// SurchargeLine 加價明細列
type SurchargeLine struct {
	RuleID     int           `json:"rule_id"`
	Kind       SurchargeKind `json:"kind"`
	Quantity   int           `json:"quantity"`
	Nights     int           `json:"nights"`
	UnitAmount int64         `json:"unit_amount"`
	Amount     int64         `json:"amount"`
}

// PricingSnapshot 計價快照：訂房當下的完整金額明細，建立後永不重算
type PricingSnapshot struct {
	Nights         []NightPrice    `json:"nights"`
	Surcharges     []SurchargeLine `json:"surcharges"`
	NightlyTotal   int64           `json:"nightly_total"`
	RoomsTotal     int64           `json:"rooms_total"`
	SurchargeTotal int64           `json:"surcharge_total"`
	DiscountTotal  int64           `json:"discount_total"`
	GrandTotal     int64           `json:"grand_total"`
}

// Quote 報價結果
type Quote struct {
	RoomID      int             `json:"room_id"`
	CheckIn     string          `json:"check_in"`
	CheckOut    string          `json:"check_out"`
	RoomCount   int             `json:"room_count"`
	PackageType PackageType     `json:"package_type"`
	Snapshot    PricingSnapshot `json:"snapshot"`
}

// CalendarDay 日曆聚合：該日所有房型中可訂的最低價；全部售完時只標記 sold_out
type CalendarDay struct {
	Date        string `json:"date"`
	MinRoomOnly *int64 `json:"min_room_only,omitempty"`
	MinPackage  *int64 `json:"min_package,omitempty"`
	SoldOut     bool   `json:"sold_out"`
}
