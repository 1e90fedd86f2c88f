package clock

import "time"

// Clock 注入時間來源，方便測試控制時間
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem 回傳使用 time.Now 的時鐘
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed 回傳固定時間的時鐘（測試用）
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
