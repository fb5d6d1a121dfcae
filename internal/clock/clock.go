package clock

import (
	"time"
)

// Clock 时间源，截止判断统一从这里取当前时间
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock 固定时钟，测试用
type FixedClock struct {
	Time time.Time
}

func (f FixedClock) Now() time.Time {
	return f.Time
}
