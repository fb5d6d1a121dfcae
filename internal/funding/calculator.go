package funding

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Hossein-79/Fortuna/internal/model"
)

// ErrUndefinedProgress 目标金额为0时进度无定义，调用方必须自行防护
var ErrUndefinedProgress = errors.New("筹款目标为0，完成进度无定义")

// Summary 筹款聚合结果，始终由票据推导，不落库
type Summary struct {
	TotalTicketsSold int64 `json:"total_tickets_sold"`
	TotalFundsRaised int64 `json:"total_funds_raised"`
	PercentComplete  int   `json:"percent_complete"`
}

// Aggregate 聚合筹款数据
// 已筹金额 = 票数总和 × 票价，完成进度 = round(已筹 / 目标 × 100)
func Aggregate(cause *model.CauseModel, tickets []model.TicketModel) (Summary, error) {
	var sold int64
	for _, t := range tickets {
		sold += t.Amount
	}

	raised := sold * cause.TicketPrice

	if cause.Goal == 0 {
		return Summary{}, ErrUndefinedProgress
	}

	percent := int(math.Round(float64(raised) / float64(cause.Goal) * 100))

	return Summary{
		TotalTicketsSold: sold,
		TotalFundsRaised: raised,
		PercentComplete:  percent,
	}, nil
}

// Remaining 剩余时间分桶结果
type Remaining struct {
	Finished bool  `json:"finished"`
	Months   int64 `json:"months"`
	Days     int64 `json:"days"`
	Hours    int64 `json:"hours"`
	Minutes  int64 `json:"minutes"`
}

const (
	minute = time.Minute
	hour   = time.Hour
	day    = 24 * time.Hour
	month  = 30 * day // 固定按30天折算，非日历月
)

// TimeRemaining 计算倒计时分桶
// 注意这是面向展示的粗略换算（1月=30天），不是精确的日历计算
func TimeRemaining(deadline, now time.Time) Remaining {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return Remaining{Finished: true}
	}

	return Remaining{
		Months:  int64(diff / month),
		Days:    int64(diff/day) % 30,
		Hours:   int64(diff%day) / int64(hour),
		Minutes: int64(diff%hour) / int64(minute),
	}
}

// String 渲染为展示格式，取最大的两个非零单位，如 "1M 10D"、"5D 13H"
func (r Remaining) String() string {
	if r.Finished {
		return "finished"
	}
	if r.Months > 0 {
		return fmt.Sprintf("%dM %dD", r.Months, r.Days)
	}
	if r.Days > 0 {
		return fmt.Sprintf("%dD %dH", r.Days, r.Hours)
	}
	if r.Hours > 0 {
		return fmt.Sprintf("%dH %dM", r.Hours, r.Minutes)
	}
	return fmt.Sprintf("%dM", r.Minutes)
}
