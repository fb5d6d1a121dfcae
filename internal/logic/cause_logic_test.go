package logic

import (
	"errors"
	"testing"
	"time"

	"github.com/Hossein-79/Fortuna/internal/clock"
	"github.com/Hossein-79/Fortuna/internal/model"
	"github.com/Hossein-79/Fortuna/internal/repository"
	"github.com/Hossein-79/Fortuna/internal/settlement"
	"github.com/Hossein-79/Fortuna/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// MockVerifier 是 settlement.Verifier 的模拟实现
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyTicketPurchase(buyer string, causeId, amount int64, txHash string) error {
	args := m.Called(buyer, causeId, amount, txHash)
	return args.Error(0)
}

func (m *MockVerifier) SignalDistribution(causeId int64, creator string) error {
	args := m.Called(causeId, creator)
	return args.Error(0)
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestLogic(t *testing.T) (*CauseLogic, *store.Store, *MockVerifier) {
	return newTestLogicWithClock(t, clock.FixedClock{Time: testNow})
}

func newTestLogicWithClock(t *testing.T, clk clock.Clock) (*CauseLogic, *store.Store, *MockVerifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	s := store.New(db)
	verifier := new(MockVerifier)
	return NewCauseLogic(s, verifier, clk), s, verifier
}

func openCause(id int64) *model.CauseModel {
	return &model.CauseModel{
		Id:                id,
		Title:             "为山区儿童筹款",
		Goal:              1000,
		TicketPrice:       100,
		CharityPercentage: 90,
		Deadline:          testNow.Add(10 * 24 * time.Hour),
		CreatedBy:         "0xcreator",
	}
}

func expiredCause(id int64) *model.CauseModel {
	c := openCause(id)
	c.Deadline = testNow.Add(-time.Hour)
	return c
}

func TestPurchaseTickets(t *testing.T) {
	l, _, verifier := newTestLogic(t)
	require.NoError(t, l.CreateCause(openCause(1)))

	verifier.On("VerifyTicketPurchase", "0xbuyer", int64(1), int64(3), "0x01").Return(nil)
	detail, err := l.PurchaseTickets(1, "0xbuyer", 3, "0x01")
	require.NoError(t, err)
	assert.Equal(t, int64(3), detail.Summary.TotalTicketsSold)
	assert.Equal(t, int64(300), detail.Summary.TotalFundsRaised)
	assert.Equal(t, 30, detail.Summary.PercentComplete)

	// 每次购票后已筹金额都等于票数总和×票价
	verifier.On("VerifyTicketPurchase", "0xbuyer", int64(1), int64(7), "0x02").Return(nil)
	detail, err = l.PurchaseTickets(1, "0xbuyer", 7, "0x02")
	require.NoError(t, err)
	assert.Equal(t, int64(10), detail.Summary.TotalTicketsSold)
	assert.Equal(t, int64(1000), detail.Summary.TotalFundsRaised)
	assert.Equal(t, 100, detail.Summary.PercentComplete)

	verifier.AssertExpectations(t)
}

func TestPurchaseTicketsNotFound(t *testing.T) {
	l, _, _ := newTestLogic(t)

	_, err := l.PurchaseTickets(404, "0xbuyer", 1, "0x01")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPurchaseTicketsInvalidAmount(t *testing.T) {
	l, _, _ := newTestLogic(t)
	require.NoError(t, l.CreateCause(openCause(1)))
	require.NoError(t, l.CreateCause(expiredCause(2)))

	// 数量非法对任何项目状态都返回 InvalidAmount
	_, err := l.PurchaseTickets(1, "0xbuyer", 0, "0x01")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = l.PurchaseTickets(1, "0xbuyer", -2, "0x01")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = l.PurchaseTickets(2, "0xbuyer", 0, "0x01")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPurchaseTicketsExpired(t *testing.T) {
	l, _, _ := newTestLogic(t)
	require.NoError(t, l.CreateCause(expiredCause(1)))

	_, err := l.PurchaseTickets(1, "0xbuyer", 1, "0x01")
	assert.ErrorIs(t, err, ErrCauseExpired)
}

func TestPurchaseTicketsDeadlineBoundary(t *testing.T) {
	l, _, _ := newTestLogic(t)

	// now == deadline 视为已到期
	c := openCause(1)
	c.Deadline = testNow
	require.NoError(t, l.CreateCause(c))

	_, err := l.PurchaseTickets(1, "0xbuyer", 1, "0x01")
	assert.ErrorIs(t, err, ErrCauseExpired)
}

func TestPurchaseTicketsClosed(t *testing.T) {
	l, s, _ := newTestLogic(t)
	require.NoError(t, l.CreateCause(expiredCause(1)))
	require.NoError(t, s.CloseCause(1))

	_, err := l.PurchaseTickets(1, "0xbuyer", 1, "0x01")
	assert.ErrorIs(t, err, ErrCauseClosed)
}

func TestPurchaseTicketsSettlementMismatch(t *testing.T) {
	l, _, verifier := newTestLogic(t)
	require.NoError(t, l.CreateCause(openCause(1)))

	// 链上转账未确认时上报结算不一致，而不是静默吞掉
	verifier.On("VerifyTicketPurchase", "0xbuyer", int64(1), int64(1), "").
		Return(settlement.ErrTransferNotConfirmed)

	_, err := l.PurchaseTickets(1, "0xbuyer", 1, "")
	assert.ErrorIs(t, err, ErrSettlementMismatch)

	// 账本未被污染
	tickets, err := l.ListCauseTickets(1)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestPurchaseTicketsChainQueryFailure(t *testing.T) {
	l, _, verifier := newTestLogic(t)
	require.NoError(t, l.CreateCause(openCause(1)))

	// RPC查询失败是可重试的基础设施错误，不映射为结算不一致
	rpcErr := errors.New("connection refused")
	verifier.On("VerifyTicketPurchase", "0xbuyer", int64(1), int64(1), "0x01").Return(rpcErr)

	_, err := l.PurchaseTickets(1, "0xbuyer", 1, "0x01")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSettlementMismatch)
}

func TestPurchaseTicketsCauseClosedDuringVerification(t *testing.T) {
	clk := &clock.FixedClock{Time: testNow}
	l, _, verifier := newTestLogicWithClock(t, clk)
	require.NoError(t, l.CreateCause(openCause(1)))

	// 链上校验进行期间截止时间已过且创建者完成了关闭，购票必须被拒绝
	verifier.On("SignalDistribution", int64(1), "0xcreator").Return(nil).Once()
	verifier.On("VerifyTicketPurchase", "0xbuyer", int64(1), int64(3), "0x01").
		Run(func(args mock.Arguments) {
			clk.Time = openCause(1).Deadline.Add(time.Minute)
			require.NoError(t, l.CloseCause(1, "0xcreator"))
		}).Return(nil)

	_, err := l.PurchaseTickets(1, "0xbuyer", 3, "0x01")
	assert.ErrorIs(t, err, ErrCauseClosed)

	tickets, terr := l.ListCauseTickets(1)
	require.NoError(t, terr)
	assert.Empty(t, tickets)
	verifier.AssertNumberOfCalls(t, "SignalDistribution", 1)
}

func TestPurchaseTicketsDeadlinePassedDuringVerification(t *testing.T) {
	clk := &clock.FixedClock{Time: testNow}
	l, _, verifier := newTestLogicWithClock(t, clk)
	require.NoError(t, l.CreateCause(openCause(1)))

	verifier.On("VerifyTicketPurchase", "0xbuyer", int64(1), int64(1), "0x01").
		Run(func(args mock.Arguments) {
			clk.Time = openCause(1).Deadline
		}).Return(nil)

	_, err := l.PurchaseTickets(1, "0xbuyer", 1, "0x01")
	assert.ErrorIs(t, err, ErrCauseExpired)

	tickets, terr := l.ListCauseTickets(1)
	require.NoError(t, terr)
	assert.Empty(t, tickets)
}

func TestCloseCause(t *testing.T) {
	l, _, verifier := newTestLogic(t)
	require.NoError(t, l.CreateCause(expiredCause(1)))

	verifier.On("SignalDistribution", int64(1), "0xcreator").Return(nil).Once()

	assert.NoError(t, l.CloseCause(1, "0xcreator"))

	detail, err := l.GetCauseDetail(1)
	require.NoError(t, err)
	assert.True(t, detail.Cause.Closed)
	assert.Equal(t, model.CauseStatusClosed, detail.Status)

	// 重复关闭失败于 AlreadyClosed，分配信号不会发第二次
	assert.ErrorIs(t, l.CloseCause(1, "0xcreator"), store.ErrAlreadyClosed)
	verifier.AssertNumberOfCalls(t, "SignalDistribution", 1)
}

func TestCloseCauseForbidden(t *testing.T) {
	l, _, _ := newTestLogic(t)
	require.NoError(t, l.CreateCause(expiredCause(1)))

	// 即使项目已到期，非创建者也不能关闭
	assert.ErrorIs(t, l.CloseCause(1, "0xintruder"), ErrForbidden)
}

func TestCloseCauseStillOpen(t *testing.T) {
	l, _, _ := newTestLogic(t)
	require.NoError(t, l.CreateCause(openCause(1)))

	assert.ErrorIs(t, l.CloseCause(1, "0xcreator"), ErrCauseStillOpen)
}

func TestCloseCauseNotFound(t *testing.T) {
	l, _, _ := newTestLogic(t)

	assert.ErrorIs(t, l.CloseCause(404, "0xcreator"), store.ErrNotFound)
}

func TestCloseCauseSignalFailure(t *testing.T) {
	l, _, verifier := newTestLogic(t)
	require.NoError(t, l.CreateCause(expiredCause(1)))

	// 关闭已落库但信号发送失败，上报为结算不一致
	verifier.On("SignalDistribution", int64(1), "0xcreator").Return(errors.New("rpc down"))

	err := l.CloseCause(1, "0xcreator")
	assert.ErrorIs(t, err, ErrSettlementMismatch)

	detail, derr := l.GetCauseDetail(1)
	require.NoError(t, derr)
	assert.True(t, detail.Cause.Closed)
}

func TestGetCauseDetailStatus(t *testing.T) {
	l, _, _ := newTestLogic(t)
	require.NoError(t, l.CreateCause(openCause(1)))
	require.NoError(t, l.CreateCause(expiredCause(2)))

	open, err := l.GetCauseDetail(1)
	require.NoError(t, err)
	assert.Equal(t, model.CauseStatusOpen, open.Status)
	assert.Equal(t, "10D 0H", open.Remaining)

	finished, err := l.GetCauseDetail(2)
	require.NoError(t, err)
	assert.Equal(t, model.CauseStatusFinished, finished.Status)
	assert.Equal(t, "finished", finished.Remaining)
}

func TestListCauseDetails(t *testing.T) {
	l, _, verifier := newTestLogic(t)
	require.NoError(t, l.CreateCause(openCause(1)))

	other := openCause(2)
	other.CreatedBy = "0xother"
	require.NoError(t, l.CreateCause(other))

	verifier.On("VerifyTicketPurchase", "0xbuyer", int64(1), int64(2), "0x01").Return(nil)
	_, err := l.PurchaseTickets(1, "0xbuyer", 2, "0x01")
	require.NoError(t, err)

	all, err := l.ListCauseDetails("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := l.ListCauseDetails("0xother")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(2), mine[0].Cause.Id)
	assert.Equal(t, int64(0), mine[0].Summary.TotalFundsRaised)
}
