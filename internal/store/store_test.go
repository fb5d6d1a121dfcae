package store

import (
	"testing"
	"time"

	"github.com/Hossein-79/Fortuna/internal/model"
	"github.com/Hossein-79/Fortuna/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	return New(db)
}

func validCause(id int64) *model.CauseModel {
	return &model.CauseModel{
		Id:                id,
		Title:             "为流浪动物筹款",
		Description:       "帮助本地救助站过冬",
		Goal:              1000,
		TicketPrice:       100,
		CharityPercentage: 80,
		Deadline:          time.Now().Add(30 * 24 * time.Hour),
		CreatedBy:         "0xabc",
	}
}

func TestCreateCause(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateCause(validCause(1))
	assert.NoError(t, err)

	got, err := s.GetCause(1)
	assert.NoError(t, err)
	assert.Equal(t, "为流浪动物筹款", got.Title)
	assert.False(t, got.Closed)
}

func TestCreateCauseDuplicateId(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateCause(validCause(1)))

	err := s.CreateCause(validCause(1))
	assert.ErrorIs(t, err, ErrDuplicateId)
}

func TestCreateCauseValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name   string
		mutate func(*model.CauseModel)
	}{
		{"ID为0", func(c *model.CauseModel) { c.Id = 0 }},
		{"标题太短", func(c *model.CauseModel) { c.Title = "短" }},
		{"标题太长", func(c *model.CauseModel) {
			long := make([]rune, 51)
			for i := range long {
				long[i] = '长'
			}
			c.Title = string(long)
		}},
		{"目标金额为0", func(c *model.CauseModel) { c.Goal = 0 }},
		{"目标金额为负", func(c *model.CauseModel) { c.Goal = -5 }},
		{"票价为负", func(c *model.CauseModel) { c.TicketPrice = -1 }},
		{"公益比例超过100", func(c *model.CauseModel) { c.CharityPercentage = 101 }},
		{"公益比例为负", func(c *model.CauseModel) { c.CharityPercentage = -1 }},
		{"创建者为空", func(c *model.CauseModel) { c.CreatedBy = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := validCause(99)
			tt.mutate(cause)
			assert.ErrorIs(t, s.CreateCause(cause), ErrInvalidField)
		})
	}
}

func TestGetCauseNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCause(404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCausesFilterByCreator(t *testing.T) {
	s := newTestStore(t)

	a := validCause(1)
	b := validCause(2)
	b.CreatedBy = "0xdef"
	require.NoError(t, s.CreateCause(a))
	require.NoError(t, s.CreateCause(b))

	all, err := s.ListCauses("")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.ListCauses("0xdef")
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, int64(2), mine[0].Id)
}

func TestAppendTicketIfOpen(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCause(validCause(1)))

	err := s.AppendTicketIfOpen(&model.TicketModel{CauseId: 1, User: "0xbuyer", Amount: 3, TxHash: "0x01"}, time.Now())
	assert.NoError(t, err)

	tickets, err := s.ListTicketsForCause(1)
	assert.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Equal(t, int64(3), tickets[0].Amount)
}

func TestAppendTicketIfOpenUnknownCause(t *testing.T) {
	s := newTestStore(t)

	err := s.AppendTicketIfOpen(&model.TicketModel{CauseId: 404, User: "0xbuyer", Amount: 1, TxHash: "0x01"}, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendTicketIfOpenClosedCause(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCause(validCause(1)))
	require.NoError(t, s.CloseCause(1))

	err := s.AppendTicketIfOpen(&model.TicketModel{CauseId: 1, User: "0xbuyer", Amount: 1, TxHash: "0x01"}, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	tickets, lerr := s.ListTicketsForCause(1)
	require.NoError(t, lerr)
	assert.Empty(t, tickets)
}

func TestAppendTicketIfOpenDeadlinePassed(t *testing.T) {
	s := newTestStore(t)
	cause := validCause(1)
	require.NoError(t, s.CreateCause(cause))

	// now == deadline 同样拒绝
	err := s.AppendTicketIfOpen(&model.TicketModel{CauseId: 1, User: "0xbuyer", Amount: 1, TxHash: "0x01"}, cause.Deadline)
	assert.ErrorIs(t, err, ErrDeadlinePassed)

	err = s.AppendTicketIfOpen(&model.TicketModel{CauseId: 1, User: "0xbuyer", Amount: 1, TxHash: "0x02"}, cause.Deadline.Add(time.Hour))
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestListTicketsForUser(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCause(validCause(1)))
	require.NoError(t, s.CreateCause(validCause(2)))

	require.NoError(t, s.AppendTicketIfOpen(&model.TicketModel{CauseId: 1, User: "0xa", Amount: 1, TxHash: "0x01"}, time.Now()))
	require.NoError(t, s.AppendTicketIfOpen(&model.TicketModel{CauseId: 2, User: "0xa", Amount: 2, TxHash: "0x02"}, time.Now()))
	require.NoError(t, s.AppendTicketIfOpen(&model.TicketModel{CauseId: 1, User: "0xb", Amount: 5, TxHash: "0x03"}, time.Now()))

	tickets, err := s.ListTicketsForUser("0xa")
	assert.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestGetCauseWithTicketsSnapshot(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCause(validCause(1)))
	require.NoError(t, s.AppendTicketIfOpen(&model.TicketModel{CauseId: 1, User: "0xa", Amount: 4, TxHash: "0x01"}, time.Now()))

	cause, tickets, err := s.GetCauseWithTickets(1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), cause.Id)
	assert.Len(t, tickets, 1)

	_, _, err = s.GetCauseWithTickets(404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseCause(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCause(validCause(1)))

	assert.NoError(t, s.CloseCause(1))

	got, err := s.GetCause(1)
	require.NoError(t, err)
	assert.True(t, got.Closed)

	// 重复关闭是显式失败，不是静默成功
	assert.ErrorIs(t, s.CloseCause(1), ErrAlreadyClosed)
	assert.ErrorIs(t, s.CloseCause(404), ErrNotFound)
}

func TestUpsertUser(t *testing.T) {
	s := newTestStore(t)

	user := &model.UserModel{WalletAddress: "0xa", Name: "Ada", Bio: "hi"}
	require.NoError(t, s.UpsertUser(user))

	// 同一钱包地址再次写入是更新而非新建
	require.NoError(t, s.UpsertUser(&model.UserModel{WalletAddress: "0xa", Name: "Ada Lovelace"}))

	got, err := s.GetUserByWallet("0xa")
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)

	_, err = s.GetUserByWallet("0xmissing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.UpsertUser(&model.UserModel{}), ErrInvalidField)
}
