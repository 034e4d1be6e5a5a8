package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/samm-network/samm-daemon/internal/core/ports"
)

// **** ReserveFetcher ****

type mockReserveFetcher struct {
	mock.Mock
}

func (m *mockReserveFetcher) FetchReserves(
	ctx context.Context, shardId string,
) (*ports.ReserveSnapshot, error) {
	args := m.Called(ctx, shardId)

	var res *ports.ReserveSnapshot
	if a := args.Get(0); a != nil {
		res = a.(*ports.ReserveSnapshot)
	}
	return res, args.Error(1)
}

// **** SwapExecutor ****

type mockSwapExecutor struct {
	mock.Mock
}

func (m *mockSwapExecutor) ExecuteHop(
	ctx context.Context, call ports.HopCall,
) (*ports.HopReceipt, error) {
	args := m.Called(ctx, call)

	var res *ports.HopReceipt
	if a := args.Get(0); a != nil {
		res = a.(*ports.HopReceipt)
	}
	return res, args.Error(1)
}

// **** ReserveFeeder ****

type mockReserveFeeder struct {
	mock.Mock
	feedChan chan ports.ReserveSnapshot
}

func newMockReserveFeeder() *mockReserveFeeder {
	return &mockReserveFeeder{
		feedChan: make(chan ports.ReserveSnapshot, 10),
	}
}

func (m *mockReserveFeeder) SubscribeShards(shardIds []string) error {
	args := m.Called(shardIds)
	return args.Error(0)
}

func (m *mockReserveFeeder) UnSubscribeShards(shardIds []string) error {
	args := m.Called(shardIds)
	return args.Error(0)
}

func (m *mockReserveFeeder) Start() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockReserveFeeder) Stop() {
	m.Called()
}

func (m *mockReserveFeeder) FeedChan() chan ports.ReserveSnapshot {
	return m.feedChan
}
