package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/samm-network/samm-daemon/internal/core/domain"
)

const tokenAddr3 = "0xcccccccccccccccccccccccccccccccccccccccc"

func newTestTokens(t *testing.T) (domain.Token, domain.Token, domain.Token) {
	t.Helper()
	a, err := domain.NewToken("1", tokenAddr1, 6)
	require.NoError(t, err)
	b, err := domain.NewToken("1", tokenAddr2, 8)
	require.NoError(t, err)
	c, err := domain.NewToken("1", tokenAddr3, 6)
	require.NoError(t, err)
	return a, b, c
}

func TestNewPath(t *testing.T) {
	a, b, c := newTestTokens(t)

	hops := []domain.Hop{
		{
			ShardId: "shard-1", TokenIn: a, TokenOut: b,
			ExpectedAmountIn: 1050, ExpectedAmountOut: 1000,
			EstimatedFee: 12, PriceImpact: decimal.NewFromFloat(0.001),
		},
		{
			ShardId: "shard-2", TokenIn: b, TokenOut: c,
			ExpectedAmountIn: 1000, ExpectedAmountOut: 950,
			EstimatedFee: 10, PriceImpact: decimal.NewFromFloat(0.002),
		},
	}

	path, err := domain.NewPath(hops)
	require.NoError(t, err)
	require.NotNil(t, path)
	require.Equal(t, 2, path.HopCount())
	require.Equal(t, uint64(1050), path.TotalAmountIn)
	require.Equal(t, uint64(950), path.FinalAmountOut)
	require.Equal(t, uint64(22), path.TotalFees)
	require.True(t, path.TokenIn().Equals(a))
	require.True(t, path.TokenOut().Equals(c))
	require.Equal(t, "0.003", path.TotalPriceImpact().String())
	require.Equal(t, 0, path.Hops[0].HopIndex)
	require.Equal(t, 1, path.Hops[1].HopIndex)
	require.NoError(t, path.Validate())
}

func TestFailingNewPath(t *testing.T) {
	a, b, c := newTestTokens(t)

	tests := []struct {
		name          string
		hops          []domain.Hop
		expectedError error
	}{
		{
			"empty_path",
			nil,
			domain.ErrPathEmpty,
		},
		{
			"disconnected_hops",
			[]domain.Hop{
				{ShardId: "shard-1", TokenIn: a, TokenOut: b},
				{ShardId: "shard-2", TokenIn: a, TokenOut: c},
			},
			domain.ErrPathDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewPath(tt.hops)
			require.EqualError(t, err, tt.expectedError.Error())
		})
	}
}
