package storagedapp

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestNewSimpleStorage(t *testing.T) {
	client, err := NewClient(new(mockProvider))
	require.NoError(t, err)

	t.Run("accepts the SimpleStorage ABI", func(t *testing.T) {
		storage, err := NewSimpleStorage(client.NewContract(MustParseABI(SimpleStorageABI), testContract))
		require.NoError(t, err)
		require.Equal(t, testContract, storage.Contract().Address())
	})

	t.Run("rejects an ABI without set", func(t *testing.T) {
		readOnly := `[{"name":"get","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}]`
		_, err := NewSimpleStorage(client.NewContract(MustParseABI(readOnly), testContract))

		var notFound *MethodNotFoundError
		require.True(t, errors.As(err, &notFound))
		require.Equal(t, SetMethod, notFound.Method)
	})
}

func TestSimpleStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	eth := newFakeEth()
	client := newTestClient(t, eth)
	storage, err := NewSimpleStorage(client.NewContract(MustParseABI(SimpleStorageABI), testContract))
	require.NoError(t, err)

	value, err := storage.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "0", value)

	receipt, err := storage.Set(ctx, big.NewInt(42), testAccount)
	require.NoError(t, err)
	require.True(t, receipt.Successful())

	value, err = storage.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "42", value)
}

func TestSimpleStorageLargeValue(t *testing.T) {
	ctx := context.Background()
	eth := newFakeEth()
	client := newTestClient(t, eth)
	storage, err := NewSimpleStorage(client.NewContract(MustParseABI(SimpleStorageABI), testContract))
	require.NoError(t, err)

	huge, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)
	_, err = storage.Set(ctx, huge, testAccount)
	require.NoError(t, err)

	value, err := storage.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, huge.String(), value)
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"big int", big.NewInt(42), "42"},
		{"string", "hello", "hello"},
		{"stringer", common.HexToAddress("0x01"), common.HexToAddress("0x01").String()},
		{"other", uint8(7), "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatResult(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
