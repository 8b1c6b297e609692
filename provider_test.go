package storagedapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequestAccounts(t *testing.T) {
	ctx := context.Background()
	second := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	t.Run("returns authorized accounts in order", func(t *testing.T) {
		p := new(mockProvider)
		p.On("Request", MethodRequestAccounts, mock.Anything).Return(accountsJSON(testAccount, second), nil).Once()

		accounts, err := RequestAccounts(ctx, p)
		require.NoError(t, err)
		require.Equal(t, []common.Address{testAccount, second}, accounts)
		p.AssertExpectations(t)
	})

	t.Run("falls back to eth_accounts", func(t *testing.T) {
		p := new(mockProvider)
		p.On("Request", MethodRequestAccounts, mock.Anything).
			Return(nil, &ProviderError{Code: CodeMethodNotFound, Message: "method not found"}).Once()
		p.On("Request", MethodAccounts, mock.Anything).Return(accountsJSON(second), nil).Once()

		accounts, err := RequestAccounts(ctx, p)
		require.NoError(t, err)
		require.Equal(t, []common.Address{second}, accounts)
		p.AssertExpectations(t)
	})

	t.Run("maps user rejection", func(t *testing.T) {
		p := new(mockProvider)
		p.On("Request", MethodRequestAccounts, mock.Anything).
			Return(nil, &ProviderError{Code: CodeUserRejected, Message: "User rejected the request."}).Once()

		accounts, err := RequestAccounts(ctx, p)
		require.ErrorIs(t, err, ErrUserRejected)
		require.ErrorContains(t, err, "User rejected the request.")
		require.Nil(t, accounts)
	})

	t.Run("wraps other failures", func(t *testing.T) {
		p := new(mockProvider)
		cause := errors.New("connection refused")
		p.On("Request", MethodRequestAccounts, mock.Anything).Return(nil, cause).Once()

		_, err := RequestAccounts(ctx, p)
		require.ErrorIs(t, err, cause)
		require.NotErrorIs(t, err, ErrUserRejected)
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		p := new(mockProvider)
		p.On("Request", MethodRequestAccounts, mock.Anything).Return("[]", nil).Once()

		accounts, err := RequestAccounts(ctx, p)
		require.NoError(t, err)
		require.Empty(t, accounts)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := RequestAccounts(ctx, nil)
		require.ErrorIs(t, err, ErrProviderMissing)
	})
}

func TestRPCProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("requests reach the node", func(t *testing.T) {
		eth := newFakeEth()
		p := newFakeNode(t, eth)

		accounts, err := RequestAccounts(ctx, p)
		require.NoError(t, err)
		require.Equal(t, []common.Address{testAccount}, accounts)
		require.Equal(t, []string{MethodRequestAccounts}, eth.Methods())
	})

	t.Run("user rejection keeps its code over the wire", func(t *testing.T) {
		eth := newFakeEth()
		eth.rejectAccounts = true
		p := newFakeNode(t, eth)

		_, err := RequestAccounts(ctx, p)
		require.ErrorIs(t, err, ErrUserRejected)
	})

	t.Run("emits connect and disconnect", func(t *testing.T) {
		p := newFakeNode(t, newFakeEth())
		events := make(chan ProviderEvent, 4)
		sub := p.SubscribeEvents(events)
		defer sub.Unsubscribe()

		require.False(t, p.IsConnected())
		_, err := RequestAccounts(ctx, p)
		require.NoError(t, err)
		require.True(t, p.IsConnected())
		require.Equal(t, EventConnect, receiveEvent(t, events).Name)

		// A second success does not emit again.
		_, err = RequestAccounts(ctx, p)
		require.NoError(t, err)

		p.Close()
		require.False(t, p.IsConnected())
		require.Equal(t, EventDisconnect, receiveEvent(t, events).Name)
		require.Empty(t, events)

		// Close is idempotent.
		p.Close()
		require.Empty(t, events)
	})

	t.Run("json-rpc errors do not disconnect", func(t *testing.T) {
		eth := newFakeEth()
		eth.rejectAccounts = true
		p := newFakeNode(t, eth)

		_, err := RequestAccounts(ctx, p)
		require.Error(t, err)
		require.True(t, p.IsConnected())
	})
}

func receiveEvent(t *testing.T, ch <-chan ProviderEvent) ProviderEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for provider event")
		return ProviderEvent{}
	}
}
