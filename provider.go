package storagedapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC methods used by the workflow.
const (
	MethodRequestAccounts       = "eth_requestAccounts"
	MethodAccounts              = "eth_accounts"
	MethodChainID               = "eth_chainId"
	MethodCall                  = "eth_call"
	MethodSendTransaction       = "eth_sendTransaction"
	MethodGetTransactionReceipt = "eth_getTransactionReceipt"
)

// Provider event names.
const (
	EventConnect         = "connect"
	EventDisconnect      = "disconnect"
	EventAccountsChanged = "accountsChanged"
)

// ProviderEvent is a connection-change notification emitted by a Provider.
type ProviderEvent struct {
	Name string
	Data any
}

// Provider is an EIP-1193 style wallet provider.
type Provider interface {
	// Request sends a JSON-RPC request and decodes the result into result.
	// A nil result discards the response.
	Request(ctx context.Context, result any, method string, params ...any) error

	// IsConnected reports whether the provider can currently serve requests.
	IsConnected() bool

	// SubscribeEvents delivers provider events to ch until the subscription
	// is cancelled.
	SubscribeEvents(ch chan<- ProviderEvent) event.Subscription
}

// RequestAccounts asks the provider to authorize accounts.
//
// Providers that do not implement eth_requestAccounts are asked for
// eth_accounts instead. A user rejection is reported as ErrUserRejected.
func RequestAccounts(ctx context.Context, p Provider) ([]common.Address, error) {
	if p == nil {
		return nil, ErrProviderMissing
	}
	var accounts []common.Address
	err := p.Request(ctx, &accounts, MethodRequestAccounts)
	if errorCode(err) == CodeMethodNotFound {
		accounts = nil
		err = p.Request(ctx, &accounts, MethodAccounts)
	}
	if err != nil {
		if errorCode(err) == CodeUserRejected {
			return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return nil, fmt.Errorf("request accounts: %w", err)
	}
	return accounts, nil
}

// errorCode returns the JSON-RPC error code carried by err, or 0.
func errorCode(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}
