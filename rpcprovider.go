package storagedapp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCProvider is a Provider backed by an Ethereum JSON-RPC endpoint.
// Accounts and signing are delegated to the node.
type RPCProvider struct {
	client *rpc.Client
	log    log.Logger

	feed      event.Feed
	connected atomic.Bool
	closeOnce sync.Once
}

var _ Provider = (*RPCProvider)(nil)

// ProviderOption configures an RPCProvider.
type ProviderOption func(*RPCProvider)

// WithProviderLogger sets the logger used by the provider.
func WithProviderLogger(logger log.Logger) ProviderOption {
	return func(p *RPCProvider) {
		p.log = logger
	}
}

// DialProvider connects to the JSON-RPC endpoint at url.
// HTTP endpoints are not contacted until the first request.
func DialProvider(ctx context.Context, url string, opts ...ProviderOption) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial provider %s: %w", url, err)
	}
	return NewRPCProvider(client, opts...), nil
}

// NewRPCProvider wraps an existing rpc.Client.
func NewRPCProvider(client *rpc.Client, opts ...ProviderOption) *RPCProvider {
	p := &RPCProvider{
		client: client,
		log:    log.Root(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request implements Provider.
func (p *RPCProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	err := p.client.CallContext(ctx, result, method, params...)
	p.observe(err)
	return err
}

// IsConnected implements Provider.
func (p *RPCProvider) IsConnected() bool {
	return p.connected.Load()
}

// SubscribeEvents implements Provider.
// Subscribers must keep draining ch, sends block until every subscriber received the event.
func (p *RPCProvider) SubscribeEvents(ch chan<- ProviderEvent) event.Subscription {
	return p.feed.Subscribe(ch)
}

// Close disconnects from the endpoint.
func (p *RPCProvider) Close() {
	p.closeOnce.Do(func() {
		p.client.Close()
		if p.connected.Swap(false) {
			p.log.Info("Provider closed")
			p.feed.Send(ProviderEvent{Name: EventDisconnect})
		}
	})
}

// observe tracks the connection state from the outcome of a request.
// JSON-RPC errors prove the endpoint is reachable; transport errors do not.
func (p *RPCProvider) observe(err error) {
	if err == nil || errorCode(err) != 0 {
		if !p.connected.Swap(true) {
			p.log.Debug("Provider connected")
			p.feed.Send(ProviderEvent{Name: EventConnect})
		}
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if p.connected.Swap(false) {
		p.log.Warn("Provider disconnected", "err", err)
		p.feed.Send(ProviderEvent{Name: EventDisconnect, Data: err})
	}
}
