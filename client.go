package storagedapp

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// DefaultReceiptPollInterval is the default delay between receipt lookups.
const DefaultReceiptPollInterval = time.Second

// Client binds a Provider to the chain operations used by contracts.
type Client struct {
	provider Provider
	log      log.Logger

	pollInterval time.Duration
	waitReceipts bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger used by the client.
func WithClientLogger(logger log.Logger) ClientOption {
	return func(c *Client) {
		c.log = logger
	}
}

// WithReceiptPolling sets the delay between receipt lookups.
// Non-positive intervals are ignored.
func WithReceiptPolling(interval time.Duration) ClientOption {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithoutReceiptWait makes transactions return as soon as the provider
// accepted them, without waiting for inclusion.
func WithoutReceiptWait() ClientOption {
	return func(c *Client) {
		c.waitReceipts = false
	}
}

// NewClient creates a Client bound to provider.
func NewClient(provider Provider, opts ...ClientOption) (*Client, error) {
	if provider == nil {
		return nil, ErrProviderMissing
	}
	c := &Client{
		provider:     provider,
		log:          log.Root(),
		pollInterval: DefaultReceiptPollInterval,
		waitReceipts: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// RequestAccounts asks the provider to authorize accounts.
func (c *Client) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return RequestAccounts(ctx, c.provider)
}

// ChainID returns the chain ID reported by the provider.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.provider.Request(ctx, &id, MethodChainID); err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	return id.ToInt(), nil
}

// callArgs is the transaction object of eth_call and eth_sendTransaction.
type callArgs struct {
	From *common.Address `json:"from,omitempty"`
	To   common.Address  `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

// Call executes a read-only call against the latest block.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.provider.Request(ctx, &out, MethodCall, callArgs{To: to, Data: data}, "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// SendTransaction asks the provider to sign and submit a transaction from
// the given account. Gas and nonce are left to the provider.
func (c *Client) SendTransaction(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.provider.Request(ctx, &hash, MethodSendTransaction, callArgs{From: &from, To: to, Data: data}); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// TxResult is the outcome of a submitted transaction.
type TxResult struct {
	TxHash      common.Hash    `json:"transactionHash"`
	BlockHash   common.Hash    `json:"blockHash"`
	BlockNumber *hexutil.Big   `json:"blockNumber"`
	GasUsed     hexutil.Uint64 `json:"gasUsed"`
	Status      hexutil.Uint64 `json:"status"`
}

// Mined reports whether the result carries inclusion data.
func (r *TxResult) Mined() bool {
	return r.BlockNumber != nil
}

// Successful reports whether the transaction was mined and did not revert.
func (r *TxResult) Successful() bool {
	return r.Mined() && uint64(r.Status) == types.ReceiptStatusSuccessful
}

// TransactionReceipt returns the receipt of a transaction, or nil while it is pending.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*TxResult, error) {
	var receipt *TxResult
	if err := c.provider.Request(ctx, &receipt, MethodGetTransactionReceipt, hash); err != nil {
		return nil, err
	}
	return receipt, nil
}

// WaitReceipt polls for the receipt of a transaction until it is available
// or ctx is done.
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash) (*TxResult, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	logger := c.log.New("tx", hash)
	for {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}
		logger.Trace("Transaction not yet mined")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// NewContract binds contractABI at address to this client.
func (c *Client) NewContract(contractABI abi.ABI, address common.Address) *Contract {
	return &Contract{
		address: address,
		abi:     contractABI,
		client:  c,
	}
}
