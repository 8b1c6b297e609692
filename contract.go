package storagedapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract is a deployed contract bound to a Client.
type Contract struct {
	address common.Address
	abi     abi.ABI
	client  *Client
}

// Address returns the contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// ABI returns the contract ABI.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Invoke creates a Call for the named method with the given arguments.
func (c *Contract) Invoke(methodName string, args ...any) (*Call, error) {
	method, ok := c.abi.Methods[methodName]
	if !ok {
		return nil, &MethodNotFoundError{Contract: c.address, Method: methodName}
	}

	return newCall(c, method, args)
}

// MustInvoke is like Invoke but panics on error.
func (c *Contract) MustInvoke(methodName string, args ...any) *Call {
	call, err := c.Invoke(methodName, args...)
	if err != nil {
		panic(err)
	}
	return call
}

// HasMethod returns true if the contract has a method with the given name.
func (c *Contract) HasMethod(methodName string) bool {
	_, ok := c.abi.Methods[methodName]
	return ok
}

// MethodNames returns all method names in the contract ABI.
func (c *Contract) MethodNames() []string {
	names := make([]string, 0, len(c.abi.Methods))
	for name := range c.abi.Methods {
		names = append(names, name)
	}
	return names
}

// Call invokes a method with eth_call and returns its decoded outputs.
func (c *Contract) Call(ctx context.Context, methodName string, args ...any) ([]any, error) {
	call, err := c.Invoke(methodName, args...)
	if err != nil {
		return nil, err
	}
	raw, err := c.client.Call(ctx, c.address, call.Data())
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", methodName, err)
	}
	return call.unpack(raw)
}

// Transact sends a transaction invoking a state-changing method from the
// given account. Unless the client was created WithoutReceiptWait, it waits
// for the receipt and reports a reverted transaction as ErrTxReverted.
func (c *Contract) Transact(ctx context.Context, from common.Address, methodName string, args ...any) (*TxResult, error) {
	call, err := c.Invoke(methodName, args...)
	if err != nil {
		return nil, err
	}
	if call.IsReadOnly() {
		return nil, &ArgumentError{Method: methodName, Index: -1, Err: ErrReadOnlyMethod}
	}

	hash, err := c.client.SendTransaction(ctx, from, c.address, call.Data())
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", methodName, err)
	}
	logger := c.client.log.New("method", methodName, "tx", hash, "from", from)
	logger.Debug("Transaction submitted")

	if !c.client.waitReceipts {
		return &TxResult{TxHash: hash}, nil
	}
	receipt, err := c.client.WaitReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("wait for %s receipt: %w", methodName, err)
	}
	if !receipt.Successful() {
		logger.Warn("Transaction reverted", "block", receipt.BlockNumber)
		return receipt, fmt.Errorf("%w: %s", ErrTxReverted, hash.Hex())
	}
	logger.Debug("Transaction mined", "block", receipt.BlockNumber, "gas", uint64(receipt.GasUsed))
	return receipt, nil
}

// ParseABI parses a JSON ABI string into an abi.ABI.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}
