package storagedapp

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SimpleStorageABI is the interface description of the SimpleStorage contract.
const SimpleStorageABI = `[
	{
		"name": "get",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{"name": "", "type": "uint256"}
		]
	},
	{
		"name": "set",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "x", "type": "uint256"}
		],
		"outputs": []
	}
]`

// Method names of the SimpleStorage contract.
const (
	GetMethod = "get"
	SetMethod = "set"
)

// StorageContract is the contract proxy used by a Workflow.
type StorageContract interface {
	// Get reads the stored value.
	Get(ctx context.Context) (string, error)

	// Set stores value, sent from the given account.
	Set(ctx context.Context, value *big.Int, from common.Address) (*TxResult, error)
}

// SimpleStorage is the typed proxy for a deployed SimpleStorage contract.
type SimpleStorage struct {
	contract *Contract
}

var _ StorageContract = (*SimpleStorage)(nil)

// NewSimpleStorage wraps a bound contract, checking that its ABI has the
// get and set methods.
func NewSimpleStorage(contract *Contract) (*SimpleStorage, error) {
	for _, name := range []string{GetMethod, SetMethod} {
		if !contract.HasMethod(name) {
			return nil, &MethodNotFoundError{Contract: contract.Address(), Method: name}
		}
	}
	return &SimpleStorage{contract: contract}, nil
}

// Contract returns the underlying bound contract.
func (s *SimpleStorage) Contract() *Contract {
	return s.contract
}

// Get calls get() and returns the stored value as a base-10 string.
func (s *SimpleStorage) Get(ctx context.Context) (string, error) {
	out, err := s.contract.Call(ctx, GetMethod)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", ErrEmptyResult
	}
	return formatResult(out[0]), nil
}

// Set sends set(value) from the given account.
func (s *SimpleStorage) Set(ctx context.Context, value *big.Int, from common.Address) (*TxResult, error) {
	return s.contract.Transact(ctx, from, SetMethod, value)
}

// formatResult renders a decoded return value the way it is displayed.
func formatResult(v any) string {
	switch r := v.(type) {
	case *big.Int:
		return r.String()
	case string:
		return r
	case fmt.Stringer:
		return r.String()
	default:
		return fmt.Sprint(r)
	}
}
