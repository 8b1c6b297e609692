package storagedapp

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// errPrefix starts every sentinel message.
const errPrefix = "storagedapp: "

// Sentinel errors for common failure conditions.
var (
	// ErrProviderMissing indicates no wallet provider is available.
	ErrProviderMissing = errors.New("storagedapp: wallet provider not found")

	// ErrUserRejected indicates the user declined an authorization request.
	ErrUserRejected = errors.New("storagedapp: request rejected by user")

	// ErrNoAccounts indicates the provider granted an empty account list.
	ErrNoAccounts = errors.New("storagedapp: no accounts authorized")

	// ErrNotConnected indicates an operation was attempted before a connection was established.
	ErrNotConnected = errors.New("storagedapp: not connected")

	// ErrWriteSkipped indicates a write was not attempted because its preconditions were not met.
	ErrWriteSkipped = errors.New("storagedapp: write skipped")

	// ErrEmptyInput indicates no value was entered.
	ErrEmptyInput = errors.New("storagedapp: empty input")

	// ErrInvalidNumber indicates the input is not a base-10 integer.
	ErrInvalidNumber = errors.New("storagedapp: not a base-10 integer")

	// ErrNegativeValue indicates a negative value for an unsigned parameter.
	ErrNegativeValue = errors.New("storagedapp: value must not be negative")

	// ErrValueOverflow indicates the value does not fit in 256 bits.
	ErrValueOverflow = errors.New("storagedapp: value exceeds 256 bits")

	// ErrArgumentCount indicates a method was invoked with the wrong number of arguments.
	ErrArgumentCount = errors.New("storagedapp: wrong number of arguments")

	// ErrReadOnlyMethod indicates a transaction was requested for a view or pure method.
	ErrReadOnlyMethod = errors.New("storagedapp: method is read-only")

	// ErrEmptyResult indicates a call returned no values.
	ErrEmptyResult = errors.New("storagedapp: call returned no values")

	// ErrTxReverted indicates the transaction was mined but reverted.
	ErrTxReverted = errors.New("storagedapp: transaction reverted")
)

// EIP-1193 and JSON-RPC error codes returned by providers.
const (
	CodeUserRejected   = 4001
	CodeUnauthorized   = 4100
	CodeDisconnected   = 4900
	CodeMethodNotFound = -32601
)

// ProviderError is an error reported by a provider with an EIP-1193 code.
// It satisfies the go-ethereum rpc.Error interface.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("storagedapp: provider error %d: %s", e.Code, e.Message)
}

// ErrorCode returns the EIP-1193 or JSON-RPC error code.
func (e *ProviderError) ErrorCode() int {
	return e.Code
}

// MethodNotFoundError indicates the contract doesn't have the requested method.
type MethodNotFoundError struct {
	Contract common.Address
	Method   string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("storagedapp: method %q not found in contract %s", e.Method, e.Contract.Hex())
}

// ArgumentError indicates an issue with a method argument.
type ArgumentError struct {
	Method string
	Index  int
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("storagedapp: argument %d for method %q: %v", e.Index, e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// EncodingError indicates a failure while packing or unpacking ABI data.
type EncodingError struct {
	Method string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("storagedapp: encoding error for method %q: %v", e.Method, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// InputError indicates the pending input could not be turned into a contract value.
type InputError struct {
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("storagedapp: invalid input %q: %v", e.Input, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// OperationError wraps a failed remote operation.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("storagedapp: %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
