package storagedapp

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Call represents an encoded, not yet executed contract method call.
// Call is immutable.
type Call struct {
	contract *Contract
	method   abi.Method
	args     []any
	data     []byte
}

// newCall creates a Call from a contract, method, and arguments.
// Arguments are converted to the Go types expected by the method's inputs.
func newCall(contract *Contract, method abi.Method, rawArgs []any) (*Call, error) {
	if len(rawArgs) != len(method.Inputs) {
		return nil, &ArgumentError{
			Method: method.Name,
			Index:  len(rawArgs),
			Err:    ErrArgumentCount,
		}
	}

	args := make([]any, len(rawArgs))
	for i, arg := range rawArgs {
		args[i] = convertToABIType(arg, method.Inputs[i].Type)
	}

	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		return nil, &EncodingError{Method: method.Name, Err: err}
	}

	data := make([]byte, 0, len(method.ID)+len(packed))
	data = append(data, method.ID...)
	data = append(data, packed...)

	return &Call{
		contract: contract,
		method:   method,
		args:     args,
		data:     data,
	}, nil
}

// Contract returns the target contract for this call.
func (c *Call) Contract() *Contract {
	return c.contract
}

// Method returns the ABI method for this call.
func (c *Call) Method() abi.Method {
	return c.method
}

// Args returns the converted arguments for this call.
func (c *Call) Args() []any {
	out := make([]any, len(c.args))
	copy(out, c.args)
	return out
}

// Data returns the calldata: the selector followed by the packed arguments.
func (c *Call) Data() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}

// Selector returns the 4-byte function selector.
func (c *Call) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], c.method.ID[:4])
	return sel
}

// IsReadOnly returns true for view and pure methods.
func (c *Call) IsReadOnly() bool {
	return c.method.IsConstant()
}

// HasReturnValue returns true if the method has a return value.
func (c *Call) HasReturnValue() bool {
	return len(c.method.Outputs) > 0
}

// unpack decodes the raw return data of this call.
func (c *Call) unpack(raw []byte) ([]any, error) {
	if !c.HasReturnValue() {
		return nil, nil
	}
	out, err := c.method.Outputs.Unpack(raw)
	if err != nil {
		return nil, &EncodingError{Method: c.method.Name, Err: err}
	}
	return out, nil
}

// convertToABIType handles common Go type conversions for ABI encoding.
// Integer kinds are widened to *big.Int for uint256/int256 parameters.
func convertToABIType(value any, abiType abi.Type) any {
	if abiType.T != abi.UintTy && abiType.T != abi.IntTy {
		return value
	}
	if abiType.Size <= 64 {
		return value
	}
	switch v := value.(type) {
	case int:
		return big.NewInt(int64(v))
	case int64:
		return big.NewInt(v)
	case uint64:
		return new(big.Int).SetUint64(v)
	case int32:
		return big.NewInt(int64(v))
	case uint32:
		return new(big.Int).SetUint64(uint64(v))
	case uint:
		return new(big.Int).SetUint64(uint64(v))
	default:
		return v
	}
}
