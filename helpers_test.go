package storagedapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testAccount  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

func testLogger() log.Logger {
	return log.NewLogger(log.DiscardHandler())
}

// mockProvider is a testify mock of Provider. Results are returned as JSON
// strings and decoded into the caller's result.
type mockProvider struct {
	mock.Mock
}

var _ Provider = (*mockProvider)(nil)

func (m *mockProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	args := m.Called(method, params)
	if raw, ok := args.Get(0).(string); ok && result != nil {
		if err := json.Unmarshal([]byte(raw), result); err != nil {
			return err
		}
	}
	return args.Error(1)
}

func (m *mockProvider) IsConnected() bool {
	return true
}

func (m *mockProvider) SubscribeEvents(ch chan<- ProviderEvent) event.Subscription {
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		return nil
	})
}

// TxArgs mirrors the transaction object sent by Client.
type TxArgs struct {
	From *common.Address `json:"from"`
	To   common.Address  `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

// fakeEth is an in-process "eth" namespace serving a SimpleStorage contract.
type fakeEth struct {
	mu sync.Mutex

	abi      abi.ABI
	accounts []common.Address
	chainID  *big.Int
	value    *big.Int

	rejectAccounts bool
	revert         bool
	callErr        error
	pendingPolls   int

	nonce    uint64
	receipts map[common.Hash]*TxResult
	polls    map[common.Hash]int
	methods  []string
}

func newFakeEth() *fakeEth {
	return &fakeEth{
		abi:      MustParseABI(SimpleStorageABI),
		accounts: []common.Address{testAccount},
		chainID:  big.NewInt(31337),
		value:    new(big.Int),
		receipts: make(map[common.Hash]*TxResult),
		polls:    make(map[common.Hash]int),
	}
}

func (f *fakeEth) record(method string) {
	f.methods = append(f.methods, method)
}

func (f *fakeEth) RequestAccounts() ([]common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(MethodRequestAccounts)
	if f.rejectAccounts {
		return nil, &ProviderError{Code: CodeUserRejected, Message: "User rejected the request."}
	}
	return f.accounts, nil
}

func (f *fakeEth) Accounts() []common.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(MethodAccounts)
	return f.accounts
}

func (f *fakeEth) ChainId() *hexutil.Big {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(MethodChainID)
	return (*hexutil.Big)(f.chainID)
}

func (f *fakeEth) Call(args TxArgs, block string) (hexutil.Bytes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(MethodCall)
	if f.callErr != nil {
		return nil, f.callErr
	}
	if args.To != testContract {
		return nil, nil
	}
	method, err := f.abi.MethodById(args.Data)
	if err != nil {
		return nil, err
	}
	if method.Name != GetMethod {
		return nil, fmt.Errorf("unexpected call to %s", method.Name)
	}
	return method.Outputs.Pack(f.value)
}

func (f *fakeEth) SendTransaction(args TxArgs) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(MethodSendTransaction)
	if args.From == nil || *args.From != testAccount {
		return common.Hash{}, &ProviderError{Code: CodeUnauthorized, Message: "unknown account"}
	}
	method, err := f.abi.MethodById(args.Data)
	if err != nil {
		return common.Hash{}, err
	}
	in, err := method.Inputs.Unpack(args.Data[4:])
	if err != nil {
		return common.Hash{}, err
	}

	f.nonce++
	hash := crypto.Keccak256Hash(args.Data, new(big.Int).SetUint64(f.nonce).Bytes())
	status := hexutil.Uint64(1)
	if f.revert {
		status = 0
	} else {
		f.value = in[0].(*big.Int)
	}
	f.receipts[hash] = &TxResult{
		TxHash:      hash,
		BlockHash:   crypto.Keccak256Hash(hash[:]),
		BlockNumber: (*hexutil.Big)(new(big.Int).SetUint64(f.nonce)),
		GasUsed:     21000,
		Status:      status,
	}
	return hash, nil
}

func (f *fakeEth) GetTransactionReceipt(hash common.Hash) (*TxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(MethodGetTransactionReceipt)
	if f.polls[hash] < f.pendingPolls {
		f.polls[hash]++
		return nil, nil
	}
	return f.receipts[hash], nil
}

func (f *fakeEth) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.methods))
	copy(out, f.methods)
	return out
}

// newFakeNode serves eth in-process and returns a provider connected to it.
func newFakeNode(t *testing.T, eth *fakeEth) *RPCProvider {
	t.Helper()
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", eth))
	t.Cleanup(srv.Stop)

	p := NewRPCProvider(rpc.DialInProc(srv), WithProviderLogger(testLogger()))
	t.Cleanup(p.Close)
	return p
}

// fakeStorage is an in-memory StorageContract.
type fakeStorage struct {
	mu sync.Mutex

	value  string
	getErr error
	setErr error

	events []string
}

var _ StorageContract = (*fakeStorage)(nil)

func (f *fakeStorage) Get(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "get")
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.value, nil
}

func (f *fakeStorage) Set(ctx context.Context, value *big.Int, from common.Address) (*TxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "set:"+value.String()+":"+from.Hex())
	if f.setErr != nil {
		return nil, f.setErr
	}
	f.value = value.String()
	return &TxResult{TxHash: common.HexToHash("0x01"), BlockNumber: (*hexutil.Big)(big.NewInt(1)), Status: 1}, nil
}

func (f *fakeStorage) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	copy(out, f.events)
	return out
}

func bindFake(storage StorageContract) ContractBinder {
	return func(*Client, abi.ABI, common.Address) (StorageContract, error) {
		return storage, nil
	}
}

// recorder collects notifications.
type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notes))
	copy(out, r.notes)
	return out
}

func accountsJSON(addrs ...common.Address) string {
	raw, err := json.Marshal(addrs)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

var errTimeout = errors.New("timeout")
