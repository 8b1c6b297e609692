package storagedapp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Operation names used for metrics and errors.
const (
	OpConnect = "connect"
	OpGet     = "get"
	OpSet     = "set"
)

// Notification descriptions.
const (
	descWalletRequired = "Please install a wallet to use this DApp."
	descNoAccounts     = "The wallet did not grant access to any account."
	descConnectFailed  = "Failed to connect to the wallet. Please make sure it is running and unlocked."
	descSetSuccess     = "Value successfully updated!"

	unknownError = "Unknown error"
)

// Workflow connects to a wallet provider and drives the read and write
// operations of a SimpleStorage contract.
//
// A Workflow is safe for concurrent use. Operation flags are tracked but not
// enforced: an operation may be started again while it is already running.
type Workflow struct {
	provider   Provider
	address    common.Address
	abi        abi.ABI
	bind       ContractBinder
	clientOpts []ClientOption

	notifier Notifier
	metrics  Metricer
	log      log.Logger

	initOnce sync.Once
	initErr  error

	mu        sync.Mutex
	state     ConnState
	err       error
	client    *Client
	account   common.Address
	contract  StorageContract
	input     string
	lastValue string
	reading   bool
	writing   bool
}

// NewWorkflow creates a Workflow for the contract deployed at address.
// A nil provider is valid and makes Init report ErrProviderMissing.
func NewWorkflow(provider Provider, address common.Address, opts ...Option) *Workflow {
	w := &Workflow{
		provider: provider,
		address:  address,
		abi:      MustParseABI(SimpleStorageABI),
		bind:     BindSimpleStorage,
		metrics:  noopMetrics{},
		log:      log.Root(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.notifier == nil {
		w.notifier = NewLogNotifier(w.log)
	}
	w.log = w.log.New("contract", address)
	return w
}

// Init detects the provider, authorizes an account and binds the contract.
// It runs once; later calls return the result of the first one.
func (w *Workflow) Init(ctx context.Context) error {
	w.initOnce.Do(func() {
		w.initErr = w.connect(ctx)
	})
	return w.initErr
}

func (w *Workflow) connect(ctx context.Context) (result error) {
	if w.provider == nil {
		w.log.Warn("No wallet provider available")
		w.transition(StateProviderMissing, ErrProviderMissing)
		w.notify(TitleWalletRequired, descWalletRequired, VariantDestructive)
		return ErrProviderMissing
	}

	w.transition(StateConnecting, nil)
	onDone := w.metrics.RecordOperation(OpConnect)
	defer func() {
		onDone(result)
	}()

	client, err := NewClient(w.provider, append([]ClientOption{WithClientLogger(w.log)}, w.clientOpts...)...)
	if err != nil {
		return w.fail(err)
	}
	w.mu.Lock()
	w.client = client
	w.mu.Unlock()

	accounts, err := client.RequestAccounts(ctx)
	if err != nil {
		return w.fail(err)
	}
	if len(accounts) == 0 {
		w.log.Warn("Wallet granted no accounts")
		w.transition(StateNoAccounts, ErrNoAccounts)
		w.notify(TitleNoAccounts, descNoAccounts, VariantDestructive)
		return ErrNoAccounts
	}
	account := accounts[0]

	contract, err := w.bind(client, w.abi, w.address)
	if err != nil {
		return w.fail(err)
	}

	w.mu.Lock()
	w.account = account
	w.contract = contract
	w.mu.Unlock()
	w.transition(StateConnected, nil)
	w.log.Info("Connected to wallet", "account", account, "accounts", len(accounts))
	return nil
}

// fail records an initialization failure and notifies the user.
func (w *Workflow) fail(err error) error {
	w.log.Error("Failed to initialize wallet connection", "err", err)
	w.transition(StateFailed, err)
	w.notify(TitleError, descConnectFailed, VariantDestructive)
	return err
}

func (w *Workflow) transition(state ConnState, err error) {
	w.mu.Lock()
	w.state = state
	w.err = err
	w.mu.Unlock()
	w.metrics.RecordConnection(state.String())
}

// Get reads the stored value and records it as the last read value.
// It returns ErrNotConnected without calling the contract unless the
// workflow is connected.
func (w *Workflow) Get(ctx context.Context) (string, error) {
	w.mu.Lock()
	contract := w.contract
	if w.state != StateConnected || contract == nil {
		w.mu.Unlock()
		return "", ErrNotConnected
	}
	w.reading = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.reading = false
		w.mu.Unlock()
	}()

	onDone := w.metrics.RecordOperation(OpGet)
	value, err := contract.Get(ctx)
	onDone(err)
	if err != nil {
		w.log.Warn("Failed to get value", "err", err)
		w.notify(TitleError, "Failed to get value: "+errorMessage(err), VariantDestructive)
		return "", &OperationError{Op: OpGet, Err: err}
	}

	w.mu.Lock()
	w.lastValue = value
	w.mu.Unlock()
	w.log.Debug("Read stored value", "value", value)
	return value, nil
}

// SetInput replaces the pending input.
func (w *Workflow) SetInput(raw string) {
	w.mu.Lock()
	w.input = raw
	w.mu.Unlock()
}

// Set writes the pending input to the contract from the authorized account
// and, once the write succeeded, reads the value back.
//
// It returns ErrWriteSkipped without notifying when the workflow is not
// connected or the pending input is empty. Input that is not an unsigned
// base-10 integer is rejected with an *InputError before any remote call.
func (w *Workflow) Set(ctx context.Context) (*TxResult, error) {
	w.mu.Lock()
	contract, account, raw := w.contract, w.account, w.input
	if w.state != StateConnected || contract == nil || raw == "" {
		w.mu.Unlock()
		return nil, ErrWriteSkipped
	}
	w.writing = true
	w.mu.Unlock()

	tx, err := w.write(ctx, contract, account, raw)

	w.mu.Lock()
	w.writing = false
	w.mu.Unlock()

	if err != nil {
		return nil, err
	}
	// Refresh failures are reported by Get itself.
	_, _ = w.Get(ctx)
	return tx, nil
}

func (w *Workflow) write(ctx context.Context, contract StorageContract, account common.Address, raw string) (*TxResult, error) {
	value, err := ParseValue(raw)
	if err != nil {
		w.notify(TitleError, "Invalid value: "+inputMessage(err), VariantDestructive)
		return nil, err
	}

	logger := w.log.New("value", value, "from", account)
	onDone := w.metrics.RecordOperation(OpSet)
	tx, err := contract.Set(ctx, value, account)
	onDone(err)
	if err != nil {
		logger.Warn("Failed to set value", "err", err)
		w.notify(TitleError, "Failed to set value: "+errorMessage(err), VariantDestructive)
		return nil, &OperationError{Op: OpSet, Err: err}
	}

	if tx != nil {
		logger.Info("Value updated", "tx", tx.TxHash)
	}
	w.notify(TitleSuccess, descSetSuccess, VariantDefault)
	return tx, nil
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		State:     w.state,
		Account:   w.account,
		Err:       w.err,
		Input:     w.input,
		LastValue: w.lastValue,
		Reading:   w.reading,
		Writing:   w.writing,
	}
}

// State returns the connection state.
func (w *Workflow) State() ConnState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Account returns the authorized account, if connected.
func (w *Workflow) Account() (common.Address, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.account, w.state == StateConnected
}

// Client returns the client handle, or nil before Init created one.
func (w *Workflow) Client() *Client {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.client
}

// ContractAddress returns the address the workflow binds to.
func (w *Workflow) ContractAddress() common.Address {
	return w.address
}

func (w *Workflow) notify(title, description string, variant Variant) {
	w.notifier.Notify(Notification{
		Title:       title,
		Description: description,
		Variant:     variant,
		Time:        time.Now(),
	})
}

// errorMessage returns the message shown for a failed operation.
func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return unknownError
	}
	return err.Error()
}

// inputMessage returns the cause of an input error without the input echo
// or the package prefix.
func inputMessage(err error) string {
	var inputErr *InputError
	if errors.As(err, &inputErr) && inputErr.Err != nil {
		return strings.TrimPrefix(inputErr.Err.Error(), errPrefix)
	}
	return errorMessage(err)
}
