package storagedapp

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Option configures a Workflow.
type Option func(*Workflow)

// ContractBinder constructs the contract proxy once a client is available.
type ContractBinder func(client *Client, contractABI abi.ABI, address common.Address) (StorageContract, error)

// BindSimpleStorage is the default ContractBinder.
func BindSimpleStorage(client *Client, contractABI abi.ABI, address common.Address) (StorageContract, error) {
	return NewSimpleStorage(client.NewContract(contractABI, address))
}

// WithNotifier sets the notification surface.
// By default notifications are written to the workflow logger.
func WithNotifier(n Notifier) Option {
	return func(w *Workflow) {
		w.notifier = n
	}
}

// WithLogger sets the workflow logger. Default is the root logger.
func WithLogger(logger log.Logger) Option {
	return func(w *Workflow) {
		w.log = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m Metricer) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// WithABI overrides the embedded SimpleStorage ABI.
func WithABI(contractABI abi.ABI) Option {
	return func(w *Workflow) {
		w.abi = contractABI
	}
}

// WithContractBinder sets how the contract proxy is constructed.
func WithContractBinder(bind ContractBinder) Option {
	return func(w *Workflow) {
		w.bind = bind
	}
}

// WithClientOptions passes options to the Client created by Init.
func WithClientOptions(opts ...ClientOption) Option {
	return func(w *Workflow) {
		w.clientOpts = append(w.clientOpts, opts...)
	}
}

// Metricer records workflow metrics.
type Metricer interface {
	RecordConnection(state string)
	RecordOperation(op string) (onDone func(err error))
}

type noopMetrics struct{}

func (noopMetrics) RecordConnection(string) {}

func (noopMetrics) RecordOperation(string) func(error) {
	return func(error) {}
}
