package storagedapp

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ConnState is the connection state of a Workflow.
type ConnState uint8

const (
	// StateDisconnected is the state before Init.
	StateDisconnected ConnState = iota

	// StateConnecting is the state while accounts are being authorized.
	StateConnecting

	// StateConnected means an account is authorized and the contract is bound.
	StateConnected

	// StateProviderMissing means no wallet provider was available.
	StateProviderMissing

	// StateNoAccounts means the provider answered with an empty account list.
	StateNoAccounts

	// StateFailed means authorization or contract binding failed.
	StateFailed
)

var stateNames = [...]string{
	StateDisconnected:    "disconnected",
	StateConnecting:      "connecting",
	StateConnected:       "connected",
	StateProviderMissing: "provider_missing",
	StateNoAccounts:      "no_accounts",
	StateFailed:          "failed",
}

func (s ConnState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s ConnState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *ConnState) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = ConnState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown connection state %q", text)
}

// Terminal reports whether no further transition is possible for the
// lifetime of the Workflow.
func (s ConnState) Terminal() bool {
	switch s {
	case StateConnected, StateProviderMissing, StateNoAccounts, StateFailed:
		return true
	default:
		return false
	}
}

// Snapshot is a point-in-time copy of a Workflow's state.
type Snapshot struct {
	State ConnState

	// Account is the authorized account. It is only meaningful when
	// State is StateConnected.
	Account common.Address

	// Err is the cause of StateProviderMissing, StateNoAccounts or StateFailed.
	Err error

	Input     string
	LastValue string

	Reading bool
	Writing bool
}

// Connected reports whether the snapshot was taken in StateConnected.
func (s Snapshot) Connected() bool {
	return s.State == StateConnected
}
