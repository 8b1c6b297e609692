// Package storagedapp implements the client side of a small decentralized
// application around a deployed SimpleStorage contract.
//
// A Workflow connects to a wallet provider, authorizes an account, binds the
// contract and then serves two user-triggered operations:
//   - Get reads the stored value with an eth_call
//   - Set writes a new value with eth_sendTransaction from the authorized account
//
// # Basic Usage
//
// Dial a provider, create a workflow for the deployed contract and initialize it:
//
//	provider, err := storagedapp.DialProvider(ctx, "http://localhost:8545")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	notes := storagedapp.NewNotificationLog(16)
//	wf := storagedapp.NewWorkflow(provider, contractAddr, storagedapp.WithNotifier(notes))
//	if err := wf.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	wf.SetInput("42")
//	if _, err := wf.Set(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(wf.Snapshot().LastValue) // "42"
//
// # Connection States
//
// Init runs once per Workflow and ends in one of:
//
//   - StateProviderMissing: no provider was supplied
//   - StateConnected: an account was authorized and the contract is bound
//   - StateNoAccounts: the provider granted no accounts
//   - StateFailed: authorization or binding failed
//
// There is no way back to StateConnecting other than creating a new Workflow.
//
// # Notifications
//
// Every success or failure of Init, Get and Set produces exactly one
// Notification on the configured Notifier. Skipped operations (missing
// connection, empty input) produce none and return ErrNotConnected or
// ErrWriteSkipped instead.
//
// # Providers
//
// Provider mirrors the EIP-1193 request interface. RPCProvider implements it
// over an Ethereum JSON-RPC endpoint whose accounts are managed by the node,
// such as a development node. Tests and alternative wallets can supply their
// own implementation.
package storagedapp
