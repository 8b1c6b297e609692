package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/branched-services/go-storagedapp"
	"github.com/branched-services/go-storagedapp/internal/config"
	"github.com/branched-services/go-storagedapp/internal/flags"
	"github.com/branched-services/go-storagedapp/internal/logging"
	"github.com/branched-services/go-storagedapp/internal/web"
	"github.com/branched-services/go-storagedapp/metrics"
)

const shutdownTimeout = 10 * time.Second

// env is what every command needs before it can build a workflow.
type env struct {
	cfg      *config.Config
	log      log.Logger
	metrics  metrics.Metricer
	registry *metrics.Metrics
	abi      abi.ABI
	provider storagedapp.Provider
	close    func()
}

func setup(ctx *cli.Context) (*env, error) {
	cfg, err := flags.ConfigFromCLI(ctx, ctx.App.Version)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log, ctx.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	log.SetDefault(logger)

	contractABI, err := cfg.LoadABI()
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:     cfg,
		log:     logger,
		metrics: metrics.NoopMetrics{},
		abi:     contractABI,
		close:   func() {},
	}
	if cfg.MetricsEnabled {
		e.registry = metrics.NewMetrics("default")
		e.metrics = e.registry
	}
	e.metrics.RecordInfo(cfg.Version, cfg.Address().Hex())

	if err := e.dial(ctx.Context); err != nil {
		return nil, err
	}
	return e, nil
}

// dial connects to the configured provider and logs its events.
// Without an RPC URL the provider stays nil.
func (e *env) dial(ctx context.Context) error {
	if e.cfg.RPCURL == "" {
		e.log.Warn("No RPC URL configured, running without a wallet provider")
		return nil
	}
	p, err := storagedapp.DialProvider(ctx, e.cfg.RPCURL, storagedapp.WithProviderLogger(e.log))
	if err != nil {
		return err
	}

	events := make(chan storagedapp.ProviderEvent)
	sub := p.SubscribeEvents(events)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-events:
				e.log.Info("Wallet provider event", "event", ev.Name, "data", ev.Data)
			case <-sub.Err():
				return
			}
		}
	}()

	e.provider = p
	e.close = func() {
		p.Close()
		sub.Unsubscribe()
		<-done
	}
	return nil
}

func (e *env) newWorkflow(n storagedapp.Notifier) *storagedapp.Workflow {
	opts := []storagedapp.Option{
		storagedapp.WithLogger(e.log),
		storagedapp.WithMetrics(e.metrics),
		storagedapp.WithABI(e.abi),
		storagedapp.WithClientOptions(storagedapp.WithReceiptPolling(e.cfg.ReceiptPoll)),
	}
	if n != nil {
		opts = append(opts, storagedapp.WithNotifier(storagedapp.MultiNotifier(storagedapp.NewLogNotifier(e.log), n)))
	}
	return storagedapp.NewWorkflow(e.provider, e.cfg.Address(), opts...)
}

func serve(ctx *cli.Context) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	webCfg := web.Config{
		InstallURL:     e.cfg.InstallURL,
		RequestTimeout: e.cfg.RequestTimeout,
		RateLimit:      e.cfg.RateLimit,
		RateBurst:      e.cfg.RateBurst,
	}
	if e.registry != nil {
		webCfg.Metrics = e.registry.Handler()
	}
	server := web.NewServer(webCfg, e.newWorkflow, e.log)

	connectCtx, cancel := context.WithTimeout(ctx.Context, e.cfg.RequestTimeout)
	err = server.Connect(connectCtx)
	cancel()
	if err != nil {
		e.log.Warn("Wallet not connected, use Refresh Connection to retry", "err", err)
	}

	httpServer := &http.Server{
		Addr:              e.cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	e.log.Info("Serving storage DApp", "addr", e.cfg.ListenAddr, "contract", e.cfg.Address())
	e.metrics.RecordUp()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Context.Done():
	}

	e.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// connect initializes a workflow for a single command line operation.
func (e *env) connect(ctx context.Context) (*storagedapp.Workflow, error) {
	wf := e.newWorkflow(nil)
	if err := wf.Init(ctx); err != nil {
		return nil, err
	}
	return wf, nil
}

func get(ctx *cli.Context) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	opCtx, cancel := context.WithTimeout(ctx.Context, e.cfg.RequestTimeout)
	defer cancel()
	wf, err := e.connect(opCtx)
	if err != nil {
		return err
	}
	value, err := wf.Get(opCtx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, value)
	return err
}

func set(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("set takes exactly one value")
	}
	raw := ctx.Args().First()
	if _, err := storagedapp.ParseValue(raw); err != nil {
		return err
	}

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	opCtx, cancel := context.WithTimeout(ctx.Context, e.cfg.RequestTimeout)
	defer cancel()
	wf, err := e.connect(opCtx)
	if err != nil {
		return err
	}
	wf.SetInput(raw)
	tx, err := wf.Set(opCtx)
	if err != nil {
		return err
	}
	if tx != nil {
		e.log.Info("Transaction confirmed", "tx", tx.TxHash, "block", tx.BlockNumber)
	}
	_, err = fmt.Fprintln(ctx.App.Writer, wf.Snapshot().LastValue)
	return err
}
