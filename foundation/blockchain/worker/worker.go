// Package worker implements background mining and conflict resolution
// for the ledger.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// =============================================================================

// Worker manages the background workflows for the ledger.
type Worker struct {
	state           *state.State
	wg              sync.WaitGroup
	ctx             context.Context
	cancel          context.CancelFunc
	resolveInterval time.Duration
	resolveTimeout  time.Duration
	shut            chan struct{}
	startMining     chan bool
	startResolve    chan bool
	evHandler       state.EventHandler
}

// Config represents the settings for the background workflows.
type Config struct {
	ResolveInterval time.Duration // Zero disables the periodic resolution sweep.
	ResolveTimeout  time.Duration // Upper bound for a single resolution sweep.
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:           st,
		ctx:             ctx,
		cancel:          cancel,
		resolveInterval: cfg.ResolveInterval,
		resolveTimeout:  cfg.ResolveTimeout,
		shut:            make(chan struct{}),
		startMining:     make(chan bool, 1),
		startResolve:    make(chan bool, 1),
		evHandler:       evHandler,
	}

	if w.resolveTimeout <= 0 {
		w.resolveTimeout = time.Minute
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.runResolveOperation()

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.resolveOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	select {
	case <-w.shut:
		return
	default:
	}

	w.evHandler("worker: shutdown: cancel in-progress work")
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalResolve starts a resolution sweep. If there is already a signal
// pending in the channel, just return since a sweep will start.
func (w *Worker) SignalResolve() {
	select {
	case w.startResolve <- true:
	default:
	}
	w.evHandler("worker: SignalResolve: resolve signaled")
}

// =============================================================================

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// resolveOperations handles periodic and signaled conflict resolution.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	// A nil channel blocks forever which disables the periodic sweep.
	var tick <-chan time.Time
	if w.resolveInterval > 0 {
		ticker := time.NewTicker(w.resolveInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-w.startResolve:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-tick:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// =============================================================================

// runMiningOperation mines a single block. The search is cancelled if the
// worker shuts down or the chain is replaced.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	start := time.Now()

	block, err := w.state.MineNewBlock(w.ctx)
	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", time.Since(start))

	if err != nil {
		switch {
		case errors.Is(err, state.ErrChainChanged):
			w.evHandler("worker: runMiningOperation: MINING: WARNING: chain changed, signal new mining operation")
			w.SignalStartMining()
		case w.isShutdown():
			w.evHandler("worker: runMiningOperation: MINING: CANCELLED: by shutdown")
		case errors.Is(err, context.Canceled):
			w.evHandler("worker: runMiningOperation: MINING: CANCELLED: chain replaced, signal new mining operation")
			w.SignalStartMining()
		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		}
		return
	}

	w.evHandler("worker: runMiningOperation: MINING: sealed blk[%d]: hash[%s]", block.Index, block.Hash())
}

// runResolveOperation resolves conflicts with the known peers.
func (w *Worker) runResolveOperation() {
	w.evHandler("worker: runResolveOperation: started")
	defer w.evHandler("worker: runResolveOperation: completed")

	ctx, cancel := context.WithTimeout(w.ctx, w.resolveTimeout)
	defer cancel()

	replaced, err := w.state.Resolve(ctx)
	if err != nil {
		w.evHandler("worker: runResolveOperation: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runResolveOperation: replaced[%v]", replaced)
}
