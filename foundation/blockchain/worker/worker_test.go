package worker_test

import (
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_SignalStartMining(t *testing.T) {
	t.Log("Given the need to mine blocks in the background.")
	{
		st := state.New(state.Config{NodeID: "node1", Host: "localhost:9080"})

		w := worker.Run(st, worker.Config{}, nil)
		defer st.Shutdown()

		if st.Worker != w {
			t.Fatalf("\t%s\tShould register the worker with the state.", failed)
		}
		t.Logf("\t%s\tShould register the worker with the state.", success)

		st.Worker.SignalStartMining()

		deadline := time.Now().Add(10 * time.Second)
		for st.QueryChainLength() < 2 {
			if time.Now().After(deadline) {
				t.Fatalf("\t%s\tShould mine a block after a signal.", failed)
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Logf("\t%s\tShould mine a block after a signal.", success)

		if !st.IsChainValid(st.RetrieveChain()) {
			t.Fatalf("\t%s\tShould have a valid chain.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)

		// A resolve sweep without peers is a no-op.
		st.Worker.SignalResolve()
	}
}

func Test_Shutdown(t *testing.T) {
	t.Log("Given the need to shut the worker down.")
	{
		st := state.New(state.Config{NodeID: "node1"})
		w := worker.Run(st, worker.Config{ResolveInterval: time.Millisecond}, nil)

		done := make(chan struct{})
		go func() {
			w.Shutdown()
			w.Shutdown()
			close(done)
		}()

		select {
		case <-done:
			t.Logf("\t%s\tShould be able to shut down more than once.", success)
		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould be able to shut down more than once.", failed)
		}
	}
}
