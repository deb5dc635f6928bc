package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
)

func TestStatus(t *testing.T) {
	stale := errors.New("chain changed while mining")

	tt := []struct {
		name   string
		err    error
		status int
		ok     bool
	}{
		{"badrequest", errs.BadRequest(errors.New("bad tx")), http.StatusBadRequest, true},
		{"conflict", errs.Conflict(stale), http.StatusConflict, true},
		{"unavailable", errs.Unavailable(errors.New("worker stopped")), http.StatusServiceUnavailable, true},
		{"wrapped", fmt.Errorf("mining: %w", errs.Conflict(stale)), http.StatusConflict, true},
		{"untrusted", stale, 0, false},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			status, ok := errs.Status(tst.err)
			if status != tst.status || ok != tst.ok {
				t.Fatalf("Should get status %d/%v, got %d/%v.", tst.status, tst.ok, status, ok)
			}
		})
	}

	if err := errs.Conflict(stale); !errors.Is(err, stale) {
		t.Fatalf("Should unwrap to the cause.")
	}
}
