package consensus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// fetcher serves canned chain responses keyed by peer host.
type fetcher map[string]peer.ChainStatus

func (f fetcher) QueryChain(ctx context.Context, pr peer.Peer) (peer.ChainStatus, error) {
	cs, exists := f[pr.Host]
	if !exists {
		return peer.ChainStatus{}, errors.New("connection refused")
	}
	return cs, nil
}

// extend seals length blocks on top of the specified chain.
func extend(t *testing.T, chain []database.Block, length int, sender string) []database.Block {
	out := make([]database.Block, len(chain), length)
	copy(out, chain)

	for len(out) < length {
		prevBlock := out[len(out)-1]

		proof, err := pow.Solve(context.Background(), prevBlock.Proof, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to solve the puzzle: %s", failed, err)
		}

		trans := []database.Tx{database.NewTx(sender, "ana", 1)}
		out = append(out, database.NewBlock(prevBlock, proof, trans))
	}

	return out
}

func status(chain []database.Block) peer.ChainStatus {
	return peer.ChainStatus{Chain: chain, Length: len(chain)}
}

// =============================================================================

func TestResolve(t *testing.T) {
	genesis := []database.Block{database.NewGenesis()}

	long := extend(t, genesis, 5, "bill")
	other := extend(t, genesis, 5, "jill")
	three := long[:3]

	broken := make([]database.Block, len(long))
	copy(broken, long)
	broken[2].PreviousHash = broken[0].Hash()

	type table struct {
		name     string
		local    int
		peers    []string
		fetcher  fetcher
		replaced bool
		exp      []database.Block
	}

	tt := []table{
		{
			name:    "equal-length",
			local:   3,
			peers:   []string{"a"},
			fetcher: fetcher{"a": status(three)},
		},
		{
			name:     "strictly-longer",
			local:    2,
			peers:    []string{"a"},
			fetcher:  fetcher{"a": status(long)},
			replaced: true,
			exp:      long,
		},
		{
			name:    "longer-but-invalid",
			local:   2,
			peers:   []string{"a"},
			fetcher: fetcher{"a": status(broken)},
		},
		{
			name:    "shorter",
			local:   4,
			peers:   []string{"a"},
			fetcher: fetcher{"a": status(three)},
		},
		{
			name:     "unreachable-skipped",
			local:    2,
			peers:    []string{"down", "a"},
			fetcher:  fetcher{"a": status(long)},
			replaced: true,
			exp:      long,
		},
		{
			name:    "length-mismatch",
			local:   2,
			peers:   []string{"a"},
			fetcher: fetcher{"a": {Chain: three, Length: 9}},
		},
		{
			name:     "longest-wins",
			local:    1,
			peers:    []string{"a", "b"},
			fetcher:  fetcher{"a": status(three), "b": status(long)},
			replaced: true,
			exp:      long,
		},
		{
			name:     "first-seen-wins-ties",
			local:    1,
			peers:    []string{"b", "a"},
			fetcher:  fetcher{"a": status(long), "b": status(other)},
			replaced: true,
			exp:      other,
		},
		{
			name:     "invalid-then-valid",
			local:    2,
			peers:    []string{"a", "b"},
			fetcher:  fetcher{"a": status(broken), "b": status(other)},
			replaced: true,
			exp:      other,
		},
		{
			name:    "no-peers",
			local:   1,
			fetcher: fetcher{},
		},
	}

	t.Log("Given the need to resolve conflicts with the longest valid chain.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling the %s scenario.", testID, tst.name)
				{
					peers := make([]peer.Peer, len(tst.peers))
					for i, host := range tst.peers {
						peers[i] = peer.New(host)
					}

					cands := consensus.Collect(context.Background(), peers, tst.fetcher, nil)
					if len(cands) != len(peers) {
						t.Fatalf("\t%s\tTest %d:\tShould get a candidate per peer.", failed, testID)
					}
					for i := range cands {
						if cands[i].Peer != peers[i] {
							t.Fatalf("\t%s\tTest %d:\tShould keep the peer order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get a candidate per peer in order.", success, testID)

					chain, replaced := consensus.Select(tst.local, cands, nil)
					if replaced != tst.replaced {
						t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, replaced)
						t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.replaced)
						t.Fatalf("\t%s\tTest %d:\tShould get the right replacement decision.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the right replacement decision.", success, testID)

					if !tst.replaced {
						if chain != nil {
							t.Fatalf("\t%s\tTest %d:\tShould not get back a chain.", failed, testID)
						}
						return
					}

					if len(chain) != len(tst.exp) || chain[len(chain)-1].Hash() != tst.exp[len(tst.exp)-1].Hash() {
						t.Fatalf("\t%s\tTest %d:\tShould get back the expected chain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the expected chain.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func TestCollectMismatch(t *testing.T) {
	t.Log("Given the need to reject malformed peer responses.")
	{
		f := fetcher{"a": {Chain: []database.Block{database.NewGenesis()}, Length: 3}}

		cands := consensus.Collect(context.Background(), []peer.Peer{peer.New("a")}, f, nil)
		if !errors.Is(cands[0].Err, consensus.ErrLengthMismatch) {
			t.Fatalf("\t%s\tShould get a length mismatch error: %v", failed, cands[0].Err)
		}
		t.Logf("\t%s\tShould get a length mismatch error.", success)
	}
}
