// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/identity"
	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// StatusQuerier asks a peer for its status over the private API.
type StatusQuerier interface {
	QueryStatus(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error)
}

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *identity.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
	Peers StatusQuerier
}

// Mine solves the proof of work for the latest block, pays this node the
// mining reward and seals a new block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrChainChanged):
			return errs.Conflict(err)
		case ctx.Err() == nil && errors.Is(err, context.Canceled):
			return errs.Conflict(errors.New("mining cancelled, chain was replaced"))
		}
		return fmt.Errorf("mining block: %w", err)
	}

	resp := minedBlock{
		Message: "New Block Forged",
	}
	if err := copier.Copy(&resp, &block); err != nil {
		return fmt.Errorf("copying block: %w", err)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining asks the background worker to mine a block.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return errs.Unavailable(errors.New("background mining is not running"))
	}

	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signalled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	tx := database.NewTx(ntx.Sender, ntx.Recipient, *ntx.Amount)

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount)
	index, err := h.State.NewTransaction(tx)
	if err != nil {
		return errs.BadRequest(err)
	}

	resp := newTxResponse{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
		Index:   index,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Pending returns the set of transactions waiting to be sealed.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pending := h.State.RetrievePending()

	trans := make([]pendingTx, 0, len(pending))
	if err := copier.Copy(&trans, &pending); err != nil {
		return fmt.Errorf("copying transactions: %w", err)
	}

	for i := range trans {
		trans[i].SenderName = h.NS.Lookup(trans[i].Sender)
		trans[i].RecipientName = h.NS.Lookup(trans[i].Recipient)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Chain returns the full chain and its length.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	resp := peer.ChainStatus{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterNodes adds the specified addresses to the set of known peers.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var rn registerNodes
	if err := web.Decode(r, &rn); err != nil {
		return errs.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	if err := validate.Check(rn); err != nil {
		return err
	}

	// Parse every address before adding any so a bad list changes nothing.
	peers := make([]peer.Peer, len(rn.Nodes))
	for i, address := range rn.Nodes {
		pr, err := peer.ParseAddress(address)
		if err != nil {
			return errs.BadRequest(err)
		}
		peers[i] = pr
	}

	for _, pr := range peers {
		if h.State.AddKnownPeer(pr) {
			h.Log.Infow("add peer", "traceid", v.TraceID, "host", pr.Host)
		}
	}

	known := h.State.RetrieveKnownPeers()
	resp := registerResponse{
		Message:    "New nodes have been added",
		TotalNodes: make([]string, len(known)),
	}
	for i, pr := range known {
		resp.TotalNodes[i] = pr.Host
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// RemoveNode stops the node from asking the specified peer for its chain.
func (h Handlers) RemoveNode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pr, err := peer.ParseAddress(web.Param(r, "host"))
	if err != nil {
		return errs.BadRequest(err)
	}

	if !h.State.RemoveKnownPeer(pr) {
		return errs.NewTrusted(fmt.Errorf("peer %s is not known", pr), http.StatusNotFound)
	}

	known := h.State.RetrieveKnownPeers()
	resp := registerResponse{
		Message:    fmt.Sprintf("Node %s has been removed", pr),
		TotalNodes: make([]string, len(known)),
	}
	for i, pr := range known {
		resp.TotalNodes[i] = pr.Host
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// NodeStatus asks every known peer for its status so an operator can see
// which peers are reachable and how long their chains are. An unreachable
// peer is reported with its error.
func (h Handlers) NodeStatus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.Peers == nil {
		return errs.Unavailable(errors.New("peer queries are not configured"))
	}

	known := h.State.RetrieveKnownPeers()
	statuses := make([]nodeStatus, len(known))

	var wg sync.WaitGroup
	wg.Add(len(known))

	for i, pr := range known {
		go func() {
			defer wg.Done()

			ns := nodeStatus{Host: pr.Host}
			ps, err := h.Peers.QueryStatus(ctx, pr)
			switch {
			case err != nil:
				ns.Error = err.Error()
			default:
				ns.NodeID = ps.NodeID
				ns.Name = h.NS.Lookup(ps.NodeID)
				ns.LatestBlockIndex = ps.LatestBlockIndex
				ns.LatestBlockHash = ps.LatestBlockHash
			}
			statuses[i] = ns
		}()
	}

	wg.Wait()

	return web.Respond(ctx, w, statuses, http.StatusOK)
}

// Resolve runs the consensus algorithm against the known peers.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolving chain: %w", err)
	}

	chain := h.State.RetrieveChain()

	resp := resolveResponse{
		Message: "Our chain is authoritative",
		Chain:   chain,
	}
	if replaced {
		resp = resolveResponse{
			Message:  "Our chain was replaced",
			NewChain: chain,
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// Subscribe to the ledger events. A client can narrow the stream with
	// topic parameters such as ?topic=state&topic=worker.
	ch := h.Evts.Acquire(v.TraceID, r.URL.Query()["topic"]...)
	defer func() {
		if dropped, err := h.Evts.Release(v.TraceID); err == nil && dropped > 0 {
			h.Log.Infow("events", "traceid", v.TraceID, "dropped", dropped)
		}
	}()

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the ledger or ticker.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}
