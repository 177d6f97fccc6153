// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cleggacus/cleggcoin/business/sys/validate"
	"github.com/cleggacus/cleggcoin/business/web/errs"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/state"
	"github.com/cleggacus/cleggcoin/foundation/events"
	"github.com/cleggacus/cleggcoin/foundation/nameservice"
	"github.com/cleggacus/cleggcoin/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			// The connection is hijacked, so a failed write can't be
			// reported to the client through the error middleware.
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				h.Log.Infow("events", "traceid", v.TraceID, "status", "websocket closed", "ERROR", err)
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Genesis(), http.StatusOK)
}

// Blocks returns all the blocks and their details, starting with genesis.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks, err := h.State.Blocks()
	if err != nil {
		return err
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = block{
			Number:        i,
			PrevBlockHash: blk.Header.PrevBlockHash,
			TimeStamp:     blk.Header.TimeStamp,
			Nonce:         blk.Header.Nonce,
			Hash:          blk.Hash,
			Transactions:  h.toTrans(blk.Trans),
		}
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Balance returns the current balance for the specified account.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID := database.AccountID(web.Param(r, "account"))

	bal, err := h.State.AddressBalance(accountID)
	if err != nil {
		return err
	}

	resp := balance{
		AccountID:   accountID,
		Name:        h.NS.Lookup(accountID),
		Balance:     bal,
		LatestBlock: h.State.LatestBlock().Hash,
		Uncommitted: h.State.MempoolLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.toTrans(h.State.Mempool()), http.StatusOK)
}

// SubmitTransaction adds a new signed transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var stx submitTx
	if err := web.Decode(r, &stx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(stx); err != nil {
		return err
	}

	tx := database.Tx{
		FromID:    database.AccountID(stx.FromID),
		ToID:      database.AccountID(stx.ToID),
		Amount:    stx.Amount,
		Signature: stx.Signature,
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx)
	if err := h.State.AddTransaction(tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, status{Status: "transaction added to mempool"}, http.StatusOK)
}

// SignalMining asks the worker to mine the pending transactions.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return errs.NewTrusted(errors.New("mining worker is not running"), http.StatusServiceUnavailable)
	}

	h.State.Worker.SignalStartMining()

	return web.Respond(ctx, w, status{Status: "mining signaled"}, http.StatusOK)
}

// ValidateChain reports whether the stored chain is intact.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := chainStatus{
		Valid:  true,
		Length: h.State.BlockCount(),
	}

	if err := h.State.Validate(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

func (h Handlers) toTrans(dbTrans []database.Tx) []tx {
	trans := make([]tx, len(dbTrans))
	for i, tran := range dbTrans {
		trans[i] = tx{
			FromID:    tran.FromID,
			FromName:  h.NS.Lookup(tran.FromID),
			ToID:      tran.ToID,
			ToName:    h.NS.Lookup(tran.ToID),
			Amount:    tran.Amount,
			Signature: tran.Signature,
		}
	}
	return trans
}
