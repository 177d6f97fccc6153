package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cleggacus/cleggcoin/app/services/node/handlers"
	"github.com/cleggacus/cleggcoin/business/web/mid"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/genesis"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/signature"
	"github.com/cleggacus/cleggcoin/foundation/blockchain/state"
	"github.com/cleggacus/cleggcoin/foundation/events"
	"github.com/cleggacus/cleggcoin/foundation/logger"
	"github.com/cleggacus/cleggcoin/foundation/nameservice"
	"github.com/gorilla/websocket"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const minerHexKey = "944d3b0607a8327bfef0658c4d3971df7d4ebd793cc5d3ddf03725d8b7509423"

type nodeTest struct {
	app     http.Handler
	evts    *events.Events
	state   *state.State
	minerID database.AccountID
	tx      database.Tx
}

func newNodeTest(t *testing.T) nodeTest {
	log, err := logger.New("TEST")
	if err != nil {
		t.Fatalf("unable to construct logger: %s", err)
	}
	t.Cleanup(func() { log.Sync() })

	st, err := state.New(state.Config{Genesis: genesis.New(1, 100)})
	if err != nil {
		t.Fatalf("unable to construct state: %s", err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("unable to construct name service: %s", err)
	}

	pk, err := signature.HexToKey(minerHexKey)
	if err != nil {
		t.Fatalf("unable to parse key: %s", err)
	}
	minerID := database.PublicKeyToAccountID(pk.PublicKey)

	tx := database.NewTx(minerID, "receiver", 10)
	if err := tx.Sign(pk); err != nil {
		t.Fatalf("unable to sign transaction: %s", err)
	}

	evts := events.New()

	app := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		State:    st,
		NS:       ns,
		Evts:     evts,
		Cors:     mid.CorsConfig{AllowedOrigins: []string{"*"}},
	})

	return nodeTest{
		app:     app,
		evts:    evts,
		state:   st,
		minerID: minerID,
		tx:      tx,
	}
}

func (nt nodeTest) do(method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	nt.app.ServeHTTP(w, r)
	return w
}

func Test_SubmitTransaction(t *testing.T) {
	nt := newNodeTest(t)

	sig := nt.tx.Signature
	from := string(nt.minerID)

	tt := []struct {
		name   string
		body   string
		status int
		pool   int
	}{
		{"valid", `{"from":"` + from + `","to":"receiver","amount":10,"signature":"` + sig + `"}`, http.StatusOK, 1},
		{"tampered", `{"from":"` + from + `","to":"receiver","amount":100,"signature":"` + sig + `"}`, http.StatusBadRequest, 1},
		{"unsigned", `{"from":"` + from + `","to":"receiver","amount":10}`, http.StatusBadRequest, 1},
		{"bad-from", `{"from":"abc","to":"receiver","amount":10,"signature":"` + sig + `"}`, http.StatusBadRequest, 1},
		{"unknown-field", `{"from":"` + from + `","value":10}`, http.StatusBadRequest, 1},
	}

	t.Log("Given the need to submit transactions to the node.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen submitting a %s transaction.", testID, tst.name)
			{
				w := nt.do(http.MethodPost, "/v1/tx/submit", tst.body)
				if w.Code != tst.status {
					t.Fatalf("\t%s\tTest %d:\tShould receive status %d, got %d: %s", failed, testID, tst.status, w.Code, w.Body.String())
				}
				t.Logf("\t%s\tTest %d:\tShould receive status %d.", success, testID, tst.status)

				if n := nt.state.MempoolLength(); n != tst.pool {
					t.Fatalf("\t%s\tTest %d:\tShould have %d pending transactions, got %d.", failed, testID, tst.pool, n)
				}
				t.Logf("\t%s\tTest %d:\tShould have %d pending transactions.", success, testID, tst.pool)
			}
		}
	}
}

func Test_Queries(t *testing.T) {
	nt := newNodeTest(t)

	t.Log("Given the need to query the node after mining a block.")
	{
		if err := nt.state.AddTransaction(nt.tx); err != nil {
			t.Fatalf("\t%s\tShould be able to add the transaction: %s", failed, err)
		}

		w := nt.do(http.MethodGet, "/v1/tx/uncommitted/list", "")
		var pool []map[string]any
		if err := json.NewDecoder(w.Body).Decode(&pool); err != nil || len(pool) != 1 {
			t.Fatalf("\t%s\tShould list 1 pending transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould list 1 pending transaction.", success)

		w = nt.do(http.MethodPost, "/v1/mining/signal", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("\t%s\tShould refuse to signal mining without a worker, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould refuse to signal mining without a worker.", success)

		if _, err := nt.state.MinePendingTransactions(context.Background(), nt.minerID); err != nil {
			t.Fatalf("\t%s\tShould be able to mine: %s", failed, err)
		}

		w = nt.do(http.MethodGet, "/v1/blocks/list", "")
		var blocks []struct {
			Number       int              `json:"number"`
			Transactions []map[string]any `json:"transactions"`
		}
		if err := json.NewDecoder(w.Body).Decode(&blocks); err != nil || len(blocks) != 2 {
			t.Fatalf("\t%s\tShould list 2 blocks: %v", failed, err)
		}
		if len(blocks[1].Transactions) != 2 {
			t.Fatalf("\t%s\tShould list the transfer and the reward, got %d.", failed, len(blocks[1].Transactions))
		}
		t.Logf("\t%s\tShould list 2 blocks.", success)

		w = nt.do(http.MethodGet, "/v1/balances/list/"+string(nt.minerID), "")
		var bal struct {
			Balance int64 `json:"balance"`
		}
		if err := json.NewDecoder(w.Body).Decode(&bal); err != nil || bal.Balance != 90 {
			t.Fatalf("\t%s\tShould report a miner balance of 90, got %d: %v", failed, bal.Balance, err)
		}
		t.Logf("\t%s\tShould report a miner balance of 90.", success)

		w = nt.do(http.MethodGet, "/v1/chain/validate", "")
		var cs struct {
			Valid  bool `json:"valid"`
			Length int  `json:"length"`
		}
		if err := json.NewDecoder(w.Body).Decode(&cs); err != nil || !cs.Valid || cs.Length != 2 {
			t.Fatalf("\t%s\tShould report a valid chain of length 2, got %+v: %v", failed, cs, err)
		}
		t.Logf("\t%s\tShould report a valid chain of length 2.", success)

		w = nt.do(http.MethodGet, "/v1/genesis/list", "")
		var gen genesis.Genesis
		if err := json.NewDecoder(w.Body).Decode(&gen); err != nil || gen.MiningReward != 100 || gen.Difficulty != 1 {
			t.Fatalf("\t%s\tShould report the genesis parameters, got %+v: %v", failed, gen, err)
		}
		t.Logf("\t%s\tShould report the genesis parameters.", success)
	}
}

func Test_Events(t *testing.T) {
	nt := newNodeTest(t)

	srv := httptest.NewServer(nt.app)
	defer srv.Close()
	defer nt.evts.Shutdown()

	t.Log("Given the need to stream events to a browser on another origin.")
	{
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/events"
		hdr := http.Header{"Origin": []string{"http://wallet.local"}}

		c, _, err := websocket.DefaultDialer.Dial(url, hdr)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to upgrade a cross-origin connection: %s", failed, err)
		}
		defer c.Close()
		t.Logf("\t%s\tShould be able to upgrade a cross-origin connection.", success)

		deadline := time.Now().Add(5 * time.Second)
		for nt.evts.Count() == 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		nt.evts.Send("block mined")

		c.SetReadDeadline(deadline)
		_, msg, err := c.ReadMessage()
		if err != nil || string(msg) != "block mined" {
			t.Fatalf("\t%s\tShould receive the event, got %q: %v", failed, msg, err)
		}
		t.Logf("\t%s\tShould receive the event.", success)
	}
}
