package public

import (
	"github.com/cleggacus/cleggcoin/foundation/blockchain/database"
)

type tx struct {
	FromID    database.AccountID `json:"from"`
	FromName  string             `json:"from_name"`
	ToID      database.AccountID `json:"to"`
	ToName    string             `json:"to_name"`
	Amount    int64              `json:"amount"`
	Signature string             `json:"signature,omitempty"`
}

type block struct {
	Number        int    `json:"number"`
	PrevBlockHash string `json:"prev_block_hash"`
	TimeStamp     uint64 `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
	Transactions  []tx   `json:"transactions"`
}

type balance struct {
	AccountID   database.AccountID `json:"account"`
	Name        string             `json:"name"`
	Balance     int64              `json:"balance"`
	LatestBlock string             `json:"latest_block"`
	Uncommitted int                `json:"uncommitted"`
}

type submitTx struct {
	FromID    string `json:"from" validate:"required,accountid"`
	ToID      string `json:"to" validate:"required"`
	Amount    int64  `json:"amount"`
	Signature string `json:"signature" validate:"required"`
}

type chainStatus struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Error  string `json:"error,omitempty"`
}

type status struct {
	Status string `json:"status"`
}
