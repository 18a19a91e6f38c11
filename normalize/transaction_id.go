package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"itbitflow/models"
)

// TransactionID derives a stable unique id for a funding record. The
// ledger carries no single identity field across all record kinds, so the
// key is picked by case: a withdrawal uses its withdrawal id, a
// cryptocurrency deposit its chain transaction hash, and any other deposit
// the raw time plus currency code. The amount is deliberately left out of
// the key so a change in the exchange's displayed precision cannot
// retroactively change ids. The selected key is SHA-256 hashed to a fixed
// length hex digest.
func TransactionID(record models.FundingRecord) (string, error) {
	var key string
	switch {
	case strings.EqualFold(record.TransactionType, "withdrawal") && record.WithdrawalID != 0:
		key = strconv.FormatInt(record.WithdrawalID, 10)
	case strings.EqualFold(record.TransactionType, "deposit") && record.TxnHash != "":
		key = record.TxnHash
	case strings.EqualFold(record.TransactionType, "deposit") && record.Time != "" && record.Currency != "":
		key = record.Time + "-" + record.Currency
	default:
		return "", fmt.Errorf("%w (type %q)", ErrUnknownTransactionShape, record.TransactionType)
	}

	digest := sha256.Sum256([]byte(key))
	return hex.EncodeToString(digest[:]), nil
}
