// Package ids generates the short business identifiers used in API payloads
// and transaction descriptions (ORD…, TXN…, WD…, DIS…). These complement the
// UUID primary keys and are safe to show to users.
package ids

import (
	"crypto/rand"
	"strconv"
	"time"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	PrefixOrder       = "ORD"
	PrefixTransaction = "TXN"
	PrefixWithdrawal  = "WD"
	PrefixDispute     = "DIS"
	PrefixProduct     = "PRD"
	PrefixUser        = "USR"
	PrefixReferral    = "REF"
)

// New returns prefix + millisecond timestamp + 6 random characters.
// Collisions are prevented by the unique column constraint; the timestamp
// keeps ids roughly sortable.
func New(prefix string) string {
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + randomSuffix(6)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to time
		for i := range buf {
			buf[i] = byte(time.Now().UnixNano() >> (i * 8))
		}
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}
