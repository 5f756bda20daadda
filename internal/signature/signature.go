// Package signature produces the tamper-evidence fingerprint embedded in
// audit records and rendered certificates. It is an integrity digest, not an
// authentication tag: there is no key.
package signature

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Sum returns the SHA-256 hex digest of the canonical serialization of the
// given rows, in the exact row and column order supplied. Each row is
// framed by its cell count and each cell by its byte length, so cell
// content can never forge a row or column boundary. Identical content
// always yields an identical digest; the empty set digests zero bytes.
func Sum(rows [][]string) string {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte
	for _, row := range rows {
		n := binary.PutUvarint(buf[:], uint64(len(row)))
		h.Write(buf[:n])
		for _, cell := range row {
			n := binary.PutUvarint(buf[:], uint64(len(cell)))
			h.Write(buf[:n])
			h.Write([]byte(cell))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
