package auth

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
)

// GeneratePIN returns a 4-digit visitor PIN drawn uniformly from
// [1000, 9999].
func GeneratePIN() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("generate random pin failed")
	}
	n := binary.BigEndian.Uint64(buf[:]) % 9000
	return strconv.FormatUint(1000+n, 10)
}
