// Package cuid2 generates collision-resistant request identifiers. IDs
// carry a time-sortable base62 prefix so log and trace stores keep
// index locality.
package cuid2

import (
	crypto_rand "crypto/rand"
	"strings"
	"time"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// randomLength is the random tail following the timestamp prefix.
const randomLength = 18

// New returns a prefixed identifier, e.g. "req_0CL2KwaB3cD5eF7gH9iJ1k".
func New(prefix string) string {
	return prefix + "_" + encodeTimestamp(time.Now().Unix()) + randomBase62(randomLength)
}

// encodeTimestamp encodes Unix seconds as a fixed 6-character base62
// string, lexicographically sortable within its range.
func encodeTimestamp(seconds int64) string {
	n := seconds
	out := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		out[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(out)
}

// randomBase62 draws uniformly distributed base62 characters from
// crypto/rand. Six bits are taken per character; values of 62 and 63
// are rejected so the distribution stays uniform.
func randomBase62(length int) string {
	buf := make([]byte, (length*6)/8+4)
	if _, err := crypto_rand.Read(buf); err != nil {
		panic("reading random bytes: " + err.Error())
	}

	var b strings.Builder
	b.Grow(length)
	bits := uint64(0)
	bitCount := uint(0)
	next := 0

	for b.Len() < length {
		for bitCount < 6 && next < len(buf) {
			bits = bits<<8 | uint64(buf[next])
			bitCount += 8
			next++
		}

		v := (bits >> (bitCount - 6)) & 0x3f
		bitCount -= 6
		if v < 62 {
			b.WriteByte(base62Alphabet[v])
		}

		if next >= len(buf) && b.Len() < length {
			if _, err := crypto_rand.Read(buf); err != nil {
				panic("reading random bytes: " + err.Error())
			}
			next = 0
			bits = 0
			bitCount = 0
		}
	}

	return b.String()
}
