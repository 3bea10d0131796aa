// Package repotest has helpers for building repo fixtures in tests.
package repotest

import (
	"math/rand"
	"time"
)

const alpha = "234567abcdefghijklmnopqrstuvwxyz"

func s32encode(i uint64) string {
	var s string
	for i > 0 {
		c := i & 0x1f
		i = i >> 5
		s = alpha[c:c+1] + s
	}
	return s
}

// NextTID returns a timestamp identifier, as used for repo revisions and
// record keys. TIDs from the same clock sort in creation order.
func NextTID() string {
	return TIDFromTime(time.Now(), uint64(rand.Uint32()&0x3ff))
}

func TIDFromTime(t time.Time, clockid uint64) string {
	v := (uint64(t.UnixMicro()) << 10) | (clockid & 0x3ff)
	s := s32encode(v)
	for len(s) < 13 {
		s = "2" + s
	}
	return s
}
