package repotest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTIDOrdering(t *testing.T) {
	now := time.Now()
	a := TIDFromTime(now, 1)
	b := TIDFromTime(now.Add(time.Millisecond), 0)
	assert.Len(t, a, 13)
	assert.Less(t, a, b)
	assert.Len(t, NextTID(), 13)
}
