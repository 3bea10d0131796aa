package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeParsing(t *testing.T) {
	good := []string{
		"2023-07-19T21:54:14.165300Z",
		"2023-07-19T21:54:14.163Z",
		"2023-07-19T21:52:02.000+00:00",
		"2023-07-19T21:52:02.123456+00:00",
		"2023-09-13T11:23:33+09:00",
	}

	for _, g := range good {
		_, err := ParseTimestamp(g)
		if err != nil {
			t.Fatal(err)
		}
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestFormatTimestampOrdering(t *testing.T) {
	assert := assert.New(t)

	loc := time.FixedZone("east", 9*60*60)
	early := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, loc)
	late := early.Add(1500 * time.Millisecond)

	a := FormatTimestamp(early)
	b := FormatTimestamp(late)
	assert.Equal("2024-01-01T18:04:05.006Z", a)
	assert.Less(a, b)

	back, err := ParseTimestamp(a)
	assert.NoError(err)
	assert.True(back.Equal(early.Truncate(time.Millisecond)))
}
