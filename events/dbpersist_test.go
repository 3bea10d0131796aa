package events_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/models"
	"github.com/bluesky-social/pds-sequencer/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testPersistence(t testing.TB) *events.DbPersistence {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sequencer.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	p := events.NewDbPersistence(db, nil)
	require.NoError(t, p.Migrate())
	return p
}

func insertTombstones(t testing.TB, p *events.DbPersistence, dids ...string) []int64 {
	var seqs []int64
	for _, did := range dids {
		row, err := events.FormatTombstone(did)
		require.NoError(t, err)
		seq, err := p.Insert(context.Background(), row)
		require.NoError(t, err)
		seqs = append(seqs, seq)
	}
	return seqs
}

func TestInsertAssignsIncreasingSeqs(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	p := testPersistence(t)

	maxSeq, err := p.SelectMax(ctx)
	require.NoError(t, err)
	assert.Equal(int64(0), maxSeq)

	seqs := insertTombstones(t, p, "did:plc:a", "did:plc:b", "did:plc:c")
	assert.Equal([]int64{1, 2, 3}, seqs)

	maxSeq, err = p.SelectMax(ctx)
	require.NoError(t, err)
	assert.Equal(int64(3), maxSeq)
}

func TestInsertStampsSequencedAt(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	p := testPersistence(t)

	row, err := events.FormatTombstone("did:plc:a")
	require.NoError(t, err)
	assert.Empty(row.SequencedAt)

	before := time.Now().Add(-time.Second)
	_, err = p.Insert(ctx, row)
	require.NoError(t, err)

	ts, err := util.ParseTimestamp(row.SequencedAt)
	require.NoError(t, err)
	assert.True(ts.After(before))
	assert.False(ts.After(time.Now()))

	stored, err := p.Next(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(row.SequencedAt, stored.SequencedAt)

	// an explicit time is kept
	old := util.FormatTimestamp(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	row, err = events.FormatTombstone("did:plc:b")
	require.NoError(t, err)
	row.SequencedAt = old
	_, err = p.Insert(ctx, row)
	require.NoError(t, err)
	assert.Equal(old, row.SequencedAt)
}

func TestSelectRangeBounds(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	p := testPersistence(t)

	insertTombstones(t, p, "did:plc:a", "did:plc:b", "did:plc:c", "did:plc:d", "did:plc:e")

	rowSeqs := func(rows []*models.RepoSeq) []int64 {
		var out []int64
		for _, r := range rows {
			out = append(out, r.Seq)
		}
		return out
	}

	rows, err := p.SelectRange(ctx, events.RangeQuery{})
	require.NoError(t, err)
	assert.Equal([]int64{1, 2, 3, 4, 5}, rowSeqs(rows))

	// afterSeq is exclusive, beforeSeqInclusive is inclusive
	rows, err = p.SelectRange(ctx, events.RangeQuery{AfterSeq: 2, BeforeSeqInclusive: 4})
	require.NoError(t, err)
	assert.Equal([]int64{3, 4}, rowSeqs(rows))

	rows, err = p.SelectRange(ctx, events.RangeQuery{AfterSeq: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal([]int64{2, 3}, rowSeqs(rows))

	rows, err = p.SelectRange(ctx, events.RangeQuery{AfterSeq: 5})
	require.NoError(t, err)
	assert.Empty(rows)

	require.NoError(t, p.InvalidateSeqs(ctx, []int64{2, 4}))
	rows, err = p.SelectRange(ctx, events.RangeQuery{})
	require.NoError(t, err)
	assert.Equal([]int64{1, 3, 5}, rowSeqs(rows))

	// invalidated rows still count towards the max
	maxSeq, err := p.SelectMax(ctx)
	require.NoError(t, err)
	assert.Equal(int64(5), maxSeq)
}

func TestSelectRangeAfterTime(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	p := testPersistence(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		row, err := events.FormatHandle("did:plc:a", "a.test")
		require.NoError(t, err)
		row.SequencedAt = util.FormatTimestamp(base.Add(time.Duration(i) * time.Minute))
		_, err = p.Insert(ctx, row)
		require.NoError(t, err)
	}

	rows, err := p.SelectRange(ctx, events.RangeQuery{AfterTime: base.Add(2 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(int64(3), rows[0].Seq)

	first, err := p.EarliestAfterTime(ctx, base.Add(90*time.Second))
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(int64(3), first.Seq)

	none, err := p.EarliestAfterTime(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(none)

	next, err := p.Next(ctx, 1)
	require.NoError(t, err)
	assert.Equal(int64(2), next.Seq)

	next, err = p.Next(ctx, 4)
	require.NoError(t, err)
	assert.Nil(next)
}

func TestDeleteByDid(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	p := testPersistence(t)

	seqs := insertTombstones(t, p, "did:plc:a", "did:plc:b", "did:plc:a", "did:plc:a")

	require.NoError(t, p.DeleteByDid(ctx, "did:plc:a", []int64{seqs[3]}))

	rows, err := p.SelectRange(ctx, events.RangeQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal("did:plc:b", rows[0].Did)
	assert.Equal(seqs[3], rows[1].Seq)

	require.NoError(t, p.DeleteByDid(ctx, "did:plc:a", nil))
	rows, err = p.SelectRange(ctx, events.RangeQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal("did:plc:b", rows[0].Did)

	// seqs are never reused after deletion
	more := insertTombstones(t, p, "did:plc:c")
	assert.Equal(int64(5), more[0])
}

func BenchmarkDbInsert(b *testing.B) {
	ctx := context.Background()
	p := testPersistence(b)

	row, err := events.FormatHandle("did:plc:bench", "bench.test")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := *row
		if _, err := p.Insert(ctx, &r); err != nil {
			b.Fatal(err)
		}
	}
}
