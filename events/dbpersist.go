package events

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"time"

	"github.com/bluesky-social/pds-sequencer/models"
	"github.com/bluesky-social/pds-sequencer/util"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// DbPersistence is the durable, append-only sequence log, stored in the
// repo_seq table. Sequence numbers are assigned by the database.
type DbPersistence struct {
	db     *gorm.DB
	logger *slog.Logger

	maxTries uint
}

type DbPersistenceOptions struct {
	// attempts per statement for transient errors (busy/locked databases,
	// dropped connections)
	MaxTries uint
	Logger   *slog.Logger
}

func DefaultDbPersistenceOptions() *DbPersistenceOptions {
	return &DbPersistenceOptions{
		MaxTries: 5,
	}
}

func NewDbPersistence(db *gorm.DB, opts *DbPersistenceOptions) *DbPersistence {
	if opts == nil {
		opts = DefaultDbPersistenceOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("system", "dbpersist")
	}
	maxTries := opts.MaxTries
	if maxTries == 0 {
		maxTries = 1
	}
	return &DbPersistence{
		db:       db,
		logger:   logger,
		maxTries: maxTries,
	}
}

// Migrate creates the repo_seq table and its indexes.
func (p *DbPersistence) Migrate() error {
	return p.db.AutoMigrate(&models.RepoSeq{})
}

// RangeQuery selects log rows in ascending seq order. Zero values leave the
// corresponding bound open.
type RangeQuery struct {
	AfterSeq           int64
	BeforeSeqInclusive int64
	// rows sequenced at or after this time
	AfterTime time.Time
	Limit     int
}

// Insert appends a row to the log and returns its assigned sequence number.
// Unless the row already carries one, SequencedAt is stamped at the moment of
// each insert attempt.
func (p *DbPersistence) Insert(ctx context.Context, row *models.RepoSeq) (int64, error) {
	stamp := row.SequencedAt == ""
	// the row is re-sent on retry, so seq must not leak from a failed attempt
	err := p.retry(ctx, "insert", func() error {
		row.Seq = 0
		if stamp {
			row.SequencedAt = util.FormatTimestamp(time.Now())
		}
		return p.db.WithContext(ctx).Create(row).Error
	})
	if err != nil {
		return 0, err
	}
	return row.Seq, nil
}

// SelectMax returns the highest sequence number in the log, or 0 if it is
// empty.
func (p *DbPersistence) SelectMax(ctx context.Context) (int64, error) {
	var maxSeq sql.NullInt64
	err := p.retry(ctx, "selectMax", func() error {
		return p.db.WithContext(ctx).Model(&models.RepoSeq{}).Select("max(seq)").Row().Scan(&maxSeq)
	})
	if err != nil {
		return 0, err
	}
	return maxSeq.Int64, nil
}

// SelectRange returns non-invalidated rows matching q in ascending seq order.
func (p *DbPersistence) SelectRange(ctx context.Context, q RangeQuery) ([]*models.RepoSeq, error) {
	var rows []*models.RepoSeq
	err := p.retry(ctx, "selectRange", func() error {
		rows = nil
		tx := p.db.WithContext(ctx).Where("invalidated = ?", false)
		if q.AfterSeq > 0 {
			tx = tx.Where("seq > ?", q.AfterSeq)
		}
		if q.BeforeSeqInclusive > 0 {
			tx = tx.Where("seq <= ?", q.BeforeSeqInclusive)
		}
		if !q.AfterTime.IsZero() {
			tx = tx.Where("sequenced_at >= ?", util.FormatTimestamp(q.AfterTime))
		}
		if q.Limit > 0 {
			tx = tx.Limit(q.Limit)
		}
		return tx.Order("seq asc").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Next returns the first row after cursor, or nil if there is none.
func (p *DbPersistence) Next(ctx context.Context, cursor int64) (*models.RepoSeq, error) {
	return p.first(ctx, RangeQuery{AfterSeq: cursor, Limit: 1})
}

// EarliestAfterTime returns the first row sequenced at or after t, or nil.
func (p *DbPersistence) EarliestAfterTime(ctx context.Context, t time.Time) (*models.RepoSeq, error) {
	return p.first(ctx, RangeQuery{AfterTime: t, Limit: 1})
}

func (p *DbPersistence) first(ctx context.Context, q RangeQuery) (*models.RepoSeq, error) {
	rows, err := p.SelectRange(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// DeleteByDid removes every row for did other than those in exceptSeqs.
func (p *DbPersistence) DeleteByDid(ctx context.Context, did string, exceptSeqs []int64) error {
	return p.retry(ctx, "deleteByDid", func() error {
		tx := p.db.WithContext(ctx).Where("did = ?", did)
		if len(exceptSeqs) > 0 {
			tx = tx.Where("seq NOT IN ?", exceptSeqs)
		}
		return tx.Delete(&models.RepoSeq{}).Error
	})
}

// InvalidateSeqs hides the given rows from range queries without deleting
// them.
func (p *DbPersistence) InvalidateSeqs(ctx context.Context, seqs []int64) error {
	if len(seqs) == 0 {
		return nil
	}
	return p.retry(ctx, "invalidateSeqs", func() error {
		return p.db.WithContext(ctx).Model(&models.RepoSeq{}).Where("seq IN ?", seqs).Update("invalidated", true).Error
	})
}

// retry runs op until it succeeds, fails with a non-transient error, or runs
// out of attempts. The error returned is always op's own last error.
func (p *DbPersistence) retry(ctx context.Context, name string, op func() error) error {
	var lastErr error
	attempt := 0
	_, _ = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		lastErr = op()
		if lastErr == nil {
			return struct{}{}, nil
		}
		if !isTransientDbError(lastErr) {
			return struct{}{}, backoff.Permanent(lastErr)
		}
		dbRetries.WithLabelValues(name).Inc()
		p.logger.Warn("retrying database statement", "op", name, "attempt", attempt, "err", lastErr)
		return struct{}{}, lastErr
	},
		backoff.WithBackOff(newStatementBackoff()),
		backoff.WithMaxTries(p.maxTries),
	)
	if lastErr == nil && ctx.Err() != nil && attempt == 0 {
		return ctx.Err()
	}
	return lastErr
}

func newStatementBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = time.Second
	return b
}

func isTransientDbError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		// serialization_failure, deadlock_detected, admin_shutdown, cannot_connect_now
		case "40001", "40P01", "57P01", "57P03":
			return true
		}
	}
	return false
}
