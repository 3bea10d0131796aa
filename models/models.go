package models

// RepoSeq is a single row of the sequenced event log.
//
// Seq is assigned by the database on insert and is the only ordering key.
// Event holds the CBOR payload for EventType; the log itself never decodes
// it. Rows are immutable apart from Invalidated.
type RepoSeq struct {
	Seq         int64  `gorm:"primaryKey;autoIncrement"`
	Did         string `gorm:"index;not null"`
	EventType   string `gorm:"index;not null"`
	Event       []byte `gorm:"not null"`
	Invalidated bool   `gorm:"not null;default:false"`
	SequencedAt string `gorm:"index;not null"`
}

func (RepoSeq) TableName() string {
	return "repo_seq"
}
