package journal

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flaboy/aira-catalog/pkg/errors"
)

// SyncRun is one export or import invocation.
type SyncRun struct {
	ID         uint   `gorm:"primaryKey"`
	Direction  string `gorm:"size:16;index"`
	TablePath  string `gorm:"size:500"`
	DryRun     bool
	Records    int
	Skipped    int
	Status     string `gorm:"size:16;default:'running'"`
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (r *SyncRun) TableName() string {
	return "ar_catalog_sync_runs"
}

// SyncEntry is one per-row decision inside a run.
type SyncEntry struct {
	ID              uint   `gorm:"primaryKey"`
	RunID           uint   `gorm:"index"`
	Row             int
	Code            string `gorm:"size:255;index"`
	Action          string `gorm:"size:32"`
	Detail          string `gorm:"size:1000"`
	StripeProductID string `gorm:"size:255"`
	StripePriceID   string `gorm:"size:255"`
	CreatedAt       time.Time
}

func (e *SyncEntry) TableName() string {
	return "ar_catalog_sync_entries"
}

// Entry actions.
const (
	ActionExported          = "exported"
	ActionCreated           = "created"
	ActionSkippedReconciled = "skipped_reconciled"
	ActionSkippedValidation = "skipped_validation"
	ActionSkippedNoImage    = "skipped_no_image"
)

// Journal records runs and per-row outcomes in a local sqlite file.
// A nil Journal is valid and drops everything, so pipelines can record
// unconditionally.
type Journal struct {
	db *gorm.DB
}

func Open(path string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrJournalOpenFailed, err)
	}
	if err := db.AutoMigrate(&SyncRun{}, &SyncEntry{}); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrJournalOpenFailed, err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Begin(direction, tablePath string, dryRun bool) *SyncRun {
	run := &SyncRun{
		Direction: direction,
		TablePath: tablePath,
		DryRun:    dryRun,
		Status:    "running",
		StartedAt: time.Now(),
	}
	if j != nil {
		j.db.Create(run)
	}
	return run
}

func (j *Journal) Record(run *SyncRun, entry *SyncEntry) {
	if j == nil {
		return
	}
	entry.RunID = run.ID
	j.db.Create(entry)
}

// LastRun returns the most recently started run, or nil when the
// journal is empty.
func (j *Journal) LastRun() (*SyncRun, error) {
	if j == nil {
		return nil, nil
	}
	var run SyncRun
	err := j.db.Order("id desc").First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (j *Journal) Entries(runID uint) ([]SyncEntry, error) {
	if j == nil {
		return nil, nil
	}
	var entries []SyncEntry
	err := j.db.Where("run_id = ?", runID).Order("id").Find(&entries).Error
	return entries, err
}

func (j *Journal) Finish(run *SyncRun, status string, records, skipped int) {
	if j == nil {
		return
	}
	now := time.Now()
	run.Status = status
	run.Records = records
	run.Skipped = skipped
	run.FinishedAt = &now
	j.db.Save(run)
}
