package errors

import (
	"fmt"

	"github.com/flaboy/pin/usererrors"
)

// 同步相关错误
var (
	ErrSecretKeyMissing  = usererrors.New("catalog.secret_key_missing", "Stripe secret key is not configured")
	ErrWorkbookOpen      = usererrors.New("catalog.workbook_open_failed", "Failed to open catalog workbook")
	ErrWorkbookEmpty     = usererrors.New("catalog.workbook_empty", "Catalog workbook has no header row")
	ErrImageDirMissing   = usererrors.New("catalog.image_dir_missing", "Image directory does not exist")
	ErrJournalOpenFailed = usererrors.New("catalog.journal_open_failed", "Failed to open sync journal")
)

// Kind classifies a sync failure. The kind decides the run policy:
// config and structure errors are fatal before any row work, validation
// errors skip the row, image and remote errors abort the run.
type Kind string

const (
	ConfigError         Kind = "config"
	StructureError      Kind = "structure"
	ValidationError     Kind = "validation"
	ImageDownloadFailed Kind = "image_download_failed"
	ImageMissing        Kind = "image_missing"
	RemoteError         Kind = "remote"
)

// SyncError carries the failure kind together with the row context it
// occurred in, so callers and tests can assert on more than a message.
type SyncError struct {
	Kind    Kind
	Row     int    // 1-based sheet row, 0 when not row-scoped
	Code    string // CODE column value, empty when not row-scoped
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s (code %s)", msg, e.Code)
	}
	if e.Row > 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return string(e.Kind) + ": " + msg
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *SyncError {
	return &SyncError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *SyncError {
	return &SyncError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *SyncError {
	return &SyncError{Kind: kind, Message: message, Err: err}
}

// WithRow returns a copy annotated with the sheet row and record code.
func (e *SyncError) WithRow(row int, code string) *SyncError {
	clone := *e
	clone.Row = row
	clone.Code = code
	return &clone
}

// KindOf reports the kind of err, or the empty kind for plain errors.
func KindOf(err error) Kind {
	if se, ok := err.(*SyncError); ok {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err is a SyncError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
