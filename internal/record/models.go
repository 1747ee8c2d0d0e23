package record

import (
	"errors"
	"math"
	"time"
)

// Kind selects which of the two parallel hour collections an operation
// targets.
type Kind string

const (
	KindSeminar  Kind = "seminar"
	KindActivity Kind = "activity"
)

func (k Kind) Valid() bool {
	return k == KindSeminar || k == KindActivity
}

func (k Kind) Table() string {
	switch k {
	case KindSeminar:
		return "seminar_hours"
	case KindActivity:
		return "activity_hours"
	default:
		return ""
	}
}

// Record is a single seminar-hour or activity-hour entry owned by one user.
// The four proof fields are jointly nil or jointly set.
type Record struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	HoursAttended float64   `json:"hours_attended"`
	ProofFilePath *string   `json:"proof_file_path"`
	ProofFileName *string   `json:"proof_file_name"`
	ProofFileType *string   `json:"proof_file_type"`
	ProofFileSize *int64    `json:"proof_file_size"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateInput carries the user-submitted fields of a new record.
type CreateInput struct {
	Name          string
	HoursAttended float64
}

// ProofUpload is a validated-candidate proof file heading into blob storage.
type ProofUpload struct {
	Name         string
	DeclaredType string
	Data         []byte
}

// ProofDownload is a stored proof blob with its original presentation.
type ProofDownload struct {
	Name         string
	DeclaredType string
	Data         []byte
}

var (
	ErrUnknownKind  = errors.New("unknown record kind")
	ErrNameRequired = errors.New("name is required")
	ErrInvalidHours = errors.New("hours must be at least 0.5 in 0.5 increments")
	ErrNotFound     = errors.New("record not found")
	ErrNoProof      = errors.New("record has no proof file")
)

// ValidHours reports whether h is >= 0.5 and a multiple of 0.5.
func ValidHours(h float64) bool {
	return h >= 0.5 && math.Mod(h*2, 1) == 0
}
