package record

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend-hoursledger/internal/db"
	"backend-hoursledger/internal/events"
	"backend-hoursledger/internal/observability"
	"backend-hoursledger/internal/proof"
	"backend-hoursledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Service struct {
	db    db.Querier
	blobs *proof.Store
	hub   *events.Hub
	log   *zap.Logger
}

func NewService(querier db.Querier, blobs *proof.Store, hub *events.Hub, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: querier, blobs: blobs, hub: hub, log: log}
}

// List returns every record of the given kind owned by userID, newest first.
func (s *Service) List(ctx context.Context, kind Kind, userID string) ([]Record, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT id, user_id, name, hours_attended, proof_file_path, proof_file_name, proof_file_type, proof_file_size, created_at
		FROM %s WHERE user_id = $1
		ORDER BY created_at DESC
	`, kind.Table()), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.HoursAttended,
			&r.ProofFilePath, &r.ProofFileName, &r.ProofFileType, &r.ProofFileSize, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Create validates the input and optional proof file, stores the blob first,
// then inserts the row referencing it. A failed insert deletes the
// just-written blob so no orphan is left behind.
func (s *Service) Create(ctx context.Context, kind Kind, userID string, input CreateInput, upload *ProofUpload) (Record, error) {
	if !kind.Valid() {
		return Record{}, ErrUnknownKind
	}
	if strings.TrimSpace(input.Name) == "" {
		return Record{}, ErrNameRequired
	}
	if !ValidHours(input.HoursAttended) {
		return Record{}, ErrInvalidHours
	}

	rec := Record{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          input.Name,
		HoursAttended: input.HoursAttended,
	}

	if upload != nil {
		if err := proof.Validate(upload.DeclaredType, int64(len(upload.Data))); err != nil {
			observability.ProofRejected(rejectReason(err))
			return Record{}, err
		}

		path, err := s.blobs.Save(userID, upload.Name, upload.Data)
		if err != nil {
			return Record{}, err
		}
		size := int64(len(upload.Data))
		rec.ProofFilePath = &path
		rec.ProofFileName = &upload.Name
		rec.ProofFileType = &upload.DeclaredType
		rec.ProofFileSize = &size
		observability.ProofUploaded()
	}

	row := s.db.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, hours_attended, proof_file_path, proof_file_name, proof_file_type, proof_file_size)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, kind.Table()), rec.ID, rec.UserID, rec.Name, rec.HoursAttended,
		rec.ProofFilePath, rec.ProofFileName, rec.ProofFileType, rec.ProofFileSize)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		if rec.ProofFilePath != nil {
			if rmErr := s.blobs.Remove(*rec.ProofFilePath); rmErr != nil {
				s.log.Warn("orphan blob cleanup failed",
					zap.String(logger.FieldProofPath, *rec.ProofFilePath),
					zap.Error(rmErr))
			}
		}
		return Record{}, err
	}

	observability.RecordCreated(string(kind))
	s.hub.Publish(userID, events.Event{Type: events.TypeRecordCreated, Kind: string(kind), RecordID: rec.ID})
	s.log.Info("record created",
		zap.String(logger.FieldKind, string(kind)),
		zap.String(logger.FieldRecordID, rec.ID),
		zap.String(logger.FieldUserID, userID))
	return rec, nil
}

// DownloadProof fetches the blob referenced by an owned record, with its
// original name and declared type.
func (s *Service) DownloadProof(ctx context.Context, kind Kind, userID, id string) (ProofDownload, error) {
	if !kind.Valid() {
		return ProofDownload{}, ErrUnknownKind
	}

	row := s.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT proof_file_path, proof_file_name, proof_file_type
		FROM %s WHERE id = $1 AND user_id = $2
	`, kind.Table()), id, userID)

	var path, name, declaredType *string
	if err := row.Scan(&path, &name, &declaredType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProofDownload{}, ErrNotFound
		}
		return ProofDownload{}, err
	}
	if path == nil {
		return ProofDownload{}, ErrNoProof
	}

	data, err := s.blobs.Read(*path)
	if err != nil {
		return ProofDownload{}, err
	}
	return ProofDownload{Name: *name, DeclaredType: *declaredType, Data: data}, nil
}

// Delete removes an owned record. The proof blob goes first, best-effort: a
// missing blob or a failed remove never blocks the row delete. A failed row
// delete after a successful blob delete leaves the record visible with its
// proof gone; there is no compensating action for that case.
func (s *Service) Delete(ctx context.Context, kind Kind, userID, id string) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}

	row := s.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT proof_file_path FROM %s WHERE id = $1 AND user_id = $2
	`, kind.Table()), id, userID)

	var path *string
	if err := row.Scan(&path); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if path != nil {
		if err := s.blobs.Remove(*path); err != nil {
			s.log.Warn("proof blob remove failed",
				zap.String(logger.FieldProofPath, *path),
				zap.Error(err))
		}
	}

	tag, err := s.db.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1 AND user_id = $2
	`, kind.Table()), id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	observability.RecordDeleted(string(kind))
	s.hub.Publish(userID, events.Event{Type: events.TypeRecordDeleted, Kind: string(kind), RecordID: id})
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, proof.ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, proof.ErrUnsupportedFileType):
		return "unsupported_type"
	default:
		return "other"
	}
}
