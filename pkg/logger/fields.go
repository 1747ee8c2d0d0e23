package logger

// Standard field names for consistent logging.
const (
	FieldService   = "service"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldUserID    = "user_id"
	FieldSessionID = "session_id"
	FieldRecordID  = "record_id"
	FieldKind      = "kind"
	FieldProofPath = "proof_path"
)
