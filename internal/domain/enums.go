package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending   FileStatus = "pending"
	FileStatusUploaded  FileStatus = "uploaded"
	FileStatusProcessed FileStatus = "processed"
	FileStatusFailed    FileStatus = "failed"
	FileStatusDeleted   FileStatus = "deleted"
)

// JobStatus is the state of an asynchronous extraction job.
// Completed and failed are terminal; there are no further transitions.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// BillingMode describes which quota bucket a request is charged to.
type BillingMode string

const (
	BillingModeFree    BillingMode = "free"
	BillingModePaid    BillingMode = "paid"
	BillingModeBlocked BillingMode = "blocked"
)

// Confidence labels how many of {bill number, amount} were parsed from a page.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceFor returns high when both fields were found, medium for one,
// and low for none.
func ConfidenceFor(hasBillNo, hasAmount bool) Confidence {
	switch {
	case hasBillNo && hasAmount:
		return ConfidenceHigh
	case hasBillNo || hasAmount:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// DuplicateScope says where a duplicate was detected.
type DuplicateScope string

const (
	// DuplicateScopeBatch: the same bill key appeared twice inside one upload.
	DuplicateScopeBatch DuplicateScope = "batch"
	// DuplicateScopeIndex: the bill key exists from a prior, independent upload.
	DuplicateScopeIndex DuplicateScope = "index"
	// DuplicateScopeFile: the uploaded bytes hash-match an already processed file.
	DuplicateScopeFile DuplicateScope = "file"
)

// Feature flag keys read by the extraction gate.
const (
	FlagOCRService     = "ocr_service"      // kill switch, enabled by default
	FlagPaidOCRConsent = "ocr_paid_consent" // paid-mode consent, disabled by default
)
