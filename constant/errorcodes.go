package constant

// Batch generator error codes
const (
	// Generator - Filesystem errors (1xx)
	ErrCodeCreateOutputDir = "GEN101"
	ErrCodeWriteImage      = "GEN102"
	ErrCodeWriteIndex      = "GEN103"

	// Generator - Encoding errors (2xx)
	ErrCodeEncodeSymbol = "GEN201"

	// Generator - History errors (3xx)
	ErrCodeRecordHistory = "GEN301"

	// Generator - Lookup errors (4xx)
	ErrCodeUnknownPage = "GEN401"
)

// Renderer error codes
const (
	ErrCodeRenderOptions = "QR001"
	ErrCodeRenderEncode  = "QR002"
	ErrCodeRenderPNG     = "QR003"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Record operation errors (1xx)
	ErrCodeDBInsert = "DB102"

	// List operation errors (2xx)
	ErrCodeDBLookup = "DB201"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeStorage    = "storage"
	ErrTypeEncoding   = "encoding"

	// Infrastructure error types
	ErrTypeDB = "db"
)
