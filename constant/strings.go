package constant

// Context keys
const (
	RequestIDKey = "request_id"
)

// HTTP header names
const (
	HeaderRequestID = "X-Request-ID"
)

// Function/Context names
const (
	// Domain context names
	CtxDomain   = "domain"
	CtxGenerate = "Generate"
	CtxRender   = "Render"
	CtxIndex    = "WriteIndex"

	// Infrastructure context names
	CtxDB      = "db"
	CtxRecord  = "Record"
	CtxRecent  = "Recent"
	CtxClose   = "Close"
	CtxEncoder = "Encoder"
	CtxAPI     = "api"

	// General context names
	CtxRouter     = "Router"
	CtxMain       = "Main"
	CtxServePage  = "ServePageQRCode"
	CtxListPages  = "ListPages"
	CtxHistoryCmd = "History"
)

// Data field keys
const (
	// Generator data fields
	DataService   = "service"
	DataBaseURL   = "base_url"
	DataPage      = "page"
	DataURL       = "url"
	DataFile      = "file"
	DataDir       = "dir"
	DataChecksum  = "checksum"
	DataBytes     = "bytes"
	DataPages     = "pages"
	DataBoxSize   = "box_size"
	DataBorder    = "border"
	DataCacheHit  = "cache_hit"
	DataRunID     = "run_id"
	DataLimit     = "limit"
	DataConfigSrc = "config"
	DataVersion   = "version"

	// Database data fields
	DataPath    = "path"
	DataElapsed = "elapsed"
	DataRows    = "rows"
	DataSQL     = "sql"
	DataData    = "data"

	// API data fields
	DataMethod     = "method"
	DataStatus     = "status"
	DataLatency    = "latency"
	DataSize       = "size"
	DataRemoteAddr = "remote_addr"
	DataUserAgent  = "user_agent"
	DataPort       = "port"
)

// Error message constants
const (
	ErrUnknownPage     = "unknown page"
	ErrInvalidBoxSize  = "box size must be greater than zero"
	ErrInvalidBorder   = "border must not be negative"
	ErrHistoryDisabled = "generation history is disabled"
)

// Error codes
const (
	ErrCodeAPIRender      = "API001"
	ErrCodeAppConfig      = "APP001"
	ErrCodeAppDBInit      = "APP002"
	ErrCodeAppServerStart = "APP003"
	ErrCodeAppShutdown    = "APP004"
	ErrCodeAppGenerate    = "APP005"
)

// Error types
const (
	ErrTypeAPI = "api"
	ErrTypeApp = "application"
)

// API routes
const (
	RoutePages       = "/api/pages"
	RoutePageQRCode  = "/qr/{page}.png"
	RouteHealthcheck = "/health"
)

// Query parameters
const (
	QueryBaseURL = "base"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStderr    = "stderr"
)

// Console output
const (
	MsgGeneratingFor    = "Generating QR codes for: %s\n"
	MsgCreatedDir       = "Created directory: %s\n"
	MsgCreatedFile      = "✓ Created: %s -> %s\n"
	MsgGeneratedSuccess = "\nQR codes generated successfully!\n"
	MsgUsageHeader      = "\nTo use these QR codes:\n"
	MsgUsageStep1       = "1. Update the base_url if deploying to a different host\n"
	MsgUsageStep2       = "2. Re-run this script with your final URL\n"
	MsgUsageStep3       = "3. The QR codes will automatically work with the HTML page\n"
	MsgWroteIndex       = "✓ Index: %s\n"
	SeparatorWidth      = 50
)

// Message constants for application
const (
	MsgFailedToLoadConfig   = "Failed to load configuration"
	MsgInvalidRenderOptions = "Invalid render options"
	MsgFailedToInitDB       = "Failed to initialize history database"
	MsgGenerationFailed     = "QR code generation failed"
	MsgServerStarting       = "Server starting"
	MsgServerFailedToStart  = "Server failed to start"
	MsgServerShuttingDown   = "Server shutting down"
	MsgServerShutdownError  = "Error during server shutdown"
	MsgServerStopped        = "Server stopped"
	MsgRequestReceived      = "Request received"
	MsgRequestCompleted     = "Request completed"
	MsgSettingUpRoutes      = "Setting up API routes"
	MsgHealthcheckRequest   = "Handling healthcheck request"
	MsgHealthy              = "Healthy"
)

// Cache namespace prefix for rendered page images
const (
	PageImageNamespace = "PAGE"
)

// Output file naming
const (
	ImageSuffix   = "_qr.png"
	PageExtension = ".html"
	IndexFileName = "index.md"
)
