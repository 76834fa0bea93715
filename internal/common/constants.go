package common

// Environment variable keys
const (
	EnvConfigFile      = "CONFIG_FILE"
	EnvModelPath       = "MODEL_PATH"
	EnvServerPort      = "SERVER_PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvErrorLogPath    = "ERROR_LOG_PATH"
	EnvCacheSize       = "CACHE_SIZE"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvAPIURL          = "DELAY_API_URL"
)

// Configuration defaults
const (
	DefaultModelPath       = "models/delay_model.db"
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultErrorLogPath    = "logs/error_logs.txt"
	DefaultCacheSize       = 1024
	DefaultAPIURL          = "http://localhost:8080"
	DefaultDotEnvFile      = ".env"
	DefaultErrorLogMaxMB   = 10
	DefaultErrorLogBackups = 3
)

// Validation constants
const (
	MinServerPort = 1024
	MaxServerPort = 65535
	MaxCacheSize  = 1 << 20
)

// Month bounds accepted at the request boundary.
const (
	MinMonth = 1
	MaxMonth = 12
)

// ValidAirlines lists the operators accepted by the request layer, lower-cased.
var ValidAirlines = []string{
	"american airlines",
	"air canada",
	"air france",
	"aeromexico",
	"aerolineas argentinas",
	"austral",
	"avianca",
	"alitalia",
	"british airways",
	"copa air",
	"delta air",
	"gol trans",
	"iberia",
	"k.l.m.",
	"qantas airways",
	"united airlines",
	"grupo latam",
	"sky airline",
	"latin american wings",
	"plus ultra lineas aereas",
	"jetsmart spa",
	"oceanair linhas aereas",
	"lacsa",
}

// ValidFlightTypes lists the accepted flight type codes: international and national.
var ValidFlightTypes = []string{"I", "N"}
