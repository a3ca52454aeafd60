package config

const (
	// Log defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Store defaults
	DefaultStoreDBPath = "database/filetrail/history.db"

	// Watcher defaults
	DefaultWatcherDebounceMs    = 500
	DefaultWatcherSuppressionMs = 5000
	DefaultWatcherMaxFileSizeMB = 5

	// Diff defaults
	DefaultMaxDiffFileSizeMB = 5

	// Retention defaults
	DefaultRetentionIntervalMinutes = 60
	DefaultRetentionMaxAgeDays      = 30
	DefaultRetentionMaxRecords      = 10000
)

// DefaultWatcherExtensions lists the file extensions recorded by default.
var DefaultWatcherExtensions = []string{
	".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".rb", ".java",
	".c", ".h", ".cpp", ".rs", ".css", ".html", ".json", ".yaml", ".yml",
	".md", ".txt", ".sql", ".sh",
}

// DefaultWatcherIgnoreDirs lists directory names the watcher never descends
// into.
var DefaultWatcherIgnoreDirs = []string{
	".git", ".hg", ".svn", "node_modules", "vendor", "dist", "build",
	"database", ".idea", ".vscode",
}
