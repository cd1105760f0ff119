package env

// MainDB is the name addressing the unnamed main sub-database.
const MainDB = ":main:"

// Options configures opening an environment.
type Options struct {
	// Path is the environment directory.
	Path string
	// CacheSizeMB sizes the block cache in megabytes.
	CacheSizeMB int
	// MaxDBs bounds the number of named sub-databases.
	MaxDBs int
	// ReadOnly opens the environment without write access.
	ReadOnly bool
	// Create allows creating the environment if it does not exist.
	// Admin commands normally require an existing environment.
	Create bool
}

// Errors
var (
	ErrKeyNotFound = &EnvError{"key not found"}
	ErrNoSuchDB    = &EnvError{"no such sub-database"}
	ErrMainDrop    = &EnvError{"cannot drop main sub-database"}
	ErrTooManyDBs  = &EnvError{"sub-database limit reached"}
	ErrReadOnly    = &EnvError{"environment opened read-only"}
	ErrTxnDone     = &EnvError{"transaction already finished"}
)

// EnvError represents an environment-level error.
type EnvError struct {
	Message string
}

func (e *EnvError) Error() string {
	return e.Message
}
