package binder

const (
	// DefaultMaxPartSize caps the bytes a field decoder may read from one part (10MB).
	DefaultMaxPartSize = 10 << 20
	// DefaultMaxParts caps the number of parts decoded from one body.
	DefaultMaxParts = 256
	// DefaultMaxFormSize caps a URL-encoded request body (1MB).
	DefaultMaxFormSize = 1 << 20
)

// Config holds decoding limits. A zero or negative value disables the limit.
// Load it from the environment with config.Load.
type Config struct {
	MaxPartSize int64 `env:"MULTIPART_MAX_PART_SIZE" envDefault:"10485760"`
	MaxParts    int   `env:"MULTIPART_MAX_PARTS" envDefault:"256"`
	MaxFormSize int64 `env:"FORM_MAX_SIZE" envDefault:"1048576"`
}

// DefaultConfig returns the limits used by NewSchema.
func DefaultConfig() Config {
	return Config{
		MaxPartSize: DefaultMaxPartSize,
		MaxParts:    DefaultMaxParts,
		MaxFormSize: DefaultMaxFormSize,
	}
}
