package gpu

// DefaultMaxTransformDepth is the transform stack capacity, base matrix included.
const DefaultMaxTransformDepth = 64

// Config holds renderer configuration.
type Config struct {
	// MaxTransformDepth bounds the transform stack. 0 means DefaultMaxTransformDepth.
	MaxTransformDepth int
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{MaxTransformDepth: DefaultMaxTransformDepth}
}

func (c Config) maxDepth() int {
	if c.MaxTransformDepth <= 0 {
		return DefaultMaxTransformDepth
	}
	return c.MaxTransformDepth
}
