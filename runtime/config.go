package runtime

// Config holds guest runtime configuration.
type Config struct {
	// MainExport is called once by Main.
	MainExport string
	// UpdateExport is called every frame with the host time in nanoseconds.
	UpdateExport string
	// FramebufferExport returns the guest address of its framebuffer.
	FramebufferExport string
	// MemoryExport is the required linear memory export.
	MemoryExport string

	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// DefaultConfig returns the export names cartridges are built with.
func DefaultConfig() Config {
	return Config{
		MainExport:        "main",
		UpdateExport:      "update",
		FramebufferExport: "get_framebuffer_ptr",
		MemoryExport:      "memory",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MainExport == "" {
		c.MainExport = d.MainExport
	}
	if c.UpdateExport == "" {
		c.UpdateExport = d.UpdateExport
	}
	if c.FramebufferExport == "" {
		c.FramebufferExport = d.FramebufferExport
	}
	if c.MemoryExport == "" {
		c.MemoryExport = d.MemoryExport
	}
	return c
}
