package build_info

var (
	// Set by the build system through ldflags
	Version   = "dev"
	BuildDate = "unknown"
)
