// Package version provides version information for the routegen CLI.
package version

// Version is set via ldflags during build.
var Version = "dev"

// GeneratorSchemaVersion is bumped when the generated code format changes
// in a way that requires regeneration. It is stamped into every generated
// module header.
const GeneratorSchemaVersion = 1

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetGeneratorSchemaVersion returns the current generator schema version.
func GetGeneratorSchemaVersion() int {
	return GeneratorSchemaVersion
}
