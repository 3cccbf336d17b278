package domain

import "path/filepath"

const (
	// ForgeDirName is the name of the project-local metadata directory.
	ForgeDirName = ".forge"

	// CacheFileName is the name of the persisted build cache file.
	CacheFileName = "cache.json"

	// TracesDirName is the name of the build trace directory.
	TracesDirName = "traces"

	// DepsDirName is the name of the resolved dependency directory.
	DepsDirName = "deps"

	// ClassesDirName is the name of the compiled class directory inside the output directory.
	ClassesDirName = "classes"

	// TestClassesDirName is the name of the compiled test class directory inside the output directory.
	TestClassesDirName = "test-classes"

	// ConfigFileName is the name of the YAML project configuration file.
	ConfigFileName = "forge.yaml"

	// HCLConfigFileName is the name of the HCL project configuration file.
	HCLConfigFileName = "forge.hcl"

	// DefaultOutputDir is the output directory used when none is configured.
	DefaultOutputDir = "build"

	// DefaultProjectVersion is the project version used when none is configured.
	DefaultProjectVersion = "0.1.0"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// ForgePath returns the metadata directory of the project rooted at projectDir.
func ForgePath(projectDir string) string {
	return filepath.Join(projectDir, ForgeDirName)
}

// CachePath returns the build cache file of the project rooted at projectDir.
// It joins .forge and cache.json.
func CachePath(projectDir string) string {
	return filepath.Join(projectDir, ForgeDirName, CacheFileName)
}

// TracesPath returns the trace directory of the project rooted at projectDir.
// It joins .forge and traces.
func TracesPath(projectDir string) string {
	return filepath.Join(projectDir, ForgeDirName, TracesDirName)
}

// DepsPath returns the resolved dependency directory of the project rooted at projectDir.
func DepsPath(projectDir string) string {
	return filepath.Join(projectDir, ForgeDirName, DepsDirName)
}
