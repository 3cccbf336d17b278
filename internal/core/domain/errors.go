package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrTaskNotFound is returned when a task or a dependency reference does not exist in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrGraphTooDeep is returned when a dependency chain exceeds MaxGraphDepth.
	ErrGraphTooDeep = zerr.New("dependency chain exceeds maximum depth")

	// ErrInvalidTaskName is returned when a task name contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrReservedTaskName is returned when a custom task shadows a built-in task.
	ErrReservedTaskName = zerr.New("task name is reserved for a built-in task")

	// ErrNoTargetsSpecified is returned when no targets are specified for the run command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrTaskFailed is returned when a command exits with a non-zero status.
	ErrTaskFailed = zerr.New("task failed")

	// ErrCommandNotFound is returned when the executable for a task cannot be found.
	ErrCommandNotFound = zerr.New("command not found")

	// ErrTaskTimeout is returned when a task exceeds its configured timeout.
	ErrTaskTimeout = zerr.New("task timed out")

	// ErrTaskCrashed is returned when an execution unit panics before producing a result.
	ErrTaskCrashed = zerr.New("task execution crashed")

	// ErrUnsupportedInternalOp is returned when an internal action has no handler.
	ErrUnsupportedInternalOp = zerr.New("unsupported internal operation")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrCacheCorrupted is returned when the persisted build cache cannot be decoded.
	ErrCacheCorrupted = zerr.New("build cache is corrupted, run 'forge clean' to reset it")

	// ErrCacheReadFailed is returned when the build cache cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read build cache")

	// ErrCacheWriteFailed is returned when the build cache cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write build cache")

	// ErrCacheCleanFailed is returned when the cache directory cannot be removed.
	ErrCacheCleanFailed = zerr.New("failed to remove cache directory")

	// ErrFileHashFailed is returned when hashing a source file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrSourceWalkFailed is returned when the source tree cannot be walked.
	ErrSourceWalkFailed = zerr.New("failed to walk source directory")

	// ErrRemoteRequestFailed is returned when a remote cache request fails.
	ErrRemoteRequestFailed = zerr.New("remote cache request failed")

	// ErrRemoteChecksumMismatch is returned when a downloaded artifact does not match its checksum.
	ErrRemoteChecksumMismatch = zerr.New("remote artifact checksum mismatch")

	// ErrArchiveFailed is returned when the output directory cannot be archived.
	ErrArchiveFailed = zerr.New("failed to archive output directory")

	// ErrExtractFailed is returned when a downloaded archive cannot be unpacked.
	ErrExtractFailed = zerr.New("failed to extract archive")

	// ErrUnsafeArchivePath is returned when an archive entry escapes the output directory.
	ErrUnsafeArchivePath = zerr.New("archive entry escapes output directory")

	// ErrConfigNotFound is returned when no forge.yaml or forge.hcl can be found.
	ErrConfigNotFound = zerr.New("could not find forge.yaml or forge.hcl")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrMissingProjectName is returned when the project name is empty.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrUnsupportedLanguage is returned when the project language has no toolchain.
	ErrUnsupportedLanguage = zerr.New("unsupported language, expected one of java, kotlin, python")

	// ErrInvalidTimeout is returned when a task timeout cannot be parsed.
	ErrInvalidTimeout = zerr.New("invalid task timeout")

	// ErrDependencyResolutionFailed is returned when project dependencies cannot be resolved.
	ErrDependencyResolutionFailed = zerr.New("dependency resolution failed")

	// ErrInvalidCoordinate is returned when a dependency name is not a group:artifact pair.
	ErrInvalidCoordinate = zerr.New("invalid dependency coordinate, expected group:artifact")

	// ErrMainEntryMissing is returned when running a project without a configured entry point.
	ErrMainEntryMissing = zerr.New("no main entry configured")

	// ErrTestRunnerMissing is returned when JVM tests exist but no JUnit console launcher is configured.
	ErrTestRunnerMissing = zerr.New("no test runner configured, set junit_jar")

	// ErrSourceDirMissing is returned when the source directory does not exist.
	ErrSourceDirMissing = zerr.New("source directory not found")

	// ErrOutputCleanFailed is returned when the output directory cannot be removed.
	ErrOutputCleanFailed = zerr.New("failed to remove output directory")

	// ErrWatchFailed is returned when the source tree cannot be watched for changes.
	ErrWatchFailed = zerr.New("failed to watch source tree")

	// ErrTraceWriteFailed is returned when the build trace cannot be written.
	ErrTraceWriteFailed = zerr.New("failed to write build trace")
)
