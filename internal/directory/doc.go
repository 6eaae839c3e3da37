// Package directory manages the filesystem directories an application
// declares in its configuration.
//
// A Registry holds the declared directories (logical name to path) and
// materializes them: missing directories are created with mode 0775 at
// registration time, existing ones are left alone. A Cleaner erases the
// contents of selected directories on demand while keeping the directories
// themselves. Neither component ever removes a declared directory.
//
// All operations are synchronous and assume a single process owns the
// directories while they run.
package directory
