// Package storage defines the file system capability used by the config store
// to read, write and check for its canonical file and referenced files.
//
// Responsibilities:
//   - FileSystem only moves bytes for a single named file. It knows nothing
//     about JSON, markers or references.
//   - OSFileSystem is the default and talks to the local disk.
//   - MemoryFileSystem keeps files in a map and supports failure injection so
//     store behaviour can be exercised without touching the disk.
//
// Every method takes a context.Context which is checked before the operation
// starts; a started read or write runs to completion.
package storage
