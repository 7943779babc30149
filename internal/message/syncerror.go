package message

import "fmt"

// Sync error ids reported by the daemon.
const (
	SyncErrorIDFileLockedByApp int64 = iota
	SyncErrorIDFolderLockedByApp
	SyncErrorIDFileLocked
	SyncErrorIDInvalidPath
	SyncErrorIDIndexError
	SyncErrorIDAccessDenied
	SyncErrorIDQuotaFull
	SyncErrorIDNetwork
	SyncErrorIDResolveProxy
	SyncErrorIDResolveHost
	SyncErrorIDConnect
	SyncErrorIDSSL
	SyncErrorIDTx
	SyncErrorIDTxTimeout
	SyncErrorIDUnhandledRedirect
	SyncErrorIDServer
	SyncErrorIDLocalDataCorrupt
	SyncErrorIDWriteLocalData
	SyncErrorIDPermNotSyncable
	SyncErrorIDNoWritePermission
	SyncErrorIDFolderPermDenied
	SyncErrorIDPathEndSpacePeriod
	SyncErrorIDPathInvalidCharacter
	SyncErrorIDUpdateToReadOnlyRepo
	SyncErrorIDConflict
	SyncErrorIDUpdateNotInRepo
	SyncErrorIDLibraryTooLarge
	SyncErrorIDMoveNotInRepo
	SyncErrorIDDelConfirmationPending
	SyncErrorIDInvalidPathOnWindows
	SyncErrorIDTooManyFiles
	SyncErrorIDBlockMissing
	SyncErrorIDCheckoutFile
	SyncErrorIDCaseConflict
	SyncErrorIDGeneralError
)

var syncErrorMessages = map[int64]string{
	SyncErrorIDFileLockedByApp:        "File is locked by another application",
	SyncErrorIDFolderLockedByApp:      "Folder is locked by another application",
	SyncErrorIDFileLocked:             "File is locked by another user",
	SyncErrorIDInvalidPath:            "Path is invalid",
	SyncErrorIDIndexError:             "Error when indexing",
	SyncErrorIDAccessDenied:           "You don't have permission to access the library",
	SyncErrorIDQuotaFull:              "The storage space of the library owner has been used up",
	SyncErrorIDNetwork:                "Network error",
	SyncErrorIDResolveProxy:           "Cannot resolve proxy address",
	SyncErrorIDResolveHost:            "Cannot resolve server address",
	SyncErrorIDConnect:                "Cannot connect to server",
	SyncErrorIDSSL:                    "Failed to establish secure connection",
	SyncErrorIDTx:                     "Data transfer was interrupted",
	SyncErrorIDTxTimeout:              "Data transfer timed out",
	SyncErrorIDUnhandledRedirect:      "Unhandled http redirect from server",
	SyncErrorIDServer:                 "Server error",
	SyncErrorIDLocalDataCorrupt:       "Internal data corrupted",
	SyncErrorIDWriteLocalData:         "Failed to write data on the client",
	SyncErrorIDPermNotSyncable:        "Permission denied on server",
	SyncErrorIDNoWritePermission:      "You do not have permission to write in this folder",
	SyncErrorIDFolderPermDenied:       "Update to file denied by folder permission setting",
	SyncErrorIDPathEndSpacePeriod:     "File name ends with a space or period",
	SyncErrorIDPathInvalidCharacter:   "File name contains invalid characters",
	SyncErrorIDUpdateToReadOnlyRepo:   "Created or updated a file in a non-writable library or folder",
	SyncErrorIDConflict:               "Concurrent updates to file",
	SyncErrorIDUpdateNotInRepo:        "Updates outside a library are not synced",
	SyncErrorIDLibraryTooLarge:        "Library is too large to sync",
	SyncErrorIDMoveNotInRepo:          "Moving files out of a library is not supported",
	SyncErrorIDDelConfirmationPending: "Waiting for confirmation to delete files",
	SyncErrorIDInvalidPathOnWindows:   "File name is not allowed on Windows",
	SyncErrorIDTooManyFiles:           "Too many files in library",
	SyncErrorIDBlockMissing:           "Failed to download file blocks",
	SyncErrorIDCheckoutFile:           "Failed to check out file",
	SyncErrorIDCaseConflict:           "Path has a case conflict with another file",
	SyncErrorIDGeneralError:           "Unknown error",
}

// ErrorCatalog converts a sync error id and its path into a readable message.
type ErrorCatalog func(id int64, path string) string

// DefaultCatalog is the built-in English error catalog.
func DefaultCatalog(id int64, path string) string {
	msg, ok := syncErrorMessages[id]
	if !ok {
		msg = syncErrorMessages[SyncErrorIDGeneralError]
	}
	switch id {
	case SyncErrorIDInvalidPathOnWindows, SyncErrorIDPathEndSpacePeriod, SyncErrorIDPathInvalidCharacter, SyncErrorIDCaseConflict:
		if path != "" {
			return fmt.Sprintf("%s: %s", msg, path)
		}
	}
	return msg
}

// SyncError is one entry of the daemon's sync error list.
type SyncError struct {
	RepoID    string
	RepoName  string
	Path      string
	ErrorID   int64
	Timestamp int64
	Message   string
}

// DecodeSyncErrors decodes the sync error list. The result is never nil.
func DecodeSyncErrors(items []Payload, catalog ErrorCatalog) []SyncError {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	out := make([]SyncError, 0, len(items))
	for _, p := range items {
		e := SyncError{
			RepoID:    p.String("repo_id"),
			RepoName:  p.String("repo_name"),
			Path:      p.String("path"),
			ErrorID:   p.Int64("err_id"),
			Timestamp: p.Int64("timestamp"),
		}
		e.Message = catalog(e.ErrorID, e.Path)
		out = append(out, e)
	}
	return out
}
