package message

// FsEventKind classifies a filesystem event reported by the daemon.
type FsEventKind int

// Filesystem event kinds.
const (
	FsEventUnknown FsEventKind = iota
	FsEventCreateRootFile
	FsEventRemoveRepo
	FsEventDownloadStart
	FsEventDownloadDone
)

// Filesystem event tags.
const (
	TagCreateRootFile = "fs_op_error.create_root_file"
	TagRemoveRepo     = "fs_op_error.remove_repo"
	TagDownloadStart  = "file-download.start"
	TagDownloadDone   = "file-download.done"
)

func (k FsEventKind) String() string {
	switch k {
	case FsEventCreateRootFile:
		return "create_root_file"
	case FsEventRemoveRepo:
		return "remove_repo"
	case FsEventDownloadStart:
		return "download_start"
	case FsEventDownloadDone:
		return "download_done"
	default:
		return "unknown"
	}
}

// FsOpEvent is one entry from the filesystem events channel.
type FsOpEvent struct {
	Kind    FsEventKind
	Path    string
	RawType string
}

// IsError reports whether the event describes a rejected filesystem operation.
func (e FsOpEvent) IsError() bool {
	return e.Kind == FsEventCreateRootFile || e.Kind == FsEventRemoveRepo
}

// DecodeFsOpEvent decodes a filesystem events payload.
func DecodeFsOpEvent(p Payload) FsOpEvent {
	tag := p.Type()
	ev := FsOpEvent{
		Path:    p.String("path"),
		RawType: tag,
	}
	switch tag {
	case TagCreateRootFile:
		ev.Kind = FsEventCreateRootFile
	case TagRemoveRepo:
		ev.Kind = FsEventRemoveRepo
	case TagDownloadStart:
		ev.Kind = FsEventDownloadStart
	case TagDownloadDone:
		ev.Kind = FsEventDownloadDone
	default:
		ev.Kind = FsEventUnknown
	}
	return ev
}
