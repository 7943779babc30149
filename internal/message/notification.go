package message

import "strings"

// Kind is the closed set of sync notification types.
type Kind int

// Notification kinds. KindUnknown covers every tag not listed here.
const (
	KindUnknown Kind = iota
	KindSyncDone
	KindSyncError
	KindMultipartUpload
	KindFSLoaded
	KindCrossRepoMove
	KindDelConfirmation
	KindDelRepoConfirmation
	KindGetShareLink
	KindGetInternalLink
	KindGetUploadLink
	KindViewFileHistory
)

// Notification tags as sent by the daemon.
const (
	TagSyncDone            = "sync.done"
	TagSyncError           = "sync.error"
	TagMultipartUpload     = "sync.multipart_upload"
	TagFSLoaded            = "fs-loaded"
	TagCrossRepoMovePrefix = "cross-repo-move."
	TagDelConfirmation     = "del_confirmation"
	TagDelRepoConfirmation = "del_repo_confirmation"
	TagGetShareLink        = "action.get_share_link"
	TagGetInternalLink     = "action.get_internal_link"
	TagGetUploadLink       = "action.get_upload_link"
	TagViewFileHistory     = "action.view_file_history"
)

var kindByTag = map[string]Kind{
	TagSyncDone:            KindSyncDone,
	TagSyncError:           KindSyncError,
	TagMultipartUpload:     KindMultipartUpload,
	TagFSLoaded:            KindFSLoaded,
	TagDelConfirmation:     KindDelConfirmation,
	TagDelRepoConfirmation: KindDelRepoConfirmation,
	TagGetShareLink:        KindGetShareLink,
	TagGetInternalLink:     KindGetInternalLink,
	TagGetUploadLink:       KindGetUploadLink,
	TagViewFileHistory:     KindViewFileHistory,
}

// ParseKind maps a type tag to its Kind.
func ParseKind(tag string) Kind {
	if strings.HasPrefix(tag, TagCrossRepoMovePrefix) {
		return KindCrossRepoMove
	}
	if k, ok := kindByTag[tag]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindSyncDone:
		return TagSyncDone
	case KindSyncError:
		return TagSyncError
	case KindMultipartUpload:
		return TagMultipartUpload
	case KindFSLoaded:
		return TagFSLoaded
	case KindCrossRepoMove:
		return "cross-repo-move"
	case KindDelConfirmation:
		return TagDelConfirmation
	case KindDelRepoConfirmation:
		return TagDelRepoConfirmation
	case KindGetShareLink:
		return TagGetShareLink
	case KindGetInternalLink:
		return TagGetInternalLink
	case KindGetUploadLink:
		return TagGetUploadLink
	case KindViewFileHistory:
		return TagViewFileHistory
	default:
		return "unknown"
	}
}

// IsLinkAction reports whether the kind asks for a platform action.
func (k Kind) IsLinkAction() bool {
	switch k {
	case KindGetShareLink, KindGetInternalLink, KindGetUploadLink, KindViewFileHistory:
		return true
	}
	return false
}

// MoveSubtype is the last segment of a cross-repo-move tag.
type MoveSubtype string

// Known move subtypes.
const (
	MoveStart MoveSubtype = "start"
	MoveDone  MoveSubtype = "done"
	MoveError MoveSubtype = "error"
)

// SyncInfo holds the fields of sync lifecycle notifications.
type SyncInfo struct {
	RepoID         string
	RepoName       string
	CommitID       string
	ParentCommitID string
	CommitDesc     string
	// Error is set only for sync.error.
	Error *SyncErrorInfo
}

// SyncErrorInfo describes the error carried by a sync.error notification.
type SyncErrorInfo struct {
	ID      int64
	Path    string
	Message string
}

// MoveInfo holds the fields of cross-repo-move notifications.
type MoveInfo struct {
	Subtype MoveSubtype
	SrcPath string
	DstPath string
}

// ConfirmationInfo holds the fields of deletion confirmation requests.
type ConfirmationInfo struct {
	RepoName       string
	ConfirmationID string
	// DeleteFilesSummary is only sent with del_confirmation.
	DeleteFilesSummary string
}

// LinkActionInfo holds the fields of action.* notifications.
type LinkActionInfo struct {
	RepoID   string
	RepoPath string
	DomainID string
	IsDir    bool
}

// SyncNotification is one entry from the sync notification channel. At most
// one of the variant pointers is set, selected by Kind.
type SyncNotification struct {
	Type string
	Kind Kind

	Sync         *SyncInfo
	Move         *MoveInfo
	Confirmation *ConfirmationInfo
	Link         *LinkActionInfo
}

// DecodeSyncNotification decodes a sync notification payload. catalog turns
// sync error ids into messages; nil means DefaultCatalog.
func DecodeSyncNotification(p Payload, catalog ErrorCatalog) SyncNotification {
	if catalog == nil {
		catalog = DefaultCatalog
	}

	n := SyncNotification{Type: p.Type()}
	n.Kind = ParseKind(n.Type)

	switch n.Kind {
	case KindSyncDone, KindSyncError, KindMultipartUpload:
		info := &SyncInfo{
			RepoID:         p.String("repo_id"),
			RepoName:       p.String("repo_name"),
			CommitID:       p.String("commit_id"),
			ParentCommitID: p.String("parent_commit_id"),
			CommitDesc:     p.String("commit_desc"),
		}
		if n.Kind == KindSyncError {
			id := p.Int64("err_id")
			path := p.String("path")
			info.Error = &SyncErrorInfo{
				ID:      id,
				Path:    path,
				Message: catalog(id, path),
			}
		}
		n.Sync = info

	case KindCrossRepoMove:
		n.Move = &MoveInfo{
			Subtype: MoveSubtype(n.Type[strings.LastIndex(n.Type, ".")+1:]),
			SrcPath: p.String("srcpath"),
			DstPath: p.String("dstpath"),
		}

	case KindDelConfirmation:
		n.Confirmation = &ConfirmationInfo{
			RepoName:           p.String("repo_name"),
			ConfirmationID:     p.String("confirmation_id"),
			DeleteFilesSummary: p.String("delete_files"),
		}

	case KindDelRepoConfirmation:
		n.Confirmation = &ConfirmationInfo{
			RepoName:       p.String("repo_name"),
			ConfirmationID: p.String("confirmation_id"),
		}

	case KindGetShareLink, KindGetInternalLink, KindGetUploadLink, KindViewFileHistory:
		n.Link = &LinkActionInfo{
			RepoID:   p.String("repo_id"),
			RepoPath: p.String("repo_path"),
			DomainID: p.String("domain_id"),
			IsDir:    p.Bool("is_dir"),
		}
	}

	return n
}
