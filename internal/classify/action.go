// Package classify maps decoded daemon events to user-facing actions.
package classify

import (
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

// Action is an instruction for the action sink. The set is closed: ShowMessage,
// ShowWarning, FSLoaded, PlatformAction and Confirm.
type Action interface {
	action()
}

// Severity of a tray message.
type Severity int

// Message severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// ShowMessage shows a tray notification tied to an optional repo/commit.
type ShowMessage struct {
	Title          string
	Body           string
	RepoID         string
	CommitID       string
	ParentCommitID string
	Severity       Severity
}

// ShowWarning shows a warning notification without repo context.
type ShowWarning struct {
	Title string
	Body  string
}

// FSLoaded shows the "libraries ready" message and fires the fs-loaded signal.
type FSLoaded struct {
	Title string
	Body  string
}

// PlatformOp is a platform-specific action requested by the daemon.
type PlatformOp int

// Platform operations.
const (
	OpShareLink PlatformOp = iota
	OpInternalLink
	OpUploadLink
	OpFileHistory
)

func (op PlatformOp) String() string {
	switch op {
	case OpShareLink:
		return "share_link"
	case OpInternalLink:
		return "internal_link"
	case OpUploadLink:
		return "upload_link"
	case OpFileHistory:
		return "file_history"
	default:
		return "unknown"
	}
}

// PlatformAction asks the platform strategy to act on a file for an account.
type PlatformAction struct {
	Op       PlatformOp
	Account  models.Account
	RepoID   string
	RepoPath string
	IsDir    bool
}

// Confirm asks the user a yes/no question that the daemon is waiting on.
type Confirm struct {
	Kind           message.Kind
	ConfirmationID string
	Text           string
	Info           string
}

func (ShowMessage) action()    {}
func (ShowWarning) action()    {}
func (FSLoaded) action()       {}
func (PlatformAction) action() {}
func (Confirm) action()        {}
