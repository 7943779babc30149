package classify

import (
	"regexp"
	"strings"

	"github.com/seadrive-io/seadrive-tray/internal/i18n"
	"github.com/seadrive-io/seadrive-tray/internal/message"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

// Preferences exposes the user settings the rules depend on.
type Preferences interface {
	Notify() bool
	HideWindowsIncompatiblePathMsg() bool
}

// AccountResolver finds the account a daemon domain id belongs to.
type AccountResolver interface {
	AccountByDomainID(domainID string) (models.Account, bool)
}

// Rules classifies notifications. A nil Accounts resolver makes every
// platform action a no-op.
type Rules struct {
	Prefs    Preferences
	Accounts AccountResolver
	Tr       *i18n.Translator
}

// NewRules creates rules with an English translator when tr is nil.
func NewRules(prefs Preferences, accounts AccountResolver, tr *i18n.Translator) *Rules {
	if tr == nil {
		tr = i18n.New("en")
	}
	return &Rules{Prefs: prefs, Accounts: accounts, Tr: tr}
}

var deleteSummaryRe = regexp.MustCompile(`Deleted "(.+)" and (.+) more files.`)

// Classify maps a sync notification to at most one action. A nil result
// means nothing should happen.
func (r *Rules) Classify(n message.SyncNotification) Action {
	switch n.Kind {
	case message.KindSyncDone:
		if !r.notify() || n.Sync == nil {
			return nil
		}
		return ShowMessage{
			Title:          r.Tr.T(`"%s" is synchronized`, n.Sync.RepoName),
			Body:           r.Tr.CommitDesc(n.Sync.CommitDesc),
			RepoID:         n.Sync.RepoID,
			CommitID:       n.Sync.CommitID,
			ParentCommitID: n.Sync.ParentCommitID,
		}

	case message.KindMultipartUpload:
		if !r.notify() || n.Sync == nil {
			return nil
		}
		return ShowMessage{
			Title:          r.Tr.T(`"%s" is being uploaded`, n.Sync.RepoName),
			Body:           r.Tr.CommitDesc(n.Sync.CommitDesc),
			RepoID:         n.Sync.RepoID,
			CommitID:       n.Sync.CommitID,
			ParentCommitID: n.Sync.ParentCommitID,
		}

	case message.KindSyncError:
		return r.syncError(n)

	case message.KindFSLoaded:
		return FSLoaded{
			Title: r.Tr.T(`Libraries are ready`),
			Body:  r.Tr.T(`All libraries are loaded and ready to use.`),
		}

	case message.KindCrossRepoMove:
		return r.crossRepoMove(n)

	case message.KindDelConfirmation:
		c := n.Confirmation
		if c == nil {
			return nil
		}
		var text string
		if m := deleteSummaryRe.FindStringSubmatch(strings.TrimSpace(c.DeleteFilesSummary)); m != nil {
			text = r.Tr.T(`Deleted "%s" and %s more files.`, m[1], m[2])
		}
		return Confirm{
			Kind:           n.Kind,
			ConfirmationID: c.ConfirmationID,
			Text:           text,
			Info:           r.Tr.T(`Do you want to delete files in library "%s" ?`, strings.TrimSpace(c.RepoName)),
		}

	case message.KindDelRepoConfirmation:
		c := n.Confirmation
		if c == nil {
			return nil
		}
		name := strings.TrimSpace(c.RepoName)
		return Confirm{
			Kind:           n.Kind,
			ConfirmationID: c.ConfirmationID,
			Text:           r.Tr.T(`Deleted library "%s"`, name),
			Info:           r.Tr.T(`Confirm to delete library "%s" ?`, name),
		}

	case message.KindGetShareLink:
		return r.platformAction(OpShareLink, n.Link)
	case message.KindGetInternalLink:
		return r.platformAction(OpInternalLink, n.Link)
	case message.KindGetUploadLink:
		return r.platformAction(OpUploadLink, n.Link)
	case message.KindViewFileHistory:
		return r.platformAction(OpFileHistory, n.Link)
	}

	return nil
}

func (r *Rules) notify() bool {
	return r.Prefs == nil || r.Prefs.Notify()
}

func (r *Rules) syncError(n message.SyncNotification) Action {
	if n.Sync == nil {
		return nil
	}

	var errID int64 = -1
	var errPath, errMsg string
	if e := n.Sync.Error; e != nil {
		errID, errPath, errMsg = e.ID, e.Path, e.Message
	}

	if errID == message.SyncErrorIDInvalidPathOnWindows &&
		r.Prefs != nil && r.Prefs.HideWindowsIncompatiblePathMsg() {
		return nil
	}

	subject := n.Sync.RepoName
	if subject == "" && errPath != "" {
		subject = BaseName(errPath)
	}

	title := r.Tr.T(`Error when syncing`)
	if subject != "" {
		title = r.Tr.T(`Error when syncing "%s"`, subject)
	}

	return ShowMessage{
		Title:    title,
		Body:     errMsg,
		RepoID:   n.Sync.RepoID,
		Severity: SeverityWarning,
	}
}

func (r *Rules) crossRepoMove(n message.SyncNotification) Action {
	if n.Move == nil {
		return nil
	}
	src := BaseName(n.Move.SrcPath)
	dst := ParentPath(n.Move.DstPath) + "/"

	// Unknown subtypes leave title and body empty.
	var title, body string
	switch n.Move.Subtype {
	case message.MoveStart:
		title = r.Tr.T(`Starting to move "%s"`, src)
		body = r.Tr.T(`Starting to move "%s" to "%s"`, src, dst)
	case message.MoveDone:
		title = r.Tr.T(`Successfully moved "%s"`, src)
		body = r.Tr.T(`Successfully moved "%s" to "%s"`, src, dst)
	case message.MoveError:
		title = r.Tr.T(`Failed to move "%s"`, src)
		body = r.Tr.T(`Failed to move "%s" to "%s"`, src, dst)
	}

	return ShowMessage{Title: title, Body: body, Severity: SeverityInfo}
}

func (r *Rules) platformAction(op PlatformOp, link *message.LinkActionInfo) Action {
	if link == nil || r.Accounts == nil {
		return nil
	}
	account, ok := r.Accounts.AccountByDomainID(link.DomainID)
	if !ok || !account.IsValid() {
		return nil
	}
	return PlatformAction{
		Op:       op,
		Account:  account,
		RepoID:   link.RepoID,
		RepoPath: link.RepoPath,
		IsDir:    link.IsDir,
	}
}

// ClassifyFsEvent maps a filesystem event to at most one action.
func (r *Rules) ClassifyFsEvent(ev message.FsOpEvent) Action {
	name := BaseName(ev.Path)
	switch ev.Kind {
	case message.FsEventDownloadStart:
		return ShowMessage{
			Title: r.Tr.T(`Download file`),
			Body:  r.Tr.T(`Start to download file "%s" `, name),
		}
	case message.FsEventDownloadDone:
		return ShowMessage{
			Title: r.Tr.T(`Download file`),
			Body:  r.Tr.T(`file "%s" has been downloaded `, name),
		}
	case message.FsEventCreateRootFile:
		return ShowWarning{
			Title: r.Tr.T(`Failed to create file "%s"`, name),
			Body:  r.Tr.T(`You can't create files in the mount folder directly ("%s")`, name),
		}
	case message.FsEventRemoveRepo:
		return ShowWarning{
			Title: r.Tr.T(`Failed to delete folder`),
			Body:  r.Tr.T(`You can't delete the library "%s" directly`, name),
		}
	}
	return nil
}
