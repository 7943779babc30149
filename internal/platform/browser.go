package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/seadrive-io/seadrive-tray/internal/buildinfo"
	"github.com/seadrive-io/seadrive-tray/internal/models"
)

// Browser creates links through the server web API, copies them to the
// clipboard, and opens history pages in the default browser.
type Browser struct {
	HTTPClient *http.Client
	OpenURL    func(url string) error
	CopyText   func(text string) error
}

// NewBrowser returns a Browser using client, or http.DefaultClient when nil.
func NewBrowser(client *http.Client) *Browser {
	if client == nil {
		client = http.DefaultClient
	}
	return &Browser{
		HTTPClient: client,
		OpenURL:    openURL,
		CopyText:   clipboard.WriteAll,
	}
}

// ShareLink creates a download share link and copies it.
func (b *Browser) ShareLink(ctx context.Context, account models.Account, repoID, path string) error {
	link, err := b.createLink(ctx, account, "/api/v2.1/share-links/", url.Values{
		"repo_id": {repoID},
		"path":    {path},
	})
	if err != nil {
		return fmt.Errorf("create share link: %w", err)
	}
	return b.CopyText(link)
}

// UploadLink creates an upload link for a folder and copies it.
func (b *Browser) UploadLink(ctx context.Context, account models.Account, repoID, path string) error {
	link, err := b.createLink(ctx, account, "/api/v2.1/upload-links/", url.Values{
		"repo_id": {repoID},
		"path":    {path},
	})
	if err != nil {
		return fmt.Errorf("create upload link: %w", err)
	}
	return b.CopyText(link)
}

// InternalLink fetches the smart link of a file or folder and copies it.
func (b *Browser) InternalLink(ctx context.Context, account models.Account, repoID, path string, isDir bool) error {
	q := url.Values{
		"repo_id": {repoID},
		"path":    {path},
		"is_dir":  {fmt.Sprint(isDir)},
	}
	endpoint := apiURL(account, "/api/v2.1/smart-link/") + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	var resp struct {
		SmartLink string `json:"smart_link"`
	}
	if err := b.doJSON(req, account, &resp); err != nil {
		return fmt.Errorf("get internal link: %w", err)
	}
	if resp.SmartLink == "" {
		return fmt.Errorf("get internal link: empty response")
	}
	return b.CopyText(resp.SmartLink)
}

// FileHistory opens the file revisions page in the browser.
func (b *Browser) FileHistory(_ context.Context, account models.Account, repoID, path string) error {
	page := apiURL(account, "/repo/file_revisions/"+url.PathEscape(repoID)+"/") + "?" + url.Values{"p": {path}}.Encode()
	return b.OpenURL(page)
}

func (b *Browser) createLink(ctx context.Context, account models.Account, endpoint string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL(account, endpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		Link string `json:"link"`
	}
	if err := b.doJSON(req, account, &resp); err != nil {
		return "", err
	}
	if resp.Link == "" {
		return "", fmt.Errorf("server returned no link")
	}
	return resp.Link, nil
}

func (b *Browser) doJSON(req *http.Request, account models.Account, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if account.Token != "" {
		req.Header.Set("Authorization", "Token "+account.Token)
	}

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiURL(account models.Account, path string) string {
	return strings.TrimRight(account.ServerURL, "/") + path
}

func openURL(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	return cmd.Start()
}
