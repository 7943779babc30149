package classify

import "strings"

// BaseName returns the last element of a daemon path. Daemon paths always
// use forward slashes regardless of the client OS.
func BaseName(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ParentPath returns everything before the last slash, or "" when there is none.
func ParentPath(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}
