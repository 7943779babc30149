// Package i18n formats user-visible strings for the configured language.
package i18n

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Translator formats user-visible strings through an x/text printer. Strings
// without a registered translation are printed as given.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

var supported = language.NewMatcher([]language.Tag{
	language.English,
	language.SimplifiedChinese,
})

// New returns a translator for lang (a BCP 47 tag such as "en" or "zh-CN").
// Unknown or malformed tags fall back to English.
func New(lang string) *Translator {
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, conf := supported.Match(parsed)
			if conf != language.No {
				tag = []language.Tag{language.English, language.SimplifiedChinese}[idx]
			}
		}
	}
	return &Translator{tag: tag, printer: message.NewPrinter(tag)}
}

// Language returns the resolved language tag.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T formats a translatable string.
func (t *Translator) T(format string, args ...any) string {
	return t.printer.Sprintf(format, args...)
}

var (
	commitSingle = regexp.MustCompile(`^(Added|Deleted|Modified|Renamed|Moved|Added directory|Removed directory|Renamed directory|Moved directory) "(.+)"\.$`)
	commitMulti  = regexp.MustCompile(`^(Added|Deleted|Modified|Renamed|Moved|Added directory|Removed directory) "(.+)" and (\d+) more (files|directories)\.$`)
)

// CommitDesc translates a daemon commit description line by line. Lines that
// do not match a known shape are kept verbatim.
func (t *Translator) CommitDesc(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" || t.tag == language.English {
		return desc
	}

	lines := strings.Split(desc, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if m := commitMulti.FindStringSubmatch(line); m != nil {
			lines[i] = t.T(m[1]+` "%s" and %s more `+m[4]+`.`, m[2], m[3])
			continue
		}
		if m := commitSingle.FindStringSubmatch(line); m != nil {
			lines[i] = t.T(m[1]+` "%s".`, m[2])
			continue
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
