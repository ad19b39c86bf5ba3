// Package i18n holds the display labels for type tags, statuses and the few
// fixed strings the terminal views print.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/idilsaglam/watchlist/internal/model"
)

var supportedTags = []language.Tag{
	language.English,
	language.French,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Default returns the fallback language.
func Default() language.Tag {
	return language.English
}

// Supported returns the languages with a full catalog.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Resolve picks the closest supported language for a locale string such as
// "fr", "fr_CA.UTF-8" or "en-GB". Unparseable values yield Default.
func Resolve(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || strings.EqualFold(locale, "C") || strings.EqualFold(locale, "POSIX") {
		return Default()
	}
	parsed, err := language.Parse(locale)
	if err != nil {
		return Default()
	}
	_, idx, conf := tagMatcher.Match(parsed)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// Labels renders labels in one language.
type Labels struct {
	tag language.Tag
	p   *message.Printer
}

func New(tag language.Tag) *Labels {
	return &Labels{tag: tag, p: message.NewPrinter(tag)}
}

func (l *Labels) Tag() language.Tag { return l.tag }

// Type returns the label for a type tag; unknown tags are returned as-is.
func (l *Labels) Type(t string) string {
	if !model.IsKnownType(t) {
		return t
	}
	return l.p.Sprintf(typeKey(t))
}

// Status returns the label for a status; unknown values are returned as-is.
func (l *Labels) Status(s model.Status) string {
	if !s.Valid() {
		return string(s)
	}
	return l.p.Sprintf(statusKey(s))
}

// Text translates one of the Msg* keys.
func (l *Labels) Text(key string, args ...any) string {
	return l.p.Sprintf(key, args...)
}

func typeKey(t string) string         { return "type." + t }
func statusKey(s model.Status) string { return "status." + string(s) }
