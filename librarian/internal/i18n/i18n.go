// Package i18n holds the CLI message catalogs. Lookups fall back from the
// selected language to English and finally to the key itself.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

const (
	English = "en"
	French  = "fr"
)

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

// Negotiate picks the closest supported language for the given preferences,
// such as a --lang flag or the LANG variable ("fr_FR.UTF-8").
func Negotiate(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		p = strings.TrimSpace(p)
		if p == "" || p == "C" || p == "POSIX" {
			continue
		}
		if i := strings.IndexAny(p, ".@"); i >= 0 {
			p = p[:i]
		}
		tag, err := language.Parse(strings.ReplaceAll(p, "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	base, _ := supported[idx].Base()
	return base.String()
}

func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

type Translator struct {
	lang string
}

func New(lang string) *Translator {
	if !Supported(lang) {
		lang = English
	}
	return &Translator{lang: lang}
}

func (t *Translator) Lang() string {
	return t.lang
}

// T resolves key and replaces every {{name}} placeholder with params[name].
func (t *Translator) T(key string, params ...Param) string {
	msg, ok := catalogs[t.lang][key]
	if !ok {
		if msg, ok = catalogs[English][key]; !ok {
			msg = key
		}
	}
	for _, p := range params {
		msg = strings.ReplaceAll(msg, "{{"+p.Name+"}}", fmt.Sprint(p.Value))
	}
	return msg
}

type Param struct {
	Name  string
	Value any
}

func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// Missing lists keys present in English but absent from lang.
func Missing(lang string) []string {
	var keys []string
	for k := range catalogs[English] {
		if _, ok := catalogs[lang][k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
