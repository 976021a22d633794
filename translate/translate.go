// Package translate formats user-facing messages for the locale of the host.
package translate

import (
	"log"
	"os"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// LANG_ENV overrides the detected locale when set.
const LANG_ENV = "RVSIM_LANG"

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// locales returns the preferred locales, most preferred first.
func locales() (tags []string) {
	if lang := os.Getenv(LANG_ENV); len(lang) != 0 {
		return []string{lang}
	}

	tags, err := locale.GetLocales()
	if err != nil {
		log.Printf("rvsim: locale: %v", err)
	}

	if len(tags) == 0 {
		tags = []string{"en-US"}
	}

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(func() {
		printer = message.NewPrinter(message.MatchLanguage(locales()...))
	})
	return printer.Sprintf(key, args...)
}
