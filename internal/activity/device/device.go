// Package device condenses a User-Agent header into the short summary shown
// next to login and logout entries in the activity feed.
package device

import (
	"fmt"

	"github.com/mssola/useragent"
)

// Summarize renders a User-Agent as "Browser on OS", e.g. "Chrome on
// Windows 10". Unparseable or empty agents yield an empty summary rather
// than noise.
func Summarize(rawUA string) string {
	if rawUA == "" {
		return ""
	}

	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	os := ua.OSInfo().FullName

	switch {
	case browser == "" && os == "":
		return ""
	case os == "":
		return browser
	case browser == "":
		return os
	default:
		return fmt.Sprintf("%s on %s", browser, os)
	}
}
