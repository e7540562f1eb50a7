package content

import (
	"regexp"
	"strings"
)

var styleBlockRe = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)

// SplitWidgetCode separates generated widget code into markup and styles.
// All <style> blocks are concatenated into the CSS result and stripped from
// the HTML. Code without any style block comes back with empty CSS.
func SplitWidgetCode(code string) (html, css string) {
	matches := styleBlockRe.FindAllStringSubmatch(code, -1)
	if len(matches) > 0 {
		parts := make([]string, 0, len(matches))
		for _, m := range matches {
			parts = append(parts, strings.TrimSpace(m[1]))
		}
		css = strings.Join(parts, "\n")
	}
	html = strings.TrimSpace(styleBlockRe.ReplaceAllString(code, ""))
	return html, css
}
