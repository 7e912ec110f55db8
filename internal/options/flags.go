package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// RegisterFlags defines every command-line option on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP("verbose", "v", false, "Enable verbose logging")
	fs.StringArrayP("file", "f", nil, "Read document(s) from path(s), separated by ',' or ':' (can be used multiple times)")
	fs.StringP("url", "u", "", "Download HTML/XML from URL")
	fs.StringP("driver", "d", "", fmt.Sprintf("Render --url with a browser (%s)", joinDrivers()))
	fs.BoolP("headless", "H", false, "Run the browser without a window")
	fs.StringP("load-strategy", "l", string(LoadNormal), "Page load strategy: normal (full load), eager (DOM ready), none (requires --timeout)")
	fs.IntP("timeout", "t", 0, "Fetch and page load timeout in seconds")
	fs.StringP("proxy", "p", "", "Proxy address for the browser")
	fs.String("webdriver-url", DefaultWebDriverURL, "WebDriver server used by firefox, ie and safari")
	fs.String("user-agent", DefaultUserAgent, "User-Agent for plain HTTP fetches")
	fs.StringP("selector", "s", "", "Filter document(s) with a CSS selector")
	fs.StringP("xpath", "x", "", "Filter document(s) with an XPath expression")
	fs.StringSliceP("attrs", "a", nil, "Print these attributes of each match instead of its markup")
	fs.BoolP("body", "b", false, "Print the children of each match instead of the match itself")
	fs.Bool("text", false, "Print the text content of each match")
	fs.Bool("markdown", false, "Print each match converted to Markdown")
	fs.BoolP("count", "c", false, "Print the number of matches per document")
}
