// Package cleanup normalises problematic quotation glyphs across
// configured catalogue columns. The substitution itself is a pure
// string-to-string function; the scanner around it logs every proposed
// change and only writes when explicitly asked to commit.
package cleanup

import "strings"

// quoteReplacer maps curly quotes, primes, guillemets, and related glyphs
// to their nearest ASCII equivalents.
var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‚", "'", // single low-9 quotation mark
	"‛", "'", // single high-reversed-9 quotation mark
	"′", "'", // prime
	"‵", "'", // reversed prime
	"`", "'", // grave accent
	"´", "'", // acute accent
	"ʻ", "'", // modifier letter turned comma
	"ʼ", "'", // modifier letter apostrophe
	"❛", "'", // heavy single turned comma quotation mark ornament
	"❜", "'", // heavy single comma quotation mark ornament
	"❟", "'", // heavy low single comma quotation mark ornament
	"❠", "'", // heavy low double comma quotation mark ornament
	"¿", "'", // inverted question mark (legacy encoding damage)
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"„", `"`, // double low-9 quotation mark
	"‟", `"`, // double high-reversed-9 quotation mark
	"″", `"`, // double prime
	"‶", `"`, // reversed double prime
	"«", `"`, // left guillemet
	"»", `"`, // right guillemet
	"˝", `"`, // double acute accent
	"❝", `"`, // heavy double turned comma quotation mark ornament
	"❞", `"`, // heavy double comma quotation mark ornament
	"〝", `"`, // reversed double prime quotation mark
	"〞", `"`, // double prime quotation mark
	"〟", `"`, // low double prime quotation mark
)

// NormaliseQuotes replaces smart quotes, primes, and related glyphs with
// ASCII ' and ". Pure and idempotent.
func NormaliseQuotes(s string) string {
	return quoteReplacer.Replace(s)
}
