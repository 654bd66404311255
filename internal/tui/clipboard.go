package tui

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

// readClipboardText prefers pbpaste's plain-text flavor on macOS, where the
// default clipboard flavor is often RTF.
func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<p"))
}

// cleanClipboardText turns whatever the OS clipboard holds into a plain label:
// RTF and HTML markup is dropped, control characters are removed and line
// endings become \n.
func cleanClipboardText(text string) string {
	switch {
	case text == "":
		return ""
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// extractTextFromRTF keeps the text runs of an RTF document. \par and \line
// become newlines, \tab a tab and \'hh a Latin-1 byte. Groups that start with
// \* or a font/color table are skipped.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	type group struct{ skip bool }
	stack := []group{{}}
	skipping := func() bool { return stack[len(stack)-1].skip }

	for i := 0; i < len(rtf); i++ {
		c := rtf[i]
		switch c {
		case '{':
			stack = append(stack, group{skip: skipping()})
			continue
		case '}':
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			continue
		case '\r', '\n':
			continue
		case '\\':
		default:
			if !skipping() {
				out.WriteByte(c)
			}
			continue
		}

		if i+1 >= len(rtf) {
			break
		}
		next := rtf[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			if !skipping() {
				out.WriteByte(next)
			}
			i++
		case next == '\'' && i+3 < len(rtf):
			if v, err := strconv.ParseUint(rtf[i+2:i+4], 16, 8); err == nil && !skipping() {
				out.WriteRune(rune(v))
			}
			i += 3
		case next == '*':
			stack[len(stack)-1].skip = true
			i++
		case next == '~':
			if !skipping() {
				out.WriteByte(' ')
			}
			i++
		case isASCIILetter(next):
			j := i + 1
			for j < len(rtf) && isASCIILetter(rtf[j]) {
				j++
			}
			word := rtf[i+1 : j]
			for j < len(rtf) && (rtf[j] == '-' || rtf[j] >= '0' && rtf[j] <= '9') {
				j++
			}
			if j < len(rtf) && rtf[j] == ' ' {
				j++
			}
			i = j - 1
			switch word {
			case "par", "line":
				if !skipping() {
					out.WriteByte('\n')
				}
			case "tab":
				if !skipping() {
					out.WriteByte('\t')
				}
			case "fonttbl", "colortbl", "stylesheet", "info", "pict":
				stack[len(stack)-1].skip = true
			}
		default:
			i++
		}
	}
	return out.String()
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
	"&amp;", "&",
)

// extractTextFromHTML drops tags and decodes the common entities. Block-level
// closing tags and <br> become newlines.
func extractTextFromHTML(html string) string {
	var out strings.Builder
	for {
		open := strings.IndexByte(html, '<')
		if open < 0 {
			out.WriteString(html)
			break
		}
		out.WriteString(html[:open])
		end := strings.IndexByte(html[open:], '>')
		if end < 0 {
			break
		}
		tag := strings.ToLower(strings.Trim(html[open+1:open+end], "/ "))
		if name, _, _ := strings.Cut(tag, " "); name == "br" || strings.HasPrefix(html[open:], "</p") || strings.HasPrefix(html[open:], "</div") {
			out.WriteByte('\n')
		}
		html = html[open+end+1:]
	}
	return strings.TrimSpace(htmlEntities.Replace(out.String()))
}
