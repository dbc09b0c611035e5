package screen

import (
	"fmt"
	"strings"
)

// Payload accumulates the text a screen prints during one invocation and
// paginates it into wire-sized pages.
type Payload struct {
	data string
}

// Append writes objs joined by spaces, followed by a newline.
func (p *Payload) Append(objs ...any) {
	parts := make([]string, len(objs))
	for i, o := range objs {
		parts[i] = fmt.Sprint(o)
	}
	p.data += strings.Join(parts, " ") + "\n"
}

// Appendf writes a formatted line.
func (p *Payload) Appendf(format string, args ...any) {
	p.data += fmt.Sprintf(format, args...) + "\n"
}

// Prepend writes a line before the existing content.
func (p *Payload) Prepend(objs ...any) {
	parts := make([]string, len(objs))
	for i, o := range objs {
		parts[i] = fmt.Sprint(o)
	}
	p.data = strings.TrimLeft(strings.Join(parts, " ")+"\n"+p.data, " ")
}

// Len returns the current payload size in bytes.
func (p *Payload) Len() int {
	return len(p.data)
}

func (p *Payload) String() string {
	return strings.TrimSpace(p.data)
}

// Paginate splits the payload into pages of at most size bytes each,
// navigation markers included.
//
// When everything fits, the single page is the text plus the footer.
// Otherwise pages split at line boundaries as close to the budget as
// possible; the footer goes on the final page, the next marker on every
// page that has a following page, and the prev marker on every page that
// has a preceding one.
func (p *Payload) Paginate(size int, next, prev string, footer []string) []string {
	text := strings.TrimSpace(p.data)

	foot := ""
	if len(footer) > 0 {
		foot = "\n" + strings.Join(footer, "\n")
	}
	if len(text)+len(foot) <= size {
		return []string{text + foot}
	}

	var pages []string
	rem := text
	for {
		first := len(pages) == 0
		navReserve := 0
		if !first {
			navReserve = len(prev) + 1
		}

		// Final page: the remainder, its back marker, and the footer all
		// fit. The first page is never final here; the single-page check
		// above already failed for exactly that layout.
		if !first && (rem == "" || len(rem)+navReserve+len(foot) <= size) {
			pages = append(pages, rem+"\n"+prev+foot)
			break
		}

		budget := size - navReserve - len(next) - 1
		if budget < 1 {
			budget = 1
		}
		chunk, consumed := cutAtLine(rem, budget)
		if consumed == len(rem) {
			// The whole remainder fits this page's chunk budget but not
			// the final-page budget, so the footer still needs a page of
			// its own. Hold the tail back for it.
			chunk, consumed = holdBack(rem, budget)
		}
		if first {
			pages = append(pages, chunk+"\n"+next)
		} else {
			pages = append(pages, chunk+"\n"+prev+"\n"+next)
		}
		rem = strings.TrimSpace(rem[consumed:])
	}
	return pages
}

// holdBack cuts s before its last line, or mid-line when s has no line
// break, so the caller is left with a non-empty remainder to carry the
// footer.
func holdBack(s string, budget int) (chunk string, consumed int) {
	if i := strings.LastIndexByte(s, '\n'); i > 0 {
		return strings.TrimSpace(s[:i]), i
	}
	cut := (len(s) + 1) / 2
	if cut > budget {
		cut = budget
	}
	return strings.TrimSpace(s[:cut]), cut
}

// cutAtLine takes at most budget bytes from the front of s, backing up to
// the nearest preceding newline so no line is split. A single line longer
// than the budget is hard-cut; the alternative is a page over the wire
// limit.
func cutAtLine(s string, budget int) (chunk string, consumed int) {
	if len(s) <= budget {
		return strings.TrimSpace(s), len(s)
	}
	cut := budget
	if i := strings.LastIndexByte(s[:budget], '\n'); i > 0 {
		cut = i
	}
	return strings.TrimSpace(s[:cut]), cut
}
