package screen_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawabu/ussd/pkg/screen"
)

func TestPayloadAccumulation(t *testing.T) {
	p := &screen.Payload{}
	p.Append("Hello", "world")
	p.Appendf("Balance: %d", 42)
	p.Prepend("Error! Invalid input")

	assert.Equal(t, "Error! Invalid input\nHello world\nBalance: 42", p.String())
	assert.Positive(t, p.Len())
}

func TestPaginateSinglePage(t *testing.T) {
	p := &screen.Payload{}
	p.Append("Pick one")

	pages := p.Paginate(160, "99 More", "0  Back", []string{"1  Yes", "2  No"})

	require.Len(t, pages, 1)
	assert.Equal(t, "Pick one\n1  Yes\n2  No", pages[0])
}

func TestPaginateSplitsLongText(t *testing.T) {
	const size = 80

	p := &screen.Payload{}
	for i := 1; i <= 20; i++ {
		p.Appendf("line %02d of the terms", i)
	}
	footer := []string{"1  Accept"}

	pages := p.Paginate(size, "99 More", "0  Back", footer)
	require.Greater(t, len(pages), 1)

	for i, page := range pages {
		assert.LessOrEqual(t, len(page), size, "page %d over budget", i)
	}

	first, last := pages[0], pages[len(pages)-1]
	assert.True(t, strings.HasSuffix(first, "\n99 More"))
	assert.NotContains(t, first, "0  Back")
	assert.True(t, strings.HasSuffix(last, "\n1  Accept"), "footer belongs on the final page")
	assert.Contains(t, last, "0  Back")
	assert.NotContains(t, last, "99 More")

	for _, page := range pages[1 : len(pages)-1] {
		assert.Contains(t, page, "0  Back")
		assert.True(t, strings.HasSuffix(page, "\n99 More"))
	}
}

func TestPaginatePreservesEveryLine(t *testing.T) {
	p := &screen.Payload{}
	var want []string
	for i := 0; i < 30; i++ {
		line := fmt.Sprintf("item %02d", i)
		want = append(want, line)
		p.Append(line)
	}

	pages := p.Paginate(60, "99 More", "0  Back", nil)

	var got []string
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			if line == "99 More" || line == "0  Back" {
				continue
			}
			got = append(got, line)
		}
	}
	assert.Equal(t, want, got)
}

func TestPaginateHardCutsOversizeLine(t *testing.T) {
	p := &screen.Payload{}
	p.Append(strings.Repeat("x", 300))

	pages := p.Paginate(100, "99 More", "0  Back", nil)
	require.Greater(t, len(pages), 1)
	for i, page := range pages {
		assert.LessOrEqual(t, len(page), 100, "page %d over budget", i)
	}
}

func TestPaginateFooterForcesSecondPage(t *testing.T) {
	// The text alone fits one page, but not together with the footer:
	// the footer must still land on a final page of its own.
	const size = 178

	p := &screen.Payload{}
	p.Append(strings.Repeat("x", 150))
	footer := []string{"1  Check balance", "2  Buy airtime"}

	pages := p.Paginate(size, "99 More", "0  Back", footer)
	require.Len(t, pages, 2)

	assert.True(t, strings.HasSuffix(pages[0], "\n99 More"))
	assert.NotContains(t, pages[0], "1  Check balance")

	last := pages[1]
	assert.True(t, strings.HasSuffix(last, "\n1  Check balance\n2  Buy airtime"))
	assert.Contains(t, last, "0  Back")
	assert.NotContains(t, last, "99 More")

	var body strings.Builder
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			if strings.Count(line, "x") == len(line) && line != "" {
				body.WriteString(line)
			}
		}
	}
	assert.Equal(t, strings.Repeat("x", 150), body.String())

	for i, page := range pages {
		assert.LessOrEqual(t, len(page), size, "page %d over budget", i)
	}
}

func TestPaginateFooterFitsAfterMiddlePages(t *testing.T) {
	// A remainder that fits a middle page's chunk budget but not the
	// final-page budget must be held back, not flushed with a dangling
	// continuation marker.
	const size = 60

	p := &screen.Payload{}
	for i := 0; i < 9; i++ {
		p.Appendf("line%02d xx", i)
	}
	footer := []string{"1  Accept terms today"}

	pages := p.Paginate(size, "99 More", "0  Back", footer)
	require.Len(t, pages, 3)

	assert.True(t, strings.HasSuffix(pages[1], "\n99 More"))
	assert.Contains(t, pages[1], "0  Back")
	assert.Equal(t, "line08 xx\n0  Back\n1  Accept terms today", pages[2])

	for i, page := range pages {
		assert.LessOrEqual(t, len(page), size, "page %d over budget", i)
	}
}

func TestPaginateNoFooterSinglePage(t *testing.T) {
	p := &screen.Payload{}
	p.Append("Goodbye")

	pages := p.Paginate(40, "99 More", "0  Back", nil)
	require.Len(t, pages, 1)
	assert.Equal(t, "Goodbye", pages[0])
}
