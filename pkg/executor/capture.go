package executor

import (
	"fmt"
	"strings"
)

// capture is an io.Writer that keeps the first and last halves of at most
// limit bytes and counts what it dropped in between.
type capture struct {
	headCap int
	tailCap int
	head    []byte
	tail    []byte
	total   int
}

func newCapture(limit int) *capture {
	if limit < 2 {
		limit = 2
	}
	return &capture{headCap: limit / 2, tailCap: limit - limit/2}
}

func (c *capture) Write(p []byte) (int, error) {
	n := len(p)
	c.total += n
	if room := c.headCap - len(c.head); room > 0 {
		if room > len(p) {
			room = len(p)
		}
		c.head = append(c.head, p[:room]...)
		p = p[room:]
	}
	if len(p) == 0 {
		return n, nil
	}
	c.tail = append(c.tail, p...)
	if over := len(c.tail) - c.tailCap; over > 0 {
		c.tail = append(c.tail[:0], c.tail[over:]...)
	}
	return n, nil
}

func (c *capture) dropped() int {
	return c.total - len(c.head) - len(c.tail)
}

func (c *capture) Truncated() bool {
	return c.dropped() > 0
}

func (c *capture) String() string {
	var b strings.Builder
	b.Write(c.head)
	if d := c.dropped(); d > 0 {
		fmt.Fprintf(&b, "\n... [%d bytes truncated] ...\n", d)
	}
	b.Write(c.tail)
	return strings.ToValidUTF8(b.String(), "�")
}
