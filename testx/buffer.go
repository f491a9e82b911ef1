package testx

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

// ConcurrentBuffer is a bytes.Buffer safe for concurrent writers, typically a logger
// shared by parallel submissions. Its content is logged when the test fails.
type ConcurrentBuffer struct {
	b *bytes.Buffer
	m sync.RWMutex
}

func NewConcurrentBuffer(t *testing.T) *ConcurrentBuffer {
	c := &ConcurrentBuffer{b: new(bytes.Buffer)}
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("buffer content:\n%s", c.String())
		}
	})
	return c
}

func (c *ConcurrentBuffer) Write(p []byte) (n int, err error) {
	c.m.Lock()
	defer c.m.Unlock()
	return c.b.Write(p)
}

func (c *ConcurrentBuffer) String() string {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.b.String()
}

// Lines returns the non-empty lines written so far.
func (c *ConcurrentBuffer) Lines() []string {
	var lines []string
	for _, l := range strings.Split(c.String(), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
