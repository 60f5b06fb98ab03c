package exec

import (
	"bytes"
	"io"
	"sync"
)

// lockedBuffer is a bytes.Buffer safe for writes from the stdout and stderr
// copy goroutines at the same time.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// capture collects a command's stdout, stderr and their interleaving.
type capture struct {
	stdout   lockedBuffer
	stderr   lockedBuffer
	combined lockedBuffer
}

func (c *capture) stdoutWriter() io.Writer {
	return io.MultiWriter(&c.stdout, &c.combined)
}

func (c *capture) stderrWriter() io.Writer {
	return io.MultiWriter(&c.stderr, &c.combined)
}

// fill copies the captured output into r.
func (c *capture) fill(r *Result) {
	r.Stdout = c.stdout.String()
	r.Stderr = c.stderr.String()
	r.Combined = c.combined.String()
}
