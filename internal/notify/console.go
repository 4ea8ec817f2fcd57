package notify

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleSink prints toasts to the terminal, the default delivery for
// the console front-end.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (c *ConsoleSink) Show(toast Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n*** %s ***\n", toast.Message)
}
