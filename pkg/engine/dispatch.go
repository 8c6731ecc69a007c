package engine

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// WriterDispatcher writes each outbound event as one JSON line
type WriterDispatcher struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriterDispatcher creates a dispatcher writing to w
func NewWriterDispatcher(w io.Writer) *WriterDispatcher {
	return &WriterDispatcher{enc: json.NewEncoder(w)}
}

// Dispatch implements Dispatcher
func (d *WriterDispatcher) Dispatch(ctx context.Context, out Outbound) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enc.Encode(out)
}
