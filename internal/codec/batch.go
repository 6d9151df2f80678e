package codec

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/akilegaspi/unison/internal/diag"
)

// EncodeItem pairs one graph with the sink it should be written to, for
// EncodeAll.
type EncodeItem[G comparable, R any] struct {
	Graph G
	Sink  io.Writer
}

// DecodeItem names a source for DecodeAll. It carries no label; a failed
// item is identified in the Bag by its index in the item list.
type DecodeItem[G comparable, R any] struct {
	Source io.Reader
}

// EncodeAll runs one Encode per item concurrently, up to jobs at a time
// (GOMAXPROCS if jobs <= 0), and returns a Bag of the failures instead of
// aborting the batch on the first malformed graph (spec §7.2's "decoding
// aborts" applies per item, not to the whole batch). If ctx is cancelled
// mid-batch, every item that never ran records ctx's error in the Bag
// rather than being left indistinguishable from a success.
func EncodeAll[G comparable, R any](ctx context.Context, c GraphCodec[G, R], items []EncodeItem[G, R], profile Profile, maxDiagnostics int, jobs int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	if len(items) == 0 {
		return bag
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	errs := make([]error, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(items)))

	for i, item := range items {
		g.Go(func(i int, item EncodeItem[G, R]) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					errs[i] = gctx.Err()
					return gctx.Err()
				default:
				}
				errs[i] = Encode(gctx, c, item.Sink, profile.IncludeRefMetadata, item.Graph)
				return nil
			}
		}(i, item))
	}
	_ = g.Wait() // every goroutine's error, cancellation included, already landed in errs

	for i, err := range errs {
		addBatchError(bag, i, err)
	}
	return bag
}

// DecodeAll runs one Decode per item concurrently, returning the decoded
// graphs (nil at an index whose item failed) alongside a Bag of the
// per-item failures. If ctx is cancelled mid-batch, every item that never
// ran gets a zero-value G and ctx's error recorded in the Bag, rather than
// a zero-value G with no diagnostic to tell it apart from a success.
func DecodeAll[G comparable, R any](ctx context.Context, c GraphCodec[G, R], items []DecodeItem[G, R], profile Profile, maxDiagnostics int, jobs int) ([]G, *diag.Bag) {
	bag := diag.NewBag(maxDiagnostics)
	if len(items) == 0 {
		return nil, bag
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]G, len(items))
	errs := make([]error, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(items)))

	for i, item := range items {
		g.Go(func(i int, item DecodeItem[G, R]) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					errs[i] = gctx.Err()
					return gctx.Err()
				default:
				}
				graph, err := Decode(gctx, c, item.Source, profile.MaxDepth)
				results[i] = graph
				errs[i] = err
				return nil
			}
		}(i, item))
	}
	_ = g.Wait() // every goroutine's error, cancellation included, already landed in errs

	for i, err := range errs {
		addBatchError(bag, i, err)
	}
	return results, bag
}

// addBatchError normalises a per-item failure into the bag. Codec
// failures already arrive as diag.Diagnostic; anything else (I/O errors
// from the sink/source) is wrapped under CodecIOError so the bag stays
// uniform regardless of which layer failed.
func addBatchError(bag *diag.Bag, index int, err error) {
	if err == nil {
		return
	}
	if d, ok := err.(diag.Diagnostic); ok {
		bag.Add(d.WithNote(d.Primary, itemNote(index)))
		return
	}
	bag.Add(diag.NewError(diag.CodecIOError, 0, err.Error()).WithNote(0, itemNote(index)))
}

func itemNote(index int) string {
	return fmt.Sprintf("batch index %d", index)
}
