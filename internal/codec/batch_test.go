package codec

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestEncodeAll_CollectsPerItemFailuresWithoutAbortingBatch(t *testing.T) {
	good := leaf(1, 1)
	items := []EncodeItem[*testNode, *testNode]{
		{Graph: good, Sink: &bytes.Buffer{}},
		{Graph: good, Sink: failingWriter{}},
		{Graph: good, Sink: &bytes.Buffer{}},
	}

	bag := EncodeAll[*testNode, *testNode](context.Background(), testCodec{}, items, DefaultProfile(), 10, 0)
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one failure recorded, got %d", bag.Len())
	}
}

func TestDecodeAll_RunsEachSourceIndependently(t *testing.T) {
	var good bytes.Buffer
	if err := Encode[*testNode, *testNode](context.Background(), testCodec{}, &good, false, leaf(1, 7)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	items := []DecodeItem[*testNode, *testNode]{
		{Source: bytes.NewReader(good.Bytes())},
		{Source: bytes.NewReader([]byte{0x7f})},
		{Source: bytes.NewReader(good.Bytes())},
	}

	results, bag := DecodeAll[*testNode, *testNode](context.Background(), testCodec{}, items, DefaultProfile(), 10, 0)
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one failure recorded, got %d", bag.Len())
	}
	if results[0] == nil || results[0].value != 7 {
		t.Fatalf("item 0 should have decoded successfully, got %+v", results[0])
	}
	if results[1] != nil {
		t.Fatalf("item 1 should have failed to decode, got %+v", results[1])
	}
	if results[2] == nil || results[2].value != 7 {
		t.Fatalf("item 2 should have decoded successfully, got %+v", results[2])
	}
}

func TestEncodeAll_CancelledContextRecordsEveryUnrunItem(t *testing.T) {
	good := leaf(1, 1)
	items := make([]EncodeItem[*testNode, *testNode], 4)
	for i := range items {
		items[i] = EncodeItem[*testNode, *testNode]{Graph: good, Sink: &bytes.Buffer{}}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bag := EncodeAll[*testNode, *testNode](ctx, testCodec{}, items, DefaultProfile(), 10, 1)
	if bag.Len() != len(items) {
		t.Fatalf("a pre-cancelled ctx should report every item as failed, got %d of %d", bag.Len(), len(items))
	}
}

func TestDecodeAll_CancelledContextRecordsEveryUnrunItem(t *testing.T) {
	var good bytes.Buffer
	if err := Encode[*testNode, *testNode](context.Background(), testCodec{}, &good, false, leaf(1, 7)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	items := make([]DecodeItem[*testNode, *testNode], 4)
	for i := range items {
		items[i] = DecodeItem[*testNode, *testNode]{Source: bytes.NewReader(good.Bytes())}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, bag := DecodeAll[*testNode, *testNode](ctx, testCodec{}, items, DefaultProfile(), 10, 1)
	if bag.Len() != len(items) {
		t.Fatalf("a pre-cancelled ctx should report every item as failed, got %d of %d", bag.Len(), len(items))
	}
	for i, r := range results {
		if r != nil {
			t.Fatalf("item %d should never have run against a pre-cancelled ctx, got %+v", i, r)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("simulated write failure")
}
