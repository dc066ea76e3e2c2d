package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/utils/logging"
)

func testLogger() logging.Logger {
	return logging.New(logging.Debug, &bytes.Buffer{}, true)
}

func TestY4MRoundTrip(t *testing.T) {
	planeSizes := [3]int{4, 1, 1}
	var buf bytes.Buffer

	sink := NewY4MSink(&buf, 2, 2, planeSizes, testLogger())
	frames := [][3][]byte{
		{{1, 2, 3, 4}, {5}, {6}},
		{{7, 8, 9, 10}, {11}, {12}},
	}
	for _, f := range frames {
		if err := sink.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	src := NewY4MSource(&buf, planeSizes, testLogger())
	for i, want := range frames {
		var got [3][]byte
		for j := range got {
			got[j] = make([]byte, planeSizes[j])
		}
		if err := src.ReadFrame(got); err != nil {
			t.Fatalf("ReadFrame(%d): %v", i, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("frame %d planes mismatch (-want +got):\n%s", i, diff)
		}
	}

	var extra [3][]byte
	for j := range extra {
		extra[j] = make([]byte, planeSizes[j])
	}
	if err := src.ReadFrame(extra); err != io.EOF {
		t.Errorf("ReadFrame past end: err = %v, want io.EOF", err)
	}
}

func TestY4MSourceEOFMidFrame(t *testing.T) {
	planeSizes := [3]int{4, 1, 1}
	buf := bytes.NewBufferString("YUV4MPEG2 W2 H2\nFRAME\n\x01\x02\x03")

	src := NewY4MSource(buf, planeSizes, testLogger())
	var dst [3][]byte
	for j := range dst {
		dst[j] = make([]byte, planeSizes[j])
	}
	if err := src.ReadFrame(dst); err != io.EOF {
		t.Errorf("ReadFrame mid-frame EOF: err = %v, want io.EOF", err)
	}
}

func TestY4MSinkWritesHeaderOnce(t *testing.T) {
	planeSizes := [3]int{1, 0, 0}
	var buf bytes.Buffer
	sink := NewY4MSink(&buf, 1, 1, planeSizes, testLogger())

	sink.WriteFrame([3][]byte{{1}, nil, nil})
	sink.WriteFrame([3][]byte{{2}, nil, nil})
	sink.Flush()

	want := "YUV4MPEG2 W1 H1\nFRAME\n\x01FRAME\n\x02"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
