package pipeline

import (
	"bytes"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/y4mdenoise/engine"
	"github.com/ausocean/y4mdenoise/pixel"
)

func testLogger() logging.Logger {
	return logging.New(logging.Debug, &bytes.Buffer{}, true)
}

func baseConfig(width, height uint) Config {
	return Config{
		WidthY: width, HeightY: height,
		Frames:     1,
		RadiusY:    8,
		ThresholdY: 255, ZThresholdY: 255,
	}
}

// TestFrameIdentityFlush is spec.md §8 scenario 1: width 4, height 2,
// purge cadence 1, a single frame submitted then flushed through a
// pass-through engine must come back unchanged on the flush call, and
// swallowed (emitted=false) on the submit call.
func TestFrameIdentityFlush(t *testing.T) {
	cfg := baseConfig(4, 2)
	eng := engine.NewPassThrough()
	p, err := Init(cfg, nil, nil, eng, nil, testLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Shutdown()

	inputY := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	outputY := make([]byte, 8)

	emitted, err := p.Frame(inputY, nil, nil, outputY, nil, nil)
	if err != nil {
		t.Fatalf("Frame(submit): %v", err)
	}
	if emitted {
		t.Errorf("expected submit to be swallowed (emitted=false), got emitted=true")
	}

	emitted, err = p.Frame(nil, nil, nil, outputY, nil, nil)
	if err != nil {
		t.Fatalf("Frame(flush): %v", err)
	}
	if !emitted {
		t.Fatalf("expected flush to emit output")
	}
	if !bytes.Equal(outputY, inputY) {
		t.Errorf("output = %v, want identity to input %v", outputY, inputY)
	}
}

// TestPairedPlaneSync is spec.md §8 scenario 4: with both planes
// enabled and a chroma worker thread, submitting frames must yield the
// same emitted/swallowed decision for the call as a whole (Frame's
// single return value already encodes the "both or neither" invariant;
// this test drives enough calls to exercise the async join path
// without ever tripping the paired-plane panic).
func TestPairedPlaneSync(t *testing.T) {
	cfg := baseConfig(4, 2)
	cfg.WidthCbCr, cfg.HeightCbCr = 2, 2
	cfg.RadiusCbCr = 8
	cfg.ThresholdCbCr, cfg.ZThresholdCbCr = 255, 255
	cfg.Threads = ThreadChroma

	engY := engine.NewPassThrough()
	engC := engine.NewPassThrough()
	p, err := Init(cfg, nil, nil, engY, engC, testLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Shutdown()

	inputY := make([]byte, 8)
	inputCb := make([]byte, 4)
	inputCr := make([]byte, 4)
	outputY := make([]byte, 8)
	outputCb := make([]byte, 4)
	outputCr := make([]byte, 4)

	for i := 0; i < 10; i++ {
		inputY[0] = byte(i)
		emitted, err := p.Frame(inputY, inputCb, inputCr, outputY, outputCb, outputCr)
		if err != nil {
			t.Fatalf("Frame(%d): %v", i, err)
		}
		if emitted {
			t.Errorf("Frame(%d): expected swallowed (one-frame engine latency), got emitted", i)
		}
	}

	emitted, err := p.Frame(nil, nil, nil, outputY, outputCb, outputCr)
	if err != nil {
		t.Fatalf("Frame(flush): %v", err)
	}
	if !emitted {
		t.Fatalf("expected flush to emit both planes")
	}
}

// queueEngine is a test-only Denoiser that never reports readiness via
// FrameReady, and returns every staged frame in submission order, one
// per RemainingFrames call. Used to exercise the interlaced weave
// property, which needs each field's data preserved distinctly rather
// than collapsed into engine.PassThrough's single-slot storage.
type queueEngine struct {
	queue     [][2]uint8
	frameSize int
}

func (e *queueEngine) Init(p engine.Params) error { e.frameSize = p.Width * p.Height; return nil }
func (e *queueEngine) Purge()                     {}
func (e *queueEngine) AddFrame(staging interface{}) error {
	switch s := staging.(type) {
	case []pixel.Y:
		f := make([][2]uint8, len(s))
		for i, v := range s {
			f[i] = [2]uint8{uint8(v), 0}
		}
		e.queue = append(e.queue, f...)
	}
	return nil
}
func (e *queueEngine) FrameReady() engine.ReferenceFrame { return nil }
func (e *queueEngine) RemainingFrames() engine.ReferenceFrame {
	if e.frameSize == 0 || len(e.queue) < e.frameSize {
		return nil
	}
	f := e.queue[:e.frameSize]
	e.queue = e.queue[e.frameSize:]
	return &queueFrame{pixels: f}
}

type queueFrame struct{ pixels [][2]uint8 }

func (f *queueFrame) Pixel(i int) engine.ReferencePixel { return queuePixel(f.pixels[i]) }
func (f *queueFrame) Len() int                          { return len(f.pixels) }

type queuePixel [2]uint8

func (p queuePixel) Value() [2]uint8 { return p }

// TestInterlacedTopFieldWeave is spec.md §8 scenario 5: height 4,
// interlaced=1 (top-field-first). One submit call followed by one
// flush call must write rows 0 and 2 on the flush's first sub-event and
// rows 1 and 3 on its second.
func TestInterlacedTopFieldWeave(t *testing.T) {
	cfg := baseConfig(2, 4)
	cfg.Interlaced = TopFieldFirst
	eng := &queueEngine{}
	p, err := Init(cfg, nil, nil, eng, nil, testLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Shutdown()

	rows := []byte{
		1, 2, // R0
		3, 4, // R1
		5, 6, // R2
		7, 8, // R3
	}
	output := make([]byte, 8)

	if emitted, err := p.InterlacedFrame(rows, nil, nil, output, nil, nil); err != nil {
		t.Fatalf("InterlacedFrame(submit): %v", err)
	} else if emitted {
		t.Errorf("expected submit call to be swallowed, got emitted")
	}

	emitted, err := p.InterlacedFrame(nil, nil, nil, output, nil, nil)
	if err != nil {
		t.Fatalf("InterlacedFrame(flush): %v", err)
	}
	if !emitted {
		t.Fatalf("expected flush call to emit")
	}
	if !bytes.Equal(output, rows) {
		t.Errorf("woven output = %v, want %v (rows 0,2 then 1,3)", output, rows)
	}
}

// TestInterlacedBottomFieldWeave is the interlaced=2 mirror of the
// above: field order is reversed (odd rows first).
func TestInterlacedBottomFieldWeave(t *testing.T) {
	cfg := baseConfig(2, 4)
	cfg.Interlaced = BottomFieldFirst
	eng := &queueEngine{}
	p, err := Init(cfg, nil, nil, eng, nil, testLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Shutdown()

	rows := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	output := make([]byte, 8)

	p.InterlacedFrame(rows, nil, nil, output, nil, nil)
	emitted, err := p.InterlacedFrame(nil, nil, nil, output, nil, nil)
	if err != nil {
		t.Fatalf("InterlacedFrame(flush): %v", err)
	}
	if !emitted {
		t.Fatalf("expected flush call to emit")
	}
	if !bytes.Equal(output, rows) {
		t.Errorf("woven output = %v, want %v", output, rows)
	}
}

// purgeCountEngine counts Purge calls, otherwise behaving like an
// engine that never has output ready.
type purgeCountEngine struct{ purges int }

func (e *purgeCountEngine) Init(engine.Params) error          { return nil }
func (e *purgeCountEngine) Purge()                            { e.purges++ }
func (e *purgeCountEngine) AddFrame(interface{}) error        { return nil }
func (e *purgeCountEngine) FrameReady() engine.ReferenceFrame { return nil }
func (e *purgeCountEngine) RemainingFrames() engine.ReferenceFrame { return nil }

// TestInterlacedPurgesOncePerFrame confirms the resolved Open Question
// (DESIGN.md): purge cadence fires once per InterlacedFrame call, not
// once per field sub-event.
func TestInterlacedPurgesOncePerFrame(t *testing.T) {
	cfg := baseConfig(2, 4)
	cfg.Interlaced = TopFieldFirst
	cfg.Frames = 1
	eng := &purgeCountEngine{}
	p, err := Init(cfg, nil, nil, eng, nil, testLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Shutdown()

	rows := make([]byte, 8)
	output := make([]byte, 8)
	for i := 0; i < 3; i++ {
		if _, err := p.InterlacedFrame(rows, nil, nil, output, nil, nil); err != nil {
			t.Fatalf("InterlacedFrame(%d): %v", i, err)
		}
	}

	if eng.purges != 3 {
		t.Errorf("purges = %d, want 3 (once per frame, not per field)", eng.purges)
	}
}

// TestShutdownIdempotence is spec.md §8 scenario 6: calling Shutdown
// when no I/O or chroma-worker threads were started must be a no-op.
func TestShutdownIdempotence(t *testing.T) {
	cfg := baseConfig(4, 2)
	eng := engine.NewPassThrough()
	p, err := Init(cfg, nil, nil, eng, nil, testLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := p.Shutdown(); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
	if err := p.Shutdown(); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}
