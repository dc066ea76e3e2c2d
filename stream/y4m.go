/*
DESCRIPTION
  y4m.go provides Y4MSource and Y4MSink, minimal readers/writers for a
  planar Y4M-style raw video stream: a "YUV4MPEG2 ..." header line,
  followed by one "FRAME" line plus raw Y/Cb/Cr plane bytes per frame —
  the wire format the mjpegtools-family tooling this spec descends from
  (original_source/y4mdenoise) reads and writes.

  Adapted from ausocean-av/device/file.go's os.File-backed AVDevice:
  the same mutex-guarded access and logging.Logger field, generalised
  from a single byte stream to three sized planes; there is no
  Start/Stop lifecycle here.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stream

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/ausocean/utils/logging"
)

// Y4MSource reads planar frames from an underlying io.Reader.
type Y4MSource struct {
	r          *bufio.Reader
	planeSizes [3]int
	log        logging.Logger
	mu         sync.Mutex
	headerRead bool
}

// NewY4MSource returns a Y4MSource that reads planes sized planeSizes
// (Y, Cb, Cr byte counts) from r.
func NewY4MSource(r io.Reader, planeSizes [3]int, log logging.Logger) *Y4MSource {
	return &Y4MSource{r: bufio.NewReader(r), planeSizes: planeSizes, log: log}
}

// ReadFrame implements Source. It skips the YUV4MPEG2 header on the
// first call, then reads one "FRAME ...\n" line followed by the three
// raw planes.
func (s *Y4MSource) ReadFrame(dst [3][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.headerRead {
		if _, err := s.r.ReadString('\n'); err != nil {
			return fmt.Errorf("y4m: could not read stream header: %w", err)
		}
		s.headerRead = true
	}

	if _, err := s.r.ReadString('\n'); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return fmt.Errorf("y4m: could not read frame marker: %w", err)
	}

	for i, sz := range s.planeSizes {
		if sz == 0 {
			continue
		}
		if _, err := io.ReadFull(s.r, dst[i][:sz]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				s.log.Debug("y4m source hit EOF mid-frame")
				return io.EOF
			}
			return fmt.Errorf("y4m: could not read plane %d: %w", i, err)
		}
	}
	return nil
}

// Y4MSink writes planar frames to an underlying io.Writer, emitting the
// YUV4MPEG2 header once before the first frame.
type Y4MSink struct {
	w            *bufio.Writer
	planeSizes   [3]int
	width, height int
	log          logging.Logger
	mu           sync.Mutex
	headerWritten bool
}

// NewY4MSink returns a Y4MSink that writes w*h luma frames (with planes
// sized planeSizes) to w.
func NewY4MSink(w io.Writer, width, height int, planeSizes [3]int, log logging.Logger) *Y4MSink {
	return &Y4MSink{w: bufio.NewWriter(w), width: width, height: height, planeSizes: planeSizes, log: log}
}

// WriteFrame implements Sink.
func (s *Y4MSink) WriteFrame(src [3][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.headerWritten {
		if _, err := fmt.Fprintf(s.w, "YUV4MPEG2 W%d H%d\n", s.width, s.height); err != nil {
			return fmt.Errorf("y4m: could not write stream header: %w", err)
		}
		s.headerWritten = true
	}

	if _, err := s.w.WriteString("FRAME\n"); err != nil {
		return fmt.Errorf("y4m: could not write frame marker: %w", err)
	}
	for i, sz := range s.planeSizes {
		if sz == 0 {
			continue
		}
		if _, err := s.w.Write(src[i][:sz]); err != nil {
			return fmt.Errorf("y4m: could not write plane %d: %w", i, err)
		}
	}
	return nil
}

// Flush flushes any buffered output. Callers should call Flush before
// closing the underlying writer.
func (s *Y4MSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
