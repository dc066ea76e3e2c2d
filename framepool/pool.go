/*
DESCRIPTION
  pool.go implements the bounded ring of pre-allocated planar frame
  buffers shared between a single producer and a single consumer
  (spec.md §3, §4.3). A pool owns exactly Size buffers; every buffer is
  a member of exactly one of three states: free, valid (FIFO, head is
  oldest) or current (at most one, held by the consumer side while the
  external client reads or writes it), except while a stage holds a
  buffer it popped with GetFree or GetFirstValid and has not yet handed
  back.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package framepool implements the bounded frame-buffer pool that the
// reader and writer stages and the pipeline facade build upon. A Pool
// is single-producer/single-consumer: the producer waits on Input when
// the free list is empty, the consumer waits on Output when the valid
// list is empty.
package framepool

import "github.com/ausocean/y4mdenoise/syncutil"

// Size is the fixed number of buffers allocated per pool (spec.md §3).
const Size = 4

// Frame is a fixed-size record holding the three byte planes (Y, Cb,
// Cr) sized to stream dimensions. next links Frame into whichever of
// the pool's two lists currently owns it; a Frame that is current is
// linked into neither.
type Frame struct {
	Planes [3][]byte
	next   *Frame
}

// Pool is a bounded ring of Size frame buffers circulating between
// free, valid and current states. The embedded Shell supplies the
// mutex and the input/output signal-wait pair; all of Pool's own
// methods require the caller to be holding Pool.Lock().
type Pool struct {
	*syncutil.Shell

	freeHead, freeTail   *Frame
	validHead, validTail *Frame
	current              *Frame

	nFree, nValid int
}

// New allocates a pool of Size buffers, plane i of each sized
// planeSizes[i] bytes (a zero size leaves that plane nil, e.g. the two
// chroma planes of a luma-only pool).
func New(planeSizes [3]int) *Pool {
	p := &Pool{Shell: syncutil.NewShell()}
	for i := 0; i < Size; i++ {
		f := &Frame{}
		for pl := 0; pl < 3; pl++ {
			if planeSizes[pl] > 0 {
				f.Planes[pl] = make([]byte, planeSizes[pl])
			}
		}
		p.addToFreeLocked(f)
	}
	return p
}

// GetFirstValid pops and returns the head of the valid list. ok is
// false if the valid list is empty. Requires Pool.Lock() held.
func (p *Pool) GetFirstValid() (f *Frame, ok bool) {
	p.MustBeLocked()
	if p.validHead == nil {
		return nil, false
	}
	f = p.validHead
	p.validHead = f.next
	if p.validHead == nil {
		p.validTail = nil
	}
	f.next = nil
	p.nValid--
	return f, true
}

// AddToValid appends f to the tail of the valid list. Requires
// Pool.Lock() held.
func (p *Pool) AddToValid(f *Frame) {
	p.MustBeLocked()
	f.next = nil
	if p.validTail == nil {
		p.validHead, p.validTail = f, f
	} else {
		p.validTail.next = f
		p.validTail = f
	}
	p.nValid++
}

// GetFree pops and returns the head of the free list. ok is false if
// the free list is empty. Requires Pool.Lock() held.
func (p *Pool) GetFree() (f *Frame, ok bool) {
	p.MustBeLocked()
	if p.freeHead == nil {
		return nil, false
	}
	f = p.freeHead
	p.freeHead = f.next
	if p.freeHead == nil {
		p.freeTail = nil
	}
	f.next = nil
	p.nFree--
	return f, true
}

// AddToFree pushes f onto the head of the free list. Requires
// Pool.Lock() held.
func (p *Pool) AddToFree(f *Frame) {
	p.MustBeLocked()
	p.addToFreeLocked(f)
}

func (p *Pool) addToFreeLocked(f *Frame) {
	f.next = p.freeHead
	p.freeHead = f
	if p.freeTail == nil {
		p.freeTail = f
	}
	p.nFree++
}

// MoveValidToCurrent promotes the head of the valid list to current.
// Precondition: current == nil and the valid list is non-empty;
// returns false if the precondition does not hold instead of asserting,
// since callers (reader/writer) use the return value to decide whether
// to wait.
func (p *Pool) MoveValidToCurrent() bool {
	p.MustBeLocked()
	if p.current != nil {
		return false
	}
	f, ok := p.GetFirstValid()
	if !ok {
		return false
	}
	p.current = f
	return true
}

// MoveCurrentToValid moves current back onto the tail of the valid
// list. No-op if current is nil.
func (p *Pool) MoveCurrentToValid() {
	p.MustBeLocked()
	if p.current == nil {
		return
	}
	f := p.current
	p.current = nil
	p.AddToValid(f)
}

// MoveFreeToCurrent promotes the head of the free list to current.
// Precondition: current == nil and the free list is non-empty.
func (p *Pool) MoveFreeToCurrent() bool {
	p.MustBeLocked()
	if p.current != nil {
		return false
	}
	f, ok := p.GetFree()
	if !ok {
		return false
	}
	p.current = f
	return true
}

// MoveCurrentToFree moves current back onto the head of the free list.
// No-op if current is nil.
func (p *Pool) MoveCurrentToFree() {
	p.MustBeLocked()
	if p.current == nil {
		return
	}
	f := p.current
	p.current = nil
	p.AddToFree(f)
}

// Current returns the buffer currently held exclusively by the
// consumer side, or nil if there is none.
func (p *Pool) Current() *Frame {
	p.MustBeLocked()
	return p.current
}

// FreeLen, ValidLen and HasCurrent expose the pool's state for the
// conservation invariant (spec.md §8): FreeLen()+ValidLen()+(1 if
// HasCurrent else 0) plus the number of buffers popped by GetFree or
// GetFirstValid and not yet handed back == Size.
func (p *Pool) FreeLen() int    { p.MustBeLocked(); return p.nFree }
func (p *Pool) ValidLen() int   { p.MustBeLocked(); return p.nValid }
func (p *Pool) HasCurrent() bool { p.MustBeLocked(); return p.current != nil }
