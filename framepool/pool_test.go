package framepool

import "testing"

// conserved checks that every buffer is accounted for: held is the
// number of buffers the caller has popped (GetFree/GetFirstValid) and
// not yet handed back to the pool.
func conserved(t *testing.T, p *Pool, held int) {
	t.Helper()
	p.Lock()
	defer p.Unlock()
	cur := 0
	if p.HasCurrent() {
		cur = 1
	}
	if got, want := p.FreeLen()+p.ValidLen()+cur+held, Size; got != want {
		t.Fatalf("pool conservation violated: free=%d valid=%d current=%d held=%d total=%d want=%d",
			p.FreeLen(), p.ValidLen(), cur, held, got, want)
	}
}

func TestPoolConservationAcrossTransitions(t *testing.T) {
	p := New([3]int{4, 0, 0})
	conserved(t, p, 0)

	p.Lock()
	f, ok := p.GetFree()
	if !ok {
		t.Fatal("expected a free buffer")
	}
	p.Unlock()
	conserved(t, p, 1)

	p.Lock()
	p.AddToValid(f)
	p.Unlock()
	conserved(t, p, 0)

	p.Lock()
	if !p.MoveValidToCurrent() {
		t.Fatal("expected MoveValidToCurrent to succeed")
	}
	p.Unlock()
	conserved(t, p, 0)

	p.Lock()
	p.MoveCurrentToFree()
	p.Unlock()
	conserved(t, p, 0)
}

func TestPoolFIFOOrdering(t *testing.T) {
	p := New([3]int{1, 0, 0})

	// Drain all free buffers and tag them 1..4 via Planes[0][0].
	var frames []*Frame
	p.Lock()
	for i := 0; i < Size; i++ {
		f, ok := p.GetFree()
		if !ok {
			t.Fatalf("expected free buffer %d", i)
		}
		f.Planes[0][0] = byte(i + 1)
		frames = append(frames, f)
	}
	p.Unlock()

	p.Lock()
	for _, f := range frames {
		p.AddToValid(f)
	}
	p.Unlock()

	for i := 0; i < Size; i++ {
		p.Lock()
		f, ok := p.GetFirstValid()
		p.Unlock()
		if !ok {
			t.Fatalf("expected valid buffer %d", i)
		}
		if got, want := f.Planes[0][0], byte(i+1); got != want {
			t.Errorf("FIFO violated: position %d got tag %d, want %d", i, got, want)
		}
	}
}

func TestMoveFreeToCurrentRequiresEmptyCurrent(t *testing.T) {
	p := New([3]int{1, 0, 0})
	p.Lock()
	if !p.MoveFreeToCurrent() {
		t.Fatal("expected first MoveFreeToCurrent to succeed")
	}
	if p.MoveFreeToCurrent() {
		t.Fatal("expected second MoveFreeToCurrent to fail while current is held")
	}
	p.Unlock()
}

func TestMoveValidToCurrentRequiresNonEmptyValid(t *testing.T) {
	p := New([3]int{1, 0, 0})
	p.Lock()
	if p.MoveValidToCurrent() {
		t.Fatal("expected MoveValidToCurrent to fail on empty valid list")
	}
	p.Unlock()
}
