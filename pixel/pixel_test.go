package pixel

import "testing"

func TestYWithinBoundary(t *testing.T) {
	cases := []struct {
		a, b Y
		tol  int32
		want bool
	}{
		{10, 20, 10, true},
		{10, 21, 10, false},
		{20, 10, 10, true},
		{0, 255, 255, true},
		{0, 255, 254, false},
	}
	for _, c := range cases {
		tol := c.a.MakeTolerance(c.tol)
		if got := c.a.Within(c.b, tol); got != c.want {
			t.Errorf("Y(%d).Within(%d, %d) = %v, want %v", c.a, c.b, c.tol, got, c.want)
		}
	}
}

func TestYWithinSymmetry(t *testing.T) {
	a, b := Y(37), Y(200)
	tol := a.MakeTolerance(50)
	if a.Within(b, tol) != b.Within(a, tol) {
		t.Errorf("Y.Within is not symmetric for %d, %d", a, b)
	}
}

func TestYSADMatchesTolerance(t *testing.T) {
	a, b := Y(12), Y(250)
	sad := a.SAD(b)
	if !a.Within(b, sad) {
		t.Errorf("Y.Within should hold at exactly the SAD: a=%d b=%d sad=%d", a, b, sad)
	}
	if a.Within(b, sad-1) {
		t.Errorf("Y.Within should not hold just below the SAD")
	}
}

func TestCbCrWithinBoundary(t *testing.T) {
	a := CbCr{Cb: 10, Cr: 10}
	b := CbCr{Cb: 13, Cr: 14}
	// Δcb=3, Δcr=4 -> squared distance 9+16=25 -> t=5 boundary.
	t5 := a.MakeTolerance(5)
	if !a.Within(b, t5) {
		t.Errorf("expected within at t=5 (t²=25)")
	}
	t4 := a.MakeTolerance(4)
	if a.Within(b, t4) {
		t.Errorf("expected not within at t=4 (t²=16)")
	}
}

func TestCbCrWithinSymmetry(t *testing.T) {
	a := CbCr{Cb: 5, Cr: 250}
	b := CbCr{Cb: 200, Cr: 1}
	tol := a.MakeTolerance(77)
	if a.Within(b, tol) != b.Within(a, tol) {
		t.Errorf("CbCr.Within is not symmetric for %v, %v", a, b)
	}
}

func TestCbCrSADMatchesTolerance(t *testing.T) {
	a := CbCr{Cb: 0, Cr: 0}
	b := CbCr{Cb: 255, Cr: 255}
	sad := a.SAD(b)
	if !a.Within(b, sad) {
		t.Errorf("CbCr.Within should hold at exactly the SAD")
	}
	if a.Within(b, sad-1) {
		t.Errorf("CbCr.Within should not hold just below the SAD")
	}
}

func TestMakeToleranceSquares(t *testing.T) {
	var c CbCr
	if got, want := c.MakeTolerance(16), Tolerance(256); got != want {
		t.Errorf("MakeTolerance(16) = %d, want %d", got, want)
	}
	var y Y
	if got, want := y.MakeTolerance(16), Tolerance(16); got != want {
		t.Errorf("Y.MakeTolerance(16) = %d, want %d", got, want)
	}
}
