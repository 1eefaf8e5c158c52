package decimal

import "testing"

func mustParse(t *testing.T, s string) Decimal {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return d
}

func TestParseStringRoundTrip(t *testing.T) {
	cases := []string{"0", "12.54", "-12.54", "0.001", "-0.5", "123456789012345678901234.5"}
	for _, c := range cases {
		d := mustParse(t, c)
		if got := d.String(); got != c {
			t.Errorf("Parse(%q).String() = %q, want %q", c, got, c)
		}
	}
}

func TestFromInt64ToInt(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 12345, -98765432} {
		d := FromInt64(v, 0)
		got, err := d.ToInt64()
		if err != nil {
			t.Fatalf("ToInt64: %v", err)
		}
		if got != v {
			t.Errorf("FromInt64(%d).ToInt64() = %d", v, got)
		}
	}
}

func TestAddCommutative(t *testing.T) {
	a := mustParse(t, "12.54")
	b := mustParse(t, "2.2")
	if !Equal(Add(a, b), Add(b, a)) {
		t.Fatal("a+b != b+a")
	}
	want := mustParse(t, "14.74")
	if !Equal(Add(a, b), want) {
		t.Fatalf("12.54+2.2 = %s, want %s", Add(a, b).String(), want.String())
	}
}

func TestAssociative(t *testing.T) {
	a := mustParse(t, "1.1")
	b := mustParse(t, "2.2")
	c := mustParse(t, "3.3")
	lhs := Add(Add(a, b), c)
	rhs := Add(a, Add(b, c))
	if !Equal(lhs, rhs) {
		t.Fatalf("(a+b)+c = %s != a+(b+c) = %s", lhs.String(), rhs.String())
	}
}

func TestDistributive(t *testing.T) {
	a := mustParse(t, "2.5")
	b := mustParse(t, "1.1")
	c := mustParse(t, "3.3")
	lhs := Mul(a, Add(b, c))
	rhs := Add(Mul(a, b), Mul(a, c))
	if !Equal(lhs, rhs) {
		t.Fatalf("a*(b+c) = %s != a*b+a*c = %s", lhs.String(), rhs.String())
	}
}

func TestMulCommutative(t *testing.T) {
	a := mustParse(t, "4.5")
	b := mustParse(t, "-2.25")
	if !Equal(Mul(a, b), Mul(b, a)) {
		t.Fatal("a*b != b*a")
	}
}

func TestSubSelfIsZero(t *testing.T) {
	a := mustParse(t, "42.17")
	z := Sub(a, a)
	if !z.IsZero() {
		t.Fatalf("a-a = %s, want 0", z.String())
	}
}

func TestDivSelfIsOne(t *testing.T) {
	a := mustParse(t, "7.0")
	q, err := Divide(a, a, 10, RoundHalfAwayFromZero)
	if err != nil {
		t.Fatal(err)
	}
	one := FromInt64(1, 0)
	if !Equal(q, one) {
		t.Fatalf("a/a = %s, want 1", q.String())
	}
}

func TestDivideByZero(t *testing.T) {
	a := mustParse(t, "1")
	z := mustParse(t, "0")
	if _, err := Divide(a, z, 4, RoundTruncate); err == nil {
		t.Fatal("expected domain error dividing by zero")
	}
}

func TestCompareNaN(t *testing.T) {
	n := NaNValue()
	a := mustParse(t, "99999")
	if Compare(n, n) != 0 {
		t.Fatal("NaN should compare equal to itself")
	}
	if Compare(n, a) <= 0 {
		t.Fatal("NaN should compare greater than any number")
	}
}

func TestCeilFloor(t *testing.T) {
	a := mustParse(t, "1.2")
	if got := Ceil(a).String(); got != "2" {
		t.Errorf("Ceil(1.2) = %s, want 2", got)
	}
	if got := Floor(a).String(); got != "1" {
		t.Errorf("Floor(1.2) = %s, want 1", got)
	}
	b := mustParse(t, "-1.2")
	if got := Ceil(b).String(); got != "-1" {
		t.Errorf("Ceil(-1.2) = %s, want -1", got)
	}
	if got := Floor(b).String(); got != "-2" {
		t.Errorf("Floor(-1.2) = %s, want -2", got)
	}
}

func TestSqrt(t *testing.T) {
	a := mustParse(t, "2")
	r, err := Sqrt(a, 10)
	if err != nil {
		t.Fatal(err)
	}
	squared := Mul(r, r)
	diff := Sub(squared, a)
	if got, _ := diff.ToFloat64(); got > 1e-8 || got < -1e-8 {
		t.Fatalf("sqrt(2)^2 = %s, too far from 2", squared.String())
	}
}

func TestSqrtNegativeFails(t *testing.T) {
	a := mustParse(t, "-4")
	if _, err := Sqrt(a, 5); err == nil {
		t.Fatal("expected domain error for sqrt of negative")
	}
}

func TestIncrementScenario(t *testing.T) {
	v := mustParse(t, "12.54")
	if v.String() != "12.54" {
		t.Fatalf("got %s", v.String())
	}
	incr := Add(v, FromInt64(1, 0))
	if incr.String() != "13.54" {
		t.Fatalf("12.54+1 = %s, want 13.54", incr.String())
	}
	final := Add(Add(incr, mustParse(t, "2.2")), mustParse(t, "34"))
	want := mustParse(t, "49.74")
	if !Equal(final, want) {
		t.Fatalf("13.54+2.2+34 = %s, want %s", final.String(), want.String())
	}
}
