package money

import "testing"

func TestFromUnits(t *testing.T) {
	cases := []struct {
		units int64
		want  Amount
	}{
		{0, 0},
		{10, 1000},
		{1, 100},
	}
	for _, c := range cases {
		if got := FromUnits(c.units); got != c.want {
			t.Errorf("FromUnits(%d) = %d, want %d", c.units, got, c.want)
		}
	}
}

func TestFromMajorMinor(t *testing.T) {
	if got := FromMajorMinor(10, 50); got != 1050 {
		t.Errorf("FromMajorMinor(10, 50) = %d, want 1050", got)
	}
}

func TestAdd(t *testing.T) {
	a := FromUnits(10)
	b := FromUnits(5)
	if got := a.Add(b); got != FromUnits(15) {
		t.Errorf("Add = %d, want %d", got, FromUnits(15))
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		amount Amount
		want   string
	}{
		{1050, "10.50"},
		{0, "0.00"},
		{5, "0.05"},
	}
	for _, c := range cases {
		if got := c.amount.String(); got != c.want {
			t.Errorf("%d.String() = %q, want %q", c.amount, got, c.want)
		}
	}
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	a := FromMajorMinor(42, 99)
	b, err := a.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(b) != "42.99" {
		t.Fatalf("MarshalJSON = %q, want %q", b, "42.99")
	}

	var got Amount
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got != a {
		t.Fatalf("UnmarshalJSON round-trip = %d, want %d", got, a)
	}
}
