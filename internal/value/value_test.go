package value

import (
	"testing"
	"time"
)

func TestCastInt(t *testing.T) {
	tests := []struct {
		name    string
		raw     Value
		want    int64
		wantErr bool
	}{
		{"from int", NewInt(42), 42, false},
		{"from digit string", NewRaw("42"), 42, false},
		{"from negative digit string", NewRaw("-7"), -7, false},
		{"from bool true", NewBool(true), 1, false},
		{"from bool false", NewBool(false), 0, false},
		{"from non-digit string", NewRaw("abc"), 0, true},
		{"from float-looking string", NewRaw("4.2"), 0, true},
		{"from empty string", NewRaw(""), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cast(tt.raw, Int)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Cast() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Cast() error = %v", err)
			}
			if got.Int() != tt.want {
				t.Fatalf("Cast() = %d, want %d", got.Int(), tt.want)
			}
		})
	}
}

func TestCastBool(t *testing.T) {
	tests := []struct {
		name    string
		raw     Value
		want    bool
		wantErr bool
	}{
		{"true literal", NewRaw("true"), true, false},
		{"TRUE literal", NewRaw("TRUE"), true, false},
		{"false literal", NewRaw("false"), false, false},
		{"0", NewRaw("0"), false, false},
		{"1", NewRaw("1"), true, false},
		{"  true  ", NewRaw("  true  "), true, false},
		{"from bool", NewBool(true), true, false},
		{"from int 1", NewInt(1), true, false},
		{"from int 0", NewInt(0), false, false},
		{"garbage", NewRaw("yes"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cast(tt.raw, Bool)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Cast() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Cast() error = %v", err)
			}
			if got.Bool() != tt.want {
				t.Fatalf("Cast() = %v, want %v", got.Bool(), tt.want)
			}
		})
	}
}

func TestCastDateTime(t *testing.T) {
	got, err := Cast(NewRaw("2024-01-15T10:30:00Z"), DateTime)
	if err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !got.Time().Equal(want) {
		t.Fatalf("Cast() = %v, want %v", got.Time(), want)
	}

	if _, err := Cast(NewRaw("not-a-date"), DateTime); err == nil {
		t.Fatalf("Cast() error = nil, want error for malformed datetime")
	}
}

func TestCastTextStringifies(t *testing.T) {
	got, err := Cast(NewInt(7), Text)
	if err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if got.Text() != "7" {
		t.Fatalf("Cast() = %q, want %q", got.Text(), "7")
	}
}

func TestCastNullPreserved(t *testing.T) {
	for _, ty := range []Type{Int, Text, Bool, DateTime} {
		got, err := Cast(Null, ty)
		if err != nil {
			t.Fatalf("Cast(Null, %s) error = %v", ty, err)
		}
		if !got.IsNull() {
			t.Fatalf("Cast(Null, %s) = %v, want Null", ty, got)
		}
	}
}

func TestCastIdempotent(t *testing.T) {
	cases := []struct {
		raw Value
		t   Type
	}{
		{NewRaw("42"), Int},
		{NewRaw("hello"), Text},
		{NewRaw("true"), Bool},
		{NewRaw("2024-01-15T10:30:00Z"), DateTime},
	}
	for _, c := range cases {
		once, err := Cast(c.raw, c.t)
		if err != nil {
			t.Fatalf("Cast() error = %v", err)
		}
		twice, err := Cast(once, c.t)
		if err != nil {
			t.Fatalf("Cast(Cast()) error = %v", err)
		}
		if !once.Equal(twice) {
			t.Fatalf("Cast is not idempotent for %v/%s: %v != %v", c.raw, c.t, once, twice)
		}
	}
}

func TestNullNeverEqual(t *testing.T) {
	if Null.Equal(Null) {
		t.Fatalf("Null.Equal(Null) = true, want false per predicate policy")
	}
	if Null.Equal(NewInt(0)) {
		t.Fatalf("Null.Equal(NewInt(0)) = true, want false")
	}
}

func TestPersistentRoundTrip(t *testing.T) {
	dt := NewDateTime(time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC))
	p := ToPersistent(dt)
	back, err := FromPersistent(p, DateTime)
	if err != nil {
		t.Fatalf("FromPersistent() error = %v", err)
	}
	if !back.Time().Equal(dt.Time()) {
		t.Fatalf("round trip = %v, want %v", back.Time(), dt.Time())
	}

	n := ToPersistent(Null)
	if n != nil {
		t.Fatalf("ToPersistent(Null) = %v, want nil", n)
	}
	backNull, err := FromPersistent(nil, Int)
	if err != nil {
		t.Fatalf("FromPersistent(nil) error = %v", err)
	}
	if !backNull.IsNull() {
		t.Fatalf("FromPersistent(nil) = %v, want Null", backNull)
	}
}
