package money

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		amount Money
		want   string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{12345, "123.45"},
		{-5, "-0.05"},
		{-12345, "-123.45"},
	}
	for _, tt := range tests {
		if got := tt.amount.String(); got != tt.want {
			t.Errorf("Money(%d).String() = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestParseMajor(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"12.30", 1230, false},
		{"12.3", 1230, false},
		{"12", 1200, false},
		{"-4", -400, false},
		{"-0.05", -5, false},
		{"0", 0, false},
		{".50", 50, false},
		{"1.234", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"1.x", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMajor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMajor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMajor(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name    string
		total   Money
		n       int
		want    []Money
		wantErr bool
	}{
		{name: "exact division", total: 300, n: 3, want: []Money{100, 100, 100}},
		{name: "remainder to first shares", total: 100, n: 3, want: []Money{34, 33, 33}},
		{name: "two-way odd cent", total: 101, n: 2, want: []Money{51, 50}},
		{name: "single participant", total: 999, n: 1, want: []Money{999}},
		{name: "negative total", total: -100, n: 3, want: []Money{-33, -33, -34}},
		{name: "zero participants", total: 100, n: 0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitEqually(tt.total, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEqually() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			var sum Money
			for _, s := range got {
				sum += s
			}
			if sum != tt.total {
				t.Errorf("shares sum to %d, want %d", sum, tt.total)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("share[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
