package app

import (
	"testing"
)

func TestSplitSymbols(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"0005.HK,0700.HK", []string{"0005.HK", "0700.HK"}},
		{" 0005.hk , 0700.HK ", []string{"0005.HK", "0700.HK"}},
		{"0941.HK,,", []string{"0941.HK"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SplitSymbols(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("SplitSymbols(%q) = %v; want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("SplitSymbols(%q)[%d] = %q; want %q", tt.input, i, got[i], tt.expected[i])
				}
			}
		})
	}
}
