package kroger

import "testing"

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{in: 4.5, want: "$4.50"},
		{in: 3.999, want: "$4.00"},
		{in: 0, want: "$0.00"},
		{in: 19.99, want: "$19.99"},
		{in: 1234.5, want: "$1,234.50"},
		{in: 1234567.891, want: "$1,234,567.89"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Fatalf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPriceHalfCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		// exact binary halves go to the even cent
		{in: 0.125, want: "$0.12"},
		{in: 0.375, want: "$0.38"},
		// stored just below the half
		{in: 2.675, want: "$2.67"},
		{in: 0.015, want: "$0.01"},
		{in: 1099.995, want: "$1,099.99"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Fatalf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
