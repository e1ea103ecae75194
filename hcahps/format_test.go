package hcahps

import "testing"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, ""},
		{Float(80), "80"},
		{Float(70.5), "70.5"},
		{Float(10.333333), "10.33"},
		{Float(-0.004), "0"},
		{Float(-2.345678), "-2.35"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, ""},
		{Float(3.5), "+3.5"},
		{Float(-3.5), "-3.5"},
		{Float(0), "0"},
		{Float(0.001), "0"},
	}
	for _, tt := range tests {
		if got := FormatSigned(tt.in); got != tt.want {
			t.Errorf("FormatSigned(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
