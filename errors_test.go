package sessio

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Identity(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidState", ErrInvalidState},
		{"ErrBrokenSession", ErrBrokenSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.err) {
				t.Fatalf("errors.Is(%v, %v) should be true", tt.name, tt.name)
			}
		})
	}
}

func TestSentinelErrors_Wrapping(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
	}{
		{"ErrInvalidState", ErrInvalidState},
		{"ErrBrokenSession", ErrBrokenSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("%w: session abc is not the active leaf", tt.sentinel)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Fatalf("wrapped error should match %v via errors.Is", tt.name)
			}
		})
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	if errors.Is(ErrInvalidState, ErrBrokenSession) || errors.Is(ErrBrokenSession, ErrInvalidState) {
		t.Fatal("sentinels must not match each other")
	}
}
