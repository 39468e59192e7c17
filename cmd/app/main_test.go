package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestStopped(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "no error", err: nil, want: false},
		{name: "interrupted", err: context.Canceled, want: true},
		{name: "interrupted while reading", err: fmt.Errorf("reading frame 3: %w", context.Canceled), want: true},
		{name: "failure", err: errors.New("container: bad header"), want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stopped(tc.err); got != tc.want {
				t.Errorf("stopped(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
