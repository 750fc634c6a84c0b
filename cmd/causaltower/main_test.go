package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	perrors "github.com/matzehuels/causaltower/pkg/errors"
	"github.com/matzehuels/causaltower/pkg/grapl"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"interrupted", fmt.Errorf("identify: %w", context.Canceled), exitInterrupted},
		{"coded input error", perrors.New(perrors.ErrCodeUnknownNode, "unknown node Q"), exitBadInput},
		{"raw syntax error", fmt.Errorf("%w: line 1", grapl.ErrSyntax), exitBadInput},
		{"other", errors.New("disk full"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
