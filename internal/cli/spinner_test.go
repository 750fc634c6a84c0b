package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/causaltower/pkg/grapl"
	"github.com/matzehuels/causaltower/pkg/identify"
	"github.com/matzehuels/causaltower/pkg/nodeset"
	"github.com/matzehuels/causaltower/pkg/observability"
)

type recordingHooks struct {
	observability.NoopQueryHooks
	mu        sync.Mutex
	districts []string
}

func (h *recordingHooks) OnSearch(_ context.Context, district string, _, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.districts = append(h.districts, district)
}

func TestSearchSpinnerCountsDistricts(t *testing.T) {
	t.Cleanup(observability.Reset)
	var buf bytes.Buffer
	s := newSearchSpinner(context.Background(), &buf, "Searching...")
	if got := s.Status(); got != "Searching..." {
		t.Errorf("Status() before any search = %q", got)
	}

	s.Start()
	observability.Query().OnSearch(context.Background(), "{Y}", 1, 3)
	if got, want := s.Status(), "Searching... 1 district, 1 sequences, 3 states"; got != want {
		t.Errorf("Status() = %q, want %q", got, want)
	}
	observability.Query().OnSearch(context.Background(), "{M}", 4, 9)
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if got, want := s.Status(), "Searching... 2 districts, 5 sequences, 12 states"; got != want {
		t.Errorf("Status() = %q, want %q", got, want)
	}
	if !strings.Contains(buf.String(), "2 districts") {
		t.Errorf("spinner output %q should show the counts", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("Stop should clear the spinner line")
	}
}

func TestSearchSpinnerForwardsAndRestoresHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	rec := &recordingHooks{}
	observability.SetQueryHooks(rec)

	s := newSearchSpinner(context.Background(), &bytes.Buffer{}, "Searching...")
	s.Start()
	if observability.Query() != s {
		t.Fatal("Start should register the spinner as query hooks")
	}
	observability.Query().OnSearch(context.Background(), "{X,Y}", 2, 7)
	s.Stop()

	if observability.Query() != rec {
		t.Error("Stop should restore the previous hooks")
	}
	if len(rec.districts) != 1 || rec.districts[0] != "{X,Y}" {
		t.Errorf("forwarded districts = %v", rec.districts)
	}
}

func TestSearchSpinnerFollowsIdentify(t *testing.T) {
	t.Cleanup(observability.Reset)
	g, err := grapl.ParseString("fd.grapl", frontDoorGRAPL)
	if err != nil {
		t.Fatal(err)
	}

	s := newSearchSpinner(context.Background(), &bytes.Buffer{}, "Searching...")
	s.Start()
	var res *identify.Result
	res, err = identify.Identify(context.Background(), g, nodeset.New("X"), nodeset.New("Y"), identify.DefaultOptions())
	s.Stop()
	if err != nil {
		t.Fatal(err)
	}

	want := len(res.Districts)
	if !strings.Contains(s.Status(), fmt.Sprintf(" %d district", want)) {
		t.Errorf("Status() = %q, want %d districts", s.Status(), want)
	}
}

func TestSearchSpinnerStopsOnCancel(t *testing.T) {
	t.Cleanup(observability.Reset)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSearchSpinner(ctx, &bytes.Buffer{}, "Searching...")
	s.Start()
	select {
	case <-s.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("spinner should stop when its context is done")
	}

	// Stop is still needed to restore the hooks and is idempotent.
	s.Stop()
	s.Stop()
	if observability.Query() == s {
		t.Error("hooks not restored")
	}
}
