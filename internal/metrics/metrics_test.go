// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	r := New()
	r.ModuleRead("ok")
	r.ModuleRead("ok")
	r.ModuleRead("parse_error")
	r.DependencyResolved("local")
	r.UnresolvedRequired(2)
	r.Graph(5, 4)
	r.Cycle(true)
	r.PassDuration(time.Now().Add(-time.Second))

	if got := testutil.ToFloat64(r.modulesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("modules ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.modulesTotal.WithLabelValues("parse_error")); got != 1 {
		t.Errorf("modules parse_error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.unresolvedRequired); got != 2 {
		t.Errorf("unresolved required = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.graphEdges); got != 4 {
		t.Errorf("graph edges = %v, want 4", got)
	}
	if got := testutil.ToFloat64(r.cycleDetected); got != 1 {
		t.Errorf("cycle detected = %v, want 1", got)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	r := New()
	r.Graph(3, 1)
	path := filepath.Join(t.TempDir(), "modgraph.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "modgraph_graph_modules 3") {
		t.Errorf("textfile missing graph gauge:\n%s", data)
	}
}

func TestRecorder_Nil(t *testing.T) {
	t.Parallel()

	var r *Recorder
	r.ModuleRead("ok")
	r.DependencyResolved("local")
	r.UnresolvedRequired(1)
	r.Graph(1, 1)
	r.Cycle(false)
	r.PassDuration(time.Now())
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("nil recorder should not fail, got %v", err)
	}
}
