package fingerprint

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestOutputName(t *testing.T) {
	testCases := []struct {
		input string
		ext   string
		want  string
	}{
		{input: "a.txt", ext: ".out", want: "a.out"},
		{input: "a.txt", ext: "out", want: "a.txtout"},
		{input: "a.txt", ext: "", want: "a.txt"},
		{input: filepath.Join("deep", "dir", "a.txt"), ext: ".out", want: "a.out"},
		{input: "noext", ext: ".out", want: "noext.out"},
		{input: "noext", ext: "out", want: "noextout"},
		{input: "archive.tar.gz", ext: ".zip", want: "archive.tar.zip"},
	}

	for _, tc := range testCases {
		t.Run(tc.input+"+"+tc.ext, func(t *testing.T) {
			if got := outputName(tc.input, tc.ext); got != tc.want {
				t.Errorf("outputName(%q, %q) = %q, want %q", tc.input, tc.ext, got, tc.want)
			}
		})
	}
}

func TestTransformDefaultCopy(t *testing.T) {
	store, memFs := newTestStore(t)

	inputs := []string{"a.txt", "b.txt"}
	for _, input := range inputs {
		writeTestFile(t, memFs, input, []byte("content of "+input))
	}

	outcomes, err := store.Transform(inputs, "out")
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(outcomes) != len(inputs) {
		t.Fatalf("Transform() returned %d outcomes, want %d", len(outcomes), len(inputs))
	}

	for i, outcome := range outcomes {
		want := filepath.Join("out", inputs[i])
		if outcome.Output != want {
			t.Errorf("outcome[%d].Output = %q, want %q", i, outcome.Output, want)
		}
		if !outcome.Processed {
			t.Errorf("outcome[%d].Processed = false on fresh store, want true", i)
		}
		data, err := afero.ReadFile(memFs, outcome.Output)
		if err != nil {
			t.Fatalf("Failed to read output %s: %v", outcome.Output, err)
		}
		if string(data) != "content of "+inputs[i] {
			t.Errorf("output %s content = %q", outcome.Output, data)
		}
	}
}

func TestTransformSkipsUnchanged(t *testing.T) {
	store, memFs := newTestStore(t)

	inputs := []string{"a.txt", "b.txt"}
	for _, input := range inputs {
		writeTestFile(t, memFs, input, []byte(input))
	}

	var calls []string
	record := func(input, output string) error {
		calls = append(calls, input)
		return store.copyFile(input, output)
	}

	if _, err := store.Transform(inputs, "out", WithTransform(record)); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("first run invoked transform %d times, want 2", len(calls))
	}

	// Second run with nothing modified runs nothing.
	calls = nil
	outcomes, err := store.Transform(inputs, "out", WithTransform(record))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("second run invoked transform for %v, want none", calls)
	}
	for i, outcome := range outcomes {
		if outcome.Processed {
			t.Errorf("outcome[%d].Processed = true on unchanged rerun", i)
		}
	}

	// Modifying one input reruns just that one.
	writeTestFile(t, memFs, "b.txt", []byte("b-modified"))
	calls = nil
	outcomes, err = store.Transform(inputs, "out", WithTransform(record))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(calls) != 1 || calls[0] != "b.txt" {
		t.Errorf("third run invoked transform for %v, want [b.txt]", calls)
	}
	if outcomes[0].Processed || !outcomes[1].Processed {
		t.Errorf("third run outcomes = %+v, want only b.txt processed", outcomes)
	}
}

func TestTransformForceUpdatesDigests(t *testing.T) {
	store, memFs := newTestStore(t)

	writeTestFile(t, memFs, "a.txt", []byte("a"))

	outcomes, err := store.Transform([]string{"a.txt"}, "out", WithForce())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if !outcomes[0].Processed {
		t.Error("forced run did not process")
	}

	// The forced run still recorded the digest.
	assertChanged(t, store, "a.txt", false, "after forced run")

	// Force processes even when nothing changed.
	outcomes, err = store.Transform([]string{"a.txt"}, "out", WithForce())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if !outcomes[0].Processed {
		t.Error("forced rerun did not process unchanged input")
	}
}

func TestTransformOutputExtension(t *testing.T) {
	store, memFs := newTestStore(t)

	writeTestFile(t, memFs, "a.txt", []byte("a"))

	outcomes, err := store.Transform([]string{"a.txt"}, "out", WithOutputExt(".gen"))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if want := filepath.Join("out", "a.gen"); outcomes[0].Output != want {
		t.Errorf("Output = %q, want %q", outcomes[0].Output, want)
	}
	if exists, _ := afero.Exists(memFs, outcomes[0].Output); !exists {
		t.Errorf("output file %s missing", outcomes[0].Output)
	}
}

func TestTransformMissingInput(t *testing.T) {
	store, memFs := newTestStore(t)

	writeTestFile(t, memFs, "a.txt", []byte("a"))

	// A missing input resolves as unchanged: skipped, no error.
	outcomes, err := store.Transform([]string{"missing.txt", "a.txt"}, "out")
	if err != nil {
		t.Fatalf("Transform() error = %v, want nil for missing input", err)
	}
	if outcomes[0].Processed {
		t.Error("missing input reported as processed")
	}
	if !outcomes[1].Processed {
		t.Error("present input not processed")
	}
}

func TestTransformErrorPropagates(t *testing.T) {
	store, memFs := newTestStore(t)

	inputs := []string{"a.txt", "b.txt"}
	for _, input := range inputs {
		writeTestFile(t, memFs, input, []byte(input))
	}

	wantErr := errors.New("transform exploded")
	var calls int
	failing := func(input, output string) error {
		calls++
		return wantErr
	}

	_, err := store.Transform(inputs, "out", WithTransform(failing))
	if !errors.Is(err, wantErr) {
		t.Fatalf("Transform() error = %v, want %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("sequential batch continued after failure: %d calls", calls)
	}
}

func TestTransformAggregate(t *testing.T) {
	store, memFs := newTestStore(t)

	inputs := []string{"f1.txt", "f2.txt"}
	writeTestFile(t, memFs, "f1.txt", []byte("first\n"))
	writeTestFile(t, memFs, "f2.txt", []byte("second\n"))

	output := filepath.Join("out", "agg.txt")

	// First run on a fresh cache processes.
	outcome, err := store.TransformAggregate(inputs, output)
	if err != nil {
		t.Fatalf("TransformAggregate() error = %v", err)
	}
	if !outcome.Processed {
		t.Error("first aggregate run not processed")
	}
	data, err := afero.ReadFile(memFs, output)
	if err != nil {
		t.Fatalf("Failed to read aggregate output: %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("default aggregate content = %q, want inputs concatenated in order", data)
	}

	// Rerun with unchanged inputs and existing output skips.
	outcome, err = store.TransformAggregate(inputs, output)
	if err != nil {
		t.Fatalf("TransformAggregate() error = %v", err)
	}
	if outcome.Processed {
		t.Error("unchanged rerun processed")
	}

	// A deleted output is re-derived even with unchanged inputs.
	if err := memFs.Remove(output); err != nil {
		t.Fatalf("Failed to remove aggregate output: %v", err)
	}
	outcome, err = store.TransformAggregate(inputs, output)
	if err != nil {
		t.Fatalf("TransformAggregate() error = %v", err)
	}
	if !outcome.Processed {
		t.Error("missing output did not trigger re-derivation")
	}

	// A modified input triggers as well.
	writeTestFile(t, memFs, "f2.txt", []byte("second v2\n"))
	outcome, err = store.TransformAggregate(inputs, output)
	if err != nil {
		t.Fatalf("TransformAggregate() error = %v", err)
	}
	if !outcome.Processed {
		t.Error("modified input did not trigger aggregate")
	}
}

func TestTransformAggregateCustomFunc(t *testing.T) {
	store, memFs := newTestStore(t)

	inputs := []string{"f1.txt", "f2.txt"}
	writeTestFile(t, memFs, "f1.txt", []byte("alpha"))
	writeTestFile(t, memFs, "f2.txt", []byte("beta"))

	upper := func(srcs []string, dst string) error {
		var sb strings.Builder
		for _, src := range srcs {
			data, err := afero.ReadFile(memFs, src)
			if err != nil {
				return err
			}
			fmt.Fprintf(&sb, "FILE: %s\n%s\n", filepath.Base(src), strings.ToUpper(string(data)))
		}
		return afero.WriteFile(memFs, dst, []byte(sb.String()), 0o644)
	}

	output := filepath.Join("out", "report.txt")
	outcome, err := store.TransformAggregate(inputs, output, WithAggregate(upper))
	if err != nil {
		t.Fatalf("TransformAggregate() error = %v", err)
	}
	if !outcome.Processed {
		t.Fatal("custom aggregate not processed on fresh cache")
	}

	data, err := afero.ReadFile(memFs, output)
	if err != nil {
		t.Fatalf("Failed to read aggregate output: %v", err)
	}
	for _, want := range []string{"FILE: f1.txt", "FILE: f2.txt", "ALPHA", "BETA"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("aggregate output missing %q: %q", want, data)
		}
	}
}

func TestTransformAggregateForce(t *testing.T) {
	store, memFs := newTestStore(t)

	inputs := []string{"f1.txt"}
	writeTestFile(t, memFs, "f1.txt", []byte("one"))
	output := filepath.Join("out", "agg.txt")

	if _, err := store.TransformAggregate(inputs, output); err != nil {
		t.Fatalf("TransformAggregate() error = %v", err)
	}

	outcome, err := store.TransformAggregate(inputs, output, WithForce())
	if err != nil {
		t.Fatalf("TransformAggregate() error = %v", err)
	}
	if !outcome.Processed {
		t.Error("forced aggregate rerun not processed")
	}
	// Digests stay current under force.
	assertChanged(t, store, "f1.txt", false, "after forced aggregate")
}
