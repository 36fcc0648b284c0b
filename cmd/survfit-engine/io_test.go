package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kestrelstack/survfit-engine/internal/history"
)

func TestReadObservationsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "obs.json")
	records := []observationRecord{{Time: 1.5, Status: 1}, {Time: 2.5, Status: 0, Arm: 1}}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := readObservations(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Time != 1.5 || got[1].Arm != 1 {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestReadObservationsMissingFile(t *testing.T) {
	if _, err := readObservations(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestWriteJSONToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := writeJSON(path, map[string]int{"a": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if got["a"] != 1 {
		t.Fatalf("unexpected output: %v", got)
	}
}

func TestReadHistoryRecordsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	records := []history.Record{
		{Family: "exp", Theta: []float64{1.2}, N: 10, EventCount: 8, Converged: true},
		{Family: "weibull", Theta: []float64{1, 1}, N: 5, EventCount: 5, Converged: false, SigmaRobust: true},
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := readHistoryRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Family != "exp" || got[1].SigmaRobust != true {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestReadHistoryRecordsMissingFile(t *testing.T) {
	if _, err := readHistoryRecords(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestParseFloatsSplitsAndTrims(t *testing.T) {
	got, err := parseFloats(" 1.5, 2, 3.25 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1.5, 2, 3.25}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestParseFloatsEmptyStringYieldsNil(t *testing.T) {
	got, err := parseFloats("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for an empty string, got %v", got)
	}
}

func TestParseFloatsRejectsInvalidEntries(t *testing.T) {
	if _, err := parseFloats("1,not-a-number,3"); err == nil {
		t.Fatalf("expected an error for an unparsable entry")
	}
}
