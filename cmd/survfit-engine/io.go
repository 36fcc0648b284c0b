package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kestrelstack/survfit-engine/internal/history"
)

type observationRecord struct {
	Time   float64 `json:"time"`
	Status int     `json:"status"`
	Arm    int     `json:"arm,omitempty"`
}

// readObservations decodes a JSON array of {time,status[,arm]} records from path, or stdin when
// path is "-".
func readObservations(path string) ([]observationRecord, error) {
	var r io.Reader
	if path == "-" || path == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var records []observationRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	return records, nil
}

// writeJSON pretty-prints v to path, or stdout when path is "-" or empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "-" || path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// readHistoryRecords decodes a JSON array of history.Record from path, or stdin when path is "-".
func readHistoryRecords(path string) ([]history.Record, error) {
	var r io.Reader
	if path == "-" || path == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var records []history.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode history records: %w", err)
	}
	return records, nil
}

// parseFloats splits a comma-separated list of floats; an empty string yields nil.
func parseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse float %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}
