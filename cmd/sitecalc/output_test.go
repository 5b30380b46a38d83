package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"site-intel-service/internal/domain"
)

func TestPrintWritesJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })

	res := domain.SolarResult{Name: "a", Acres: 10, CapacityMW: 5}
	if err := (&options{}).print(res, solarRows(res)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if got["capacityMW"] != 5.0 {
		t.Fatalf("capacityMW = %v, want 5", got["capacityMW"])
	}
}

func TestParcelTable(t *testing.T) {
	out := []parcelOutput{
		{Index: 0, Name: "north", Acres: 20, Estimate: &domain.SolarResult{CapacityMW: 10, AnnualEnergyMWh: 15067.2, AnnualRevenue: 452016}},
		{Index: 1, Name: "sliver", Error: "validation: acres must be greater than 0"},
	}

	table := parcelTable(out)
	if len(table) != 3 {
		t.Fatalf("rows = %d, want 3", len(table))
	}
	if got := strings.Join(table[1], "|"); got != "0|north|20.00|10.00|15067|$452016||" {
		t.Fatalf("row = %q", got)
	}
	if table[2][3] != "" || table[2][7] == "" {
		t.Fatalf("error row = %v", table[2])
	}
}

func TestCoordinateFlagsRequireBoth(t *testing.T) {
	cmd := solarCmd(&options{})
	if err := cmd.Flags().Set("lat", "31.9"); err != nil {
		t.Fatalf("set lat: %v", err)
	}
	if _, err := coordinateFlags(cmd, 31.9, 0); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}

	if err := cmd.Flags().Set("lon", "-97.6"); err != nil {
		t.Fatalf("set lon: %v", err)
	}
	c, err := coordinateFlags(cmd, 31.9, -97.6)
	if err != nil || c == nil || c.Lon != -97.6 {
		t.Fatalf("coordinate = %v, err = %v", c, err)
	}
}
