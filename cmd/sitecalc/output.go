package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"site-intel-service/internal/domain"
	"site-intel-service/internal/export"
	"site-intel-service/internal/services"

	"golang.org/x/term"
)

var stdout io.Writer = os.Stdout

// textOutput reports whether results should be printed as aligned text.
// Pipes and redirects get JSON.
func (o *options) textOutput() bool {
	if o.jsonOut {
		return false
	}
	f, ok := stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// print writes v as JSON, or rows as a two-column table on a terminal.
func (o *options) print(v any, rows [][2]string) error {
	if !o.textOutput() {
		return export.WriteJSON(stdout, v)
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

// printTable writes v as JSON, or table (header first) on a terminal.
func (o *options) printTable(v any, table [][]string) error {
	if !o.textOutput() {
		return export.WriteJSON(stdout, v)
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, r := range table {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func solarRows(r domain.SolarResult) [][2]string {
	rows := [][2]string{
		{"Name", r.Name},
		{"Acres", fmtFloat(r.Acres, 2)},
		{"Capacity (MW)", fmtFloat(r.CapacityMW, 2)},
		{"Annual energy (MWh)", fmtFloat(r.AnnualEnergyMWh, 0)},
		{"Homes powered", strconv.Itoa(r.HomesPowered)},
		{"Capital cost", money(r.CapitalCost)},
		{"Annual O&M", money(r.AnnualOperatingCost)},
		{"Annual revenue", money(r.AnnualRevenue)},
		{"Revenue per acre", money(r.RevenuePerAcre)},
		{"Revenue per MW", money(r.RevenuePerMW)},
	}
	return append(rows, locationRows(r.Coordinate, r.InCounty)...)
}

func dataCenterRows(r domain.DataCenterResult) [][2]string {
	rows := [][2]string{
		{"Name", r.Name},
		{"Servers", strconv.Itoa(r.Servers)},
		{"PUE", fmtFloat(r.PUE, 2) + " (" + services.PUETier(r.PUE) + ")"},
		{"IT load (kW)", fmtFloat(r.ITLoadKW, 1)},
		{"Cooling load (kW)", fmtFloat(r.CoolingLoadKW, 1)},
		{"Overhead (kW)", fmtFloat(r.OverheadKW, 1)},
		{"Facility load (MW)", fmtFloat(r.TotalFacilityLoadMW, 3)},
		{"Annual energy (MWh)", fmtFloat(r.AnnualEnergyMWh, 0)},
		{"Annual energy cost", money(r.AnnualEnergyCost)},
		{"Capital cost", money(r.EstimatedCapitalCost)},
		{"Building (sq ft)", fmtFloat(r.BuildingAreaSqFt, 0)},
		{"Site (acres)", fmtFloat(r.TotalSiteAcres, 2)},
		{"Racks", strconv.Itoa(r.RacksRequired)},
		{"Parking spaces", strconv.Itoa(r.ParkingSpaces)},
	}
	return append(rows, locationRows(r.Coordinate, r.InCounty)...)
}

func locationRows(c *domain.Coordinate, inCounty *bool) [][2]string {
	if c == nil {
		return nil
	}
	rows := [][2]string{{"Location", fmtFloat(c.Lat, 5) + ", " + fmtFloat(c.Lon, 5)}}
	if inCounty != nil {
		rows = append(rows, [2]string{"In county", strconv.FormatBool(*inCounty)})
	}
	return rows
}

func parcelTable(out []parcelOutput) [][]string {
	table := [][]string{{"#", "NAME", "ACRES", "MW", "MWH/YR", "REVENUE/YR", "TERRITORY", "ERROR"}}
	for _, p := range out {
		row := []string{strconv.Itoa(p.Index), p.Name, fmtFloat(p.Acres, 2), "", "", "", p.Territory, p.Error}
		if e := p.Estimate; e != nil {
			row[3] = fmtFloat(e.CapacityMW, 2)
			row[4] = fmtFloat(e.AnnualEnergyMWh, 0)
			row[5] = money(e.AnnualRevenue)
		}
		table = append(table, row)
	}
	return table
}

func fmtFloat(f float64, prec int) string { return strconv.FormatFloat(f, 'f', prec, 64) }

func money(f float64) string { return "$" + fmtFloat(f, 0) }
