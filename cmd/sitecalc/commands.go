package main

import (
	"fmt"
	"os"
	"strconv"

	"site-intel-service/internal/domain"
	"site-intel-service/internal/geo"
	"site-intel-service/internal/services"

	"github.com/spf13/cobra"
)

func solarCmd(opts *options) *cobra.Command {
	var (
		in       domain.SolarInputs
		lat, lon float64
	)

	cmd := &cobra.Command{
		Use:   "solar",
		Short: "Estimate a solar farm from parcel acreage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := opts.county()
			if err != nil {
				return err
			}
			at, err := coordinateFlags(cmd, lat, lon)
			if err != nil {
				return err
			}

			res, err := services.NewSolarEstimator(profile.Bounds).Estimate(in, at)
			if err != nil {
				return err
			}
			return opts.print(res, solarRows(res))
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "site name")
	cmd.Flags().Float64Var(&in.Acres, "acres", 0, "parcel size in acres")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	cmd.Flags().Float64Var(&lat, "lat", 0, "site latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "site longitude")
	_ = cmd.MarkFlagRequired("acres")
	return cmd
}

func dataCenterCmd(opts *options) *cobra.Command {
	var (
		in       domain.DataCenterInputs
		targetMW float64
		lat, lon float64
	)

	cmd := &cobra.Command{
		Use:   "datacenter",
		Short: "Estimate data center load, cost and footprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := opts.county()
			if err != nil {
				return err
			}
			at, err := coordinateFlags(cmd, lat, lon)
			if err != nil {
				return err
			}

			est := services.NewDataCenterEstimator(profile.Bounds)
			var res domain.DataCenterResult
			if cmd.Flags().Changed("target-mw") {
				res, err = est.EstimateFromCapacity(in.Name, targetMW, in.PUE, at)
			} else {
				res, err = est.Estimate(in, at)
			}
			if err != nil {
				return err
			}
			return opts.print(res, dataCenterRows(res))
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "facility name")
	cmd.Flags().IntVar(&in.Servers, "servers", 0, "number of servers")
	cmd.Flags().Float64Var(&in.WattsPerServer, "watts", services.DefaultWattsPerServer, "average draw per server in watts")
	cmd.Flags().Float64Var(&in.PUE, "pue", services.DefaultPUE, "power usage effectiveness")
	cmd.Flags().Float64Var(&targetMW, "target-mw", 0, "size from a target facility load instead of a server count")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	cmd.Flags().Float64Var(&lat, "lat", 0, "site latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "site longitude")
	return cmd
}

type areaOutput struct {
	Acres            float64 `json:"acres"`
	Vertices         int     `json:"vertices"`
	SelfIntersecting bool    `json:"selfIntersecting"`
}

func areaCmd(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "area",
		Short: "Measure a GeoJSON polygon in acres",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %q: %w", path, err)
			}
			poly, err := geo.PolygonFromGeoJSON(b)
			if err != nil {
				return err
			}
			acres, err := geo.PolygonAreaAcres(poly)
			if err != nil {
				return err
			}

			out := areaOutput{Acres: acres, Vertices: len(poly), SelfIntersecting: geo.SelfIntersects(poly)}
			return opts.print(out, [][2]string{
				{"Acres", fmtFloat(out.Acres, 2)},
				{"Vertices", strconv.Itoa(out.Vertices)},
				{"Self-intersecting", strconv.FormatBool(out.SelfIntersecting)},
			})
		},
	}

	cmd.Flags().StringVar(&path, "geojson", "", "GeoJSON file containing a Polygon")
	_ = cmd.MarkFlagRequired("geojson")
	return cmd
}

type distanceOutput struct {
	From  domain.Coordinate `json:"from"`
	To    domain.Coordinate `json:"to"`
	Miles float64           `json:"miles"`
}

func distanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "distance LAT1 LON1 LAT2 LON2",
		Short: "Great-circle distance between two points in miles",
		Args:  cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			vals := make([]float64, len(args))
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("argument %d: %q is not a number", i+1, a)
				}
				vals[i] = v
			}

			out := distanceOutput{
				From: domain.Coordinate{Lat: vals[0], Lon: vals[1]},
				To:   domain.Coordinate{Lat: vals[2], Lon: vals[3]},
			}
			if err := out.From.Validate(); err != nil {
				return err
			}
			if err := out.To.Validate(); err != nil {
				return err
			}
			out.Miles = geo.Distance(out.From, out.To)
			return opts.print(out, [][2]string{{"Miles", fmtFloat(out.Miles, 2)}})
		},
	}
}

// coordinateFlags returns the --lat/--lon point, or nil when neither is set.
func coordinateFlags(cmd *cobra.Command, lat, lon float64) (*domain.Coordinate, error) {
	latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
	if !latSet && !lonSet {
		return nil, nil
	}
	if latSet != lonSet {
		return nil, &domain.ValidationError{Field: "coordinate", Reason: "--lat and --lon must be given together"}
	}
	return &domain.Coordinate{Lat: lat, Lon: lon}, nil
}
