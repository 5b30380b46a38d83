package main

import (
	"os"
	"os/signal"

	"site-intel-service/internal/domain"
	"site-intel-service/internal/geo"
	"site-intel-service/internal/services"

	"github.com/spf13/cobra"
)

type parcelOutput struct {
	Index     int                 `json:"index"`
	Name      string              `json:"name"`
	Acres     float64             `json:"acres"`
	Territory string              `json:"territory"`
	Estimate  *domain.SolarResult `json:"estimate,omitempty"`
	Error     string              `json:"error,omitempty"`
}

func parcelsCmd(opts *options) *cobra.Command {
	var (
		path    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "parcels",
		Short: "Measure every parcel in a shapefile and estimate it as a solar farm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := opts.county()
			if err != nil {
				return err
			}
			parcels, err := geo.LoadParcels(path)
			if err != nil {
				return err
			}

			jobs := make([]services.SolarJob, 0, len(parcels))
			for _, p := range parcels {
				c := parcelCenter(p)
				jobs = append(jobs, services.SolarJob{
					Inputs:     domain.SolarInputs{Name: p.Name, Acres: p.Acres},
					Coordinate: &c,
				})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			outcomes, err := services.NewSolarEstimator(profile.Bounds).EstimateBatch(ctx, jobs, workers)
			if err != nil {
				return err
			}

			out := make([]parcelOutput, 0, len(parcels))
			for i, p := range parcels {
				po := parcelOutput{
					Index:     p.Index,
					Name:      p.Name,
					Acres:     p.Acres,
					Territory: profile.Territory(*jobs[i].Coordinate),
				}
				if err := outcomes[i].Err; err != nil {
					po.Error = err.Error()
				} else {
					r := outcomes[i].Result
					po.Estimate = &r
				}
				out = append(out, po)
			}
			return opts.printTable(out, parcelTable(out))
		},
	}

	cmd.Flags().StringVar(&path, "shp", "", "parcel shapefile (.shp)")
	cmd.Flags().IntVar(&workers, "workers", 5, "concurrent estimates")
	_ = cmd.MarkFlagRequired("shp")
	return cmd
}

// parcelCenter is the bounding-box centre of the parcel's first ring.
func parcelCenter(p geo.Parcel) domain.Coordinate {
	center := geo.PolygonToRing(p.Rings[0]).Bound().Center()
	return domain.Coordinate{Lat: center.Lat(), Lon: center.Lon()}
}
