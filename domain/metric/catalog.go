package metric

import (
	"switchback/domain/core"
	"switchback/domain/dataset"
)

// Column names of the switchback export
const (
	ColTreat              = "treat"
	ColCommute            = "commute"
	ColTripsPool          = "trips_pool"
	ColTripsExpress       = "trips_express"
	ColRiderCancellations = "rider_cancellations"
	ColDriverPayout       = "total_driver_payout"
	ColMatches            = "total_matches"
	ColDoubleMatches      = "total_double_matches"
)

// Metric keys
const (
	KeyTotalRides          core.MetricKey = "total_rides"
	KeyExpressShare        core.MetricKey = "express_share"
	KeyRevenue             core.MetricKey = "revenue"
	KeyProfitPerTrip       core.MetricKey = "profit_per_trip"
	KeyRiderCancellations  core.MetricKey = "rider_cancellations"
	KeyDriverPayoutPerTrip core.MetricKey = "driver_payout_per_trip"
	KeyMatchRate           core.MetricKey = "match_rate"
	KeyDoubleMatchRate     core.MetricKey = "double_match_rate"
)

// Fares are the average rider prices used for revenue
type Fares struct {
	Pool    float64 `json:"pool"`
	Express float64 `json:"express"`
}

// DefaultFares are $12.50 per POOL ride and $10 per Express ride
func DefaultFares() Fares {
	return Fares{Pool: 12.5, Express: 10}
}

func totalRides(row dataset.Row) (float64, error) {
	pool, err := row.Float(ColTripsPool)
	if err != nil {
		return 0, err
	}
	express, err := row.Float(ColTripsExpress)
	if err != nil {
		return 0, err
	}
	return pool + express, nil
}

// perTrip divides a column by total rides. A zero-trip window yields a
// non-finite value which the comparator rejects.
func perTrip(column string) DeriveFunc {
	return func(row dataset.Row) (float64, error) {
		num, err := row.Float(column)
		if err != nil {
			return 0, err
		}
		rides, err := totalRides(row)
		if err != nil {
			return 0, err
		}
		return num / rides, nil
	}
}

// TotalRides is POOL plus Express trips
func TotalRides() Metric {
	return Metric{
		Key:       KeyTotalRides,
		Label:     "Total Rides",
		Unit:      UnitCount,
		Precision: 2,
		Better:    HigherIsBetter,
		Requires:  []string{ColTripsPool, ColTripsExpress},
		Derive:    totalRides,
	}
}

// ExpressShare is Express trips over total rides
func ExpressShare() Metric {
	return Metric{
		Key:       KeyExpressShare,
		Label:     "Express Share (%)",
		Unit:      UnitFraction,
		Precision: 4,
		Better:    Neutral,
		Requires:  []string{ColTripsPool, ColTripsExpress},
		Derive:    perTrip(ColTripsExpress),
	}
}

// Revenue prices each trip type at its fare
func Revenue(f Fares) Metric {
	return Metric{
		Key:       KeyRevenue,
		Label:     "Revenue ($)",
		Unit:      UnitCurrency,
		Precision: 2,
		Better:    HigherIsBetter,
		Requires:  []string{ColTripsPool, ColTripsExpress},
		Derive: func(row dataset.Row) (float64, error) {
			return revenue(row, f)
		},
	}
}

func revenue(row dataset.Row, f Fares) (float64, error) {
	pool, err := row.Float(ColTripsPool)
	if err != nil {
		return 0, err
	}
	express, err := row.Float(ColTripsExpress)
	if err != nil {
		return 0, err
	}
	return pool*f.Pool + express*f.Express, nil
}

// ProfitPerTrip is revenue minus driver payout, per ride
func ProfitPerTrip(f Fares) Metric {
	return Metric{
		Key:       KeyProfitPerTrip,
		Label:     "Profit per Trip ($)",
		Unit:      UnitCurrency,
		Precision: 4,
		Better:    HigherIsBetter,
		Requires:  []string{ColTripsPool, ColTripsExpress, ColDriverPayout},
		Derive: func(row dataset.Row) (float64, error) {
			rev, err := revenue(row, f)
			if err != nil {
				return 0, err
			}
			payout, err := row.Float(ColDriverPayout)
			if err != nil {
				return 0, err
			}
			rides, err := totalRides(row)
			if err != nil {
				return 0, err
			}
			return (rev - payout) / rides, nil
		},
	}
}

// RiderCancellations reads the cancellation count
func RiderCancellations() Metric {
	return Column(KeyRiderCancellations, "Rider Cancellations", ColRiderCancellations, UnitCount, 2, LowerIsBetter)
}

// DriverPayoutPerTrip is total payout over total rides
func DriverPayoutPerTrip() Metric {
	return Metric{
		Key:       KeyDriverPayoutPerTrip,
		Label:     "Driver Payout per Trip ($)",
		Unit:      UnitCurrency,
		Precision: 4,
		Better:    LowerIsBetter,
		Requires:  []string{ColDriverPayout, ColTripsPool, ColTripsExpress},
		Derive:    perTrip(ColDriverPayout),
	}
}

// MatchRate is matched trips over total rides
func MatchRate() Metric {
	return Metric{
		Key:       KeyMatchRate,
		Label:     "Match Rate (%)",
		Unit:      UnitFraction,
		Precision: 4,
		Better:    HigherIsBetter,
		Requires:  []string{ColMatches, ColTripsPool, ColTripsExpress},
		Derive:    perTrip(ColMatches),
	}
}

// DoubleMatchRate is double-matched trips over total rides
func DoubleMatchRate() Metric {
	return Metric{
		Key:       KeyDoubleMatchRate,
		Label:     "Double Match Rate (%)",
		Unit:      UnitFraction,
		Precision: 4,
		Better:    HigherIsBetter,
		Requires:  []string{ColDoubleMatches, ColTripsPool, ColTripsExpress},
		Derive:    perTrip(ColDoubleMatches),
	}
}
