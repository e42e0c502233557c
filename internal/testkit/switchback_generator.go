package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"switchback/domain/dataset"
)

// SwitchbackHeader is the column layout of the ridesharing switchback export
var SwitchbackHeader = []string{
	"city_id", "period_start", "wait_time", "treat", "commute",
	"trips_pool", "trips_express", "rider_cancellations",
	"total_driver_payout", "total_matches", "total_double_matches",
}

// SwitchbackGeneratorConfig configures the switchback data generator
type SwitchbackGeneratorConfig struct {
	City          string    `json:"city"`
	StartDate     time.Time `json:"start_date"`
	Days          int       `json:"days"`
	WindowMinutes int       `json:"window_minutes"`
	BaseRides     float64   `json:"base_rides"`      // mean rides per window outside commuting hours
	CommuteLift   float64   `json:"commute_lift"`    // relative ride increase in commuting hours
	ExpressShare  float64   `json:"express_share"`   // share of rides on Express
	PayoutPerTrip float64   `json:"payout_per_trip"` // mean driver payout per trip
	MatchRate     float64   `json:"match_rate"`
	DoubleShare   float64   `json:"double_share"` // double matches as a share of matches
	CancelRate    float64   `json:"cancel_rate"`
	// Treatment shifts applied to 5-minute windows
	TreatMatchLift  float64 `json:"treat_match_lift"`
	TreatPayoutDrop float64 `json:"treat_payout_drop"`
	TreatCancelLift float64 `json:"treat_cancel_lift"`
	Seed            int64   `json:"seed"`
}

// DefaultSwitchbackConfig returns a config shaped like the Boston export
func DefaultSwitchbackConfig() SwitchbackGeneratorConfig {
	return SwitchbackGeneratorConfig{
		City:            "Boston",
		StartDate:       time.Date(2018, 2, 19, 7, 0, 0, 0, time.UTC),
		Days:            14,
		WindowMinutes:   160,
		BaseRides:       3500,
		CommuteLift:     0.3,
		ExpressShare:    0.62,
		PayoutPerTrip:   7.5,
		MatchRate:       0.65,
		DoubleShare:     0.35,
		CancelRate:      0.05,
		TreatMatchLift:  0.08,
		TreatPayoutDrop: 0.4,
		TreatCancelLift: 0.01,
		Seed:            42,
	}
}

// SwitchbackWindow is one generated observation
type SwitchbackWindow struct {
	City               string
	PeriodStart        time.Time
	Treat              bool
	Commute            bool
	TripsPool          int
	TripsExpress       int
	RiderCancellations int
	DriverPayout       float64
	Matches            int
	DoubleMatches      int
}

// SwitchbackGenerator generates switchback windows that alternate between
// the 2-minute control and the 5-minute treatment
type SwitchbackGenerator struct {
	config SwitchbackGeneratorConfig
	rng    *rand.Rand
}

// NewSwitchbackGenerator creates a new switchback data generator
func NewSwitchbackGenerator(config SwitchbackGeneratorConfig) *SwitchbackGenerator {
	return &SwitchbackGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces the windows in time order. Windows run from 07:00 until
// midnight each day; treatment flips every window.
func (g *SwitchbackGenerator) Generate() []SwitchbackWindow {
	step := time.Duration(g.config.WindowMinutes) * time.Minute
	if step <= 0 {
		step = 160 * time.Minute
	}

	var windows []SwitchbackWindow
	treat := false
	for day := 0; day < g.config.Days; day++ {
		dayStart := g.config.StartDate.AddDate(0, 0, day)
		dayEnd := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day()+1, 0, 0, 0, 0, dayStart.Location())
		for start := dayStart; start.Before(dayEnd); start = start.Add(step) {
			windows = append(windows, g.window(start, treat))
			treat = !treat
		}
	}
	return windows
}

func (g *SwitchbackGenerator) window(start time.Time, treat bool) SwitchbackWindow {
	c := g.config
	commute := isCommuteHour(start)

	mean := c.BaseRides
	if commute {
		mean *= 1 + c.CommuteLift
	}
	rides := g.positive(mean, mean*0.12)
	express := clampInt(int(math.Round(float64(rides)*g.jitter(c.ExpressShare, 0.04))), 0, rides)

	matchRate := c.MatchRate
	payout := c.PayoutPerTrip
	cancelRate := c.CancelRate
	if treat {
		matchRate += c.TreatMatchLift
		payout -= c.TreatPayoutDrop
		cancelRate += c.TreatCancelLift
	}

	matches := clampInt(int(math.Round(float64(rides)*g.jitter(matchRate, 0.03))), 0, rides)
	doubles := clampInt(int(math.Round(float64(matches)*g.jitter(c.DoubleShare, 0.04))), 0, matches)
	cancels := clampInt(int(math.Round(float64(rides)*g.jitter(cancelRate, 0.01))), 0, rides)
	totalPayout := math.Round(float64(rides)*g.jitter(payout, 0.3)*100) / 100

	return SwitchbackWindow{
		City:               c.City,
		PeriodStart:        start,
		Treat:              treat,
		Commute:            commute,
		TripsPool:          rides - express,
		TripsExpress:       express,
		RiderCancellations: cancels,
		DriverPayout:       totalPayout,
		Matches:            matches,
		DoubleMatches:      doubles,
	}
}

// isCommuteHour marks weekday morning and evening peaks
func isCommuteHour(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	h := t.Hour()
	return (h >= 7 && h < 10) || (h >= 16 && h < 19)
}

func (g *SwitchbackGenerator) positive(mean, sd float64) int {
	v := int(math.Round(mean + g.rng.NormFloat64()*sd))
	if v < 1 {
		return 1
	}
	return v
}

func (g *SwitchbackGenerator) jitter(mean, sd float64) float64 {
	v := mean + g.rng.NormFloat64()*sd
	if v < 0 {
		return 0
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Records renders windows the way the export does: TRUE/FALSE flags and a
// decimal comma in the payout column
func Records(windows []SwitchbackWindow) [][]string {
	records := make([][]string, len(windows))
	for i, w := range windows {
		waitTime := "2 mins"
		if w.Treat {
			waitTime = "5 mins"
		}
		payout := strings.Replace(strconv.FormatFloat(w.DriverPayout, 'f', 2, 64), ".", ",", 1)
		records[i] = []string{
			w.City,
			w.PeriodStart.Format("1/2/06 15:04"),
			waitTime,
			strings.ToUpper(strconv.FormatBool(w.Treat)),
			strings.ToUpper(strconv.FormatBool(w.Commute)),
			strconv.Itoa(w.TripsPool),
			strconv.Itoa(w.TripsExpress),
			strconv.Itoa(w.RiderCancellations),
			payout,
			strconv.Itoa(w.Matches),
			strconv.Itoa(w.DoubleMatches),
		}
	}
	return records
}

// WriteCSV writes a semicolon-delimited export with header
func WriteCSV(w io.Writer, windows []SwitchbackWindow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(SwitchbackHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(Records(windows)); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// Table builds an observation table straight from windows
func Table(windows []SwitchbackWindow) (*dataset.Table, error) {
	return dataset.NewTable(SwitchbackHeader, Records(windows))
}
