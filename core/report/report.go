package report

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/driverboard/core/model"
)

// DriverMinutes is the scheduled workload of one driver for the day.
type DriverMinutes struct {
	Driver  string  `json:"driver"`
	Blocks  int     `json:"blocks"`
	Minutes float64 `json:"minutes"`
}

// FleetStats aggregates the per-driver workloads.
type FleetStats struct {
	Drivers       int     `json:"drivers"`
	MeanMinutes   float64 `json:"meanMinutes"`
	StdDevMinutes float64 `json:"stdDevMinutes"`
	MinMinutes    float64 `json:"minMinutes"`
	MaxMinutes    float64 `json:"maxMinutes"`
}

// Utilization is the fleet workload summary for one day.
type Utilization struct {
	Drivers []DriverMinutes `json:"drivers"`
	Fleet   FleetStats      `json:"fleet"`
}

// Summarize computes per-driver scheduled minutes from a grouped day
// schedule. Blocks with unparsable or inverted windows contribute zero
// minutes but still count as blocks. Drivers are listed in ascending
// key order.
func Summarize(sched model.DriverSchedule) Utilization {
	drivers := make([]DriverMinutes, 0, len(sched))
	for driver, blocks := range sched {
		dm := DriverMinutes{Driver: driver, Blocks: len(blocks)}
		for _, b := range blocks {
			dm.Minutes += windowMinutes(b.Start, b.End)
		}
		drivers = append(drivers, dm)
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].Driver < drivers[j].Driver })

	u := Utilization{Drivers: drivers, Fleet: FleetStats{Drivers: len(drivers)}}
	if len(drivers) == 0 {
		return u
	}
	mins := make([]float64, len(drivers))
	for i, d := range drivers {
		mins[i] = d.Minutes
	}
	u.Fleet.MeanMinutes = stat.Mean(mins, nil)
	if len(mins) > 1 {
		u.Fleet.StdDevMinutes = stat.StdDev(mins, nil)
	}
	u.Fleet.MinMinutes = mins[0]
	u.Fleet.MaxMinutes = mins[0]
	for _, m := range mins[1:] {
		if m < u.Fleet.MinMinutes {
			u.Fleet.MinMinutes = m
		}
		if m > u.Fleet.MaxMinutes {
			u.Fleet.MaxMinutes = m
		}
	}
	return u
}

// windowMinutes returns the length of an "HH:MM" window in minutes. Zero
// for unparsable times and for windows whose end does not follow start.
func windowMinutes(start, end string) float64 {
	s, ok := parseHHMM(start)
	if !ok {
		return 0
	}
	e, ok := parseHHMM(end)
	if !ok || e <= s {
		return 0
	}
	return float64(e - s)
}

func parseHHMM(v string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
