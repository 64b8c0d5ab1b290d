package schedule

import (
	"sort"

	"github.com/kilianp07/driverboard/core/model"
)

// Group partitions normalized blocks by driver label and sorts each
// partition ascending by start time. The sort is stable, so blocks
// sharing a start keep their insertion order, and a missing start sorts
// first as the empty string. Grouping an already grouped-and-sorted set
// again yields an identical result.
func Group(blocks []model.Block) model.DriverSchedule {
	byDriver := model.DriverSchedule{}
	for _, b := range blocks {
		byDriver[b.Driver] = append(byDriver[b.Driver], b)
	}
	for _, list := range byDriver {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Start < list[j].Start
		})
	}
	return byDriver
}

// Flatten returns the schedule's blocks driver by driver in ascending key
// order. It is the inverse of Group up to record order.
func Flatten(sched model.DriverSchedule) []model.Block {
	keys := make([]string, 0, len(sched))
	for k := range sched {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []model.Block
	for _, k := range keys {
		out = append(out, sched[k]...)
	}
	return out
}
