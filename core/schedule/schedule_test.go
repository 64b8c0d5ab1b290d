package schedule

import (
	"reflect"
	"testing"

	"github.com/kilianp07/driverboard/core/model"
)

func TestNormalizeDropsBlankDrivers(t *testing.T) {
	records := []map[string]any{
		{"driver": "Velu (PD1781L)", "start": "09:00", "end": "10:45", "task": "Material Delivery"},
		{"driver": "", "start": "11:00", "task": "x"},
		{"driver": "   ", "start": "12:00"},
		{"driver": "Raja (YQ766M)"},
	}
	blocks := Normalize(records)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %#v", len(blocks), blocks)
	}
	if blocks[0].Driver != "Velu (PD1781L)" || blocks[0].Task != "Material Delivery" {
		t.Fatalf("unexpected first block %#v", blocks[0])
	}
	if blocks[1] != (model.Block{Driver: "Raja (YQ766M)"}) {
		t.Fatalf("missing fields should default to empty: %#v", blocks[1])
	}
}

func TestNormalizeFieldCasing(t *testing.T) {
	records := []map[string]any{
		{"Driver": " Velu ", "Start": "08:00", "END": "09:00", "Task": "Prep"},
	}
	blocks := Normalize(records)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	want := model.Block{Driver: "Velu", Start: "08:00", End: "09:00", Task: "Prep"}
	if blocks[0] != want {
		t.Fatalf("got %#v want %#v", blocks[0], want)
	}
}

func TestNormalizeScalarCoercion(t *testing.T) {
	records := []map[string]any{
		{"driver": "Velu", "start": nil, "task": float64(7)},
	}
	blocks := Normalize(records)
	if blocks[0].Start != "" || blocks[0].Task != "7" {
		t.Fatalf("unexpected coercion %#v", blocks[0])
	}
}

func TestGroupSortsByStart(t *testing.T) {
	blocks := []model.Block{
		{Driver: "Velu", Start: "09:00", Task: "Delivery"},
		{Driver: "Velu", Start: "08:00", Task: "Prep"},
		{Driver: "Raja", Start: "10:00", Task: "Pickup"},
	}
	sched := Group(blocks)
	if len(sched) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(sched))
	}
	velu := sched["Velu"]
	if velu[0].Start != "08:00" || velu[1].Start != "09:00" {
		t.Fatalf("blocks not sorted: %#v", velu)
	}
}

func TestGroupStability(t *testing.T) {
	blocks := []model.Block{
		{Driver: "Velu", Start: "09:00", Task: "A"},
		{Driver: "Velu", Start: "09:00", Task: "B"},
	}
	sched := Group(blocks)
	velu := sched["Velu"]
	if velu[0].Task != "A" || velu[1].Task != "B" {
		t.Fatalf("equal-start order not preserved: %#v", velu)
	}
}

func TestGroupMissingStartSortsFirst(t *testing.T) {
	blocks := []model.Block{
		{Driver: "Velu", Start: "07:00", Task: "Early"},
		{Driver: "Velu", Task: "No start"},
	}
	velu := Group(blocks)["Velu"]
	if velu[0].Task != "No start" {
		t.Fatalf("empty start should sort first: %#v", velu)
	}
}

func TestGroupCaseSensitiveKeys(t *testing.T) {
	blocks := []model.Block{
		{Driver: "Velu", Start: "08:00"},
		{Driver: "velu", Start: "09:00"},
	}
	sched := Group(blocks)
	if len(sched) != 2 {
		t.Fatalf("labels differing only in case must stay distinct: %#v", sched)
	}
}

func TestGroupIdempotent(t *testing.T) {
	blocks := []model.Block{
		{Driver: "Velu", Start: "09:00", Task: "Delivery"},
		{Driver: "Velu", Start: "08:00", Task: "Prep"},
		{Driver: "Raja", Start: "09:00", Task: "Pickup"},
	}
	once := Group(blocks)
	twice := Group(Flatten(once))
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("regrouping changed the result:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}

func TestGroupEndToEnd(t *testing.T) {
	records := []map[string]any{
		{"driver": "Velu (PD1781L)", "start": "09:00", "end": "10:45", "task": "Material Delivery"},
		{"driver": "", "start": "11:00", "task": "x"},
		{"driver": "Velu (PD1781L)", "start": "08:00", "end": "09:00", "task": "Prep"},
	}
	sched := Group(Normalize(records))
	if len(sched) != 1 {
		t.Fatalf("expected exactly one driver, got %d", len(sched))
	}
	velu := sched["Velu (PD1781L)"]
	if len(velu) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(velu))
	}
	if velu[0].Task != "Prep" || velu[1].Task != "Material Delivery" {
		t.Fatalf("unexpected order: %#v", velu)
	}
}
