package schedule

import (
	"fmt"
	"strings"

	"github.com/kilianp07/driverboard/core/model"
)

// Normalize converts raw upstream records into validated Blocks. The
// upstream sheet guarantees neither field casing nor value types, so
// lookup is case-insensitive and scalars are coerced to strings. Missing
// fields default to the empty string. Records whose trimmed driver is
// empty are dropped: the sheet emits blank separator rows routinely and
// they are not an error.
func Normalize(records []map[string]any) []model.Block {
	blocks := make([]model.Block, 0, len(records))
	for _, rec := range records {
		driver := strings.TrimSpace(Field(rec, "driver"))
		if driver == "" {
			continue
		}
		blocks = append(blocks, model.Block{
			Driver: driver,
			Start:  Field(rec, "start"),
			End:    Field(rec, "end"),
			Task:   Field(rec, "task"),
		})
	}
	return blocks
}

// Field extracts a scalar field from an untyped record by
// case-insensitive name. An exact-case key wins over a folded match.
// Absent or non-scalar values yield "".
func Field(rec map[string]any, name string) string {
	if v, ok := rec[name]; ok {
		return scalar(v)
	}
	for k, v := range rec {
		if strings.EqualFold(k, name) {
			return scalar(v)
		}
	}
	return ""
}

func scalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; the sheet sometimes exports
		// numeric cells for time columns.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case nil:
		return ""
	}
	return ""
}
