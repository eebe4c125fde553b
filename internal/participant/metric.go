package participant

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metric is an optional standings value. The zero Metric is absent.
type Metric struct {
	Value float64
	Valid bool
}

// Some returns a present Metric.
func Some(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// None returns an absent Metric.
func None() Metric {
	return Metric{}
}

// Finite reports whether the metric is present and holds a finite number.
func (m Metric) Finite() bool {
	return m.Valid && !math.IsNaN(m.Value) && !math.IsInf(m.Value, 0)
}

// SortKey returns the value used for ranking. Absent and non-finite values
// compare as negative infinity.
func (m Metric) SortKey() float64 {
	if !m.Finite() {
		return math.Inf(-1)
	}
	return m.Value
}

// String formats the metric for plain output; absent values render empty.
func (m Metric) String() string {
	if !m.Finite() {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON encodes absent and non-finite metrics as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Finite() {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as an absent metric.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}
