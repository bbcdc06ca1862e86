package cluster

import (
	"fmt"
	"sort"
	"strings"

	"sisrekomact/domain"
)

// FeatureTable is the pivoted cohort: one row per student, one column per
// course category, in lexicographic column order.
type FeatureTable struct {
	Students   []string
	Columns    []string
	Raw        [][]float64 // mean grade, 0 where the student never took the category
	Normalized [][]float64 // min-max scaled over the cohort
}

func (t *FeatureTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Students)
}

// Vector returns the pre-normalization feature vector of row i.
func (t *FeatureTable) Vector(i int) domain.FeatureVector {
	fv := make(domain.FeatureVector, len(t.Columns))
	for j, col := range t.Columns {
		fv[col] = t.Raw[i][j]
	}
	return fv
}

type AggregateOptions struct {
	// ExcludedCategory is dropped before normalization.
	ExcludedCategory string

	// Schema, when set, fixes the output columns (the model's columns).
	// Schema columns missing from the data become zero columns; data columns
	// outside the schema fail with domain.ErrInconsistentSchema.
	Schema []string
}

type groupKey struct {
	student  string
	category string
}

type groupAcc struct {
	sum   float64
	count int
}

// Aggregate turns raw grade rows into the normalized cohort table.
// An empty input yields an empty table and no error.
func Aggregate(records []domain.GradeRecord, opts AggregateOptions) (*FeatureTable, error) {
	if len(records) == 0 {
		return &FeatureTable{}, nil
	}

	records = dedupeRecords(records)

	// mean per (student, raw category)
	groups := make(map[groupKey]*groupAcc)
	studentSet := make(map[string]struct{})
	rawCategorySet := make(map[string]struct{})
	for _, r := range records {
		k := groupKey{student: r.StudentID, category: r.Category}
		acc, ok := groups[k]
		if !ok {
			acc = &groupAcc{}
			groups[k] = acc
		}
		acc.sum += r.Grade
		acc.count++
		studentSet[r.StudentID] = struct{}{}
		rawCategorySet[r.Category] = struct{}{}
	}

	students := sortedKeys(studentSet)
	rawCategories := sortedKeys(rawCategorySet)

	// Columns that only differ by whitespace collapse into the first raw
	// column (in raw order) carrying that name.
	owner := make(map[string]string, len(rawCategories))
	var columns []string
	for _, raw := range rawCategories {
		name := NormalizeColumnName(raw)
		if name == "" {
			continue
		}
		if _, taken := owner[name]; taken {
			continue
		}
		owner[name] = raw
		if name == NormalizeColumnName(opts.ExcludedCategory) {
			continue
		}
		columns = append(columns, name)
	}
	sort.Strings(columns)

	if len(opts.Schema) > 0 {
		var err error
		columns, err = projectColumns(columns, opts.Schema)
		if err != nil {
			return nil, err
		}
	}

	t := &FeatureTable{
		Students: students,
		Columns:  columns,
		Raw:      make([][]float64, len(students)),
	}

	for i, sid := range students {
		row := make([]float64, len(columns))
		for j, col := range columns {
			raw, ok := owner[col]
			if !ok {
				continue
			}
			if acc, ok := groups[groupKey{student: sid, category: raw}]; ok {
				row[j] = acc.sum / float64(acc.count)
			}
		}
		t.Raw[i] = row
	}

	t.Normalized = MinMaxNormalize(t.Raw)

	return t, nil
}

// NormalizeColumnName trims the category name and collapses inner runs of
// whitespace.
func NormalizeColumnName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// MinMax is the observed range of one column.
type MinMax struct {
	Min float64
	Max float64
}

func (m MinMax) IsSingleValue() bool {
	return m.Max == m.Min
}

// Scale maps v into [0,1]; a single-valued column maps to 0.
func (m MinMax) Scale(v float64) float64 {
	if m.IsSingleValue() {
		return 0
	}
	return (v - m.Min) / (m.Max - m.Min)
}

// ColumnRanges computes min and max of every column across all rows.
func ColumnRanges(rows [][]float64) []MinMax {
	if len(rows) == 0 {
		return nil
	}

	ranges := make([]MinMax, len(rows[0]))
	for j := range ranges {
		ranges[j] = MinMax{Min: rows[0][j], Max: rows[0][j]}
	}
	for _, row := range rows[1:] {
		for j, v := range row {
			if v < ranges[j].Min {
				ranges[j].Min = v
			}
			if v > ranges[j].Max {
				ranges[j].Max = v
			}
		}
	}
	return ranges
}

// MinMaxNormalize rescales every column with ranges taken from the same rows.
func MinMaxNormalize(rows [][]float64) [][]float64 {
	ranges := ColumnRanges(rows)

	out := make([][]float64, len(rows))
	for i, row := range rows {
		norm := make([]float64, len(row))
		for j, v := range row {
			norm[j] = ranges[j].Scale(v)
		}
		out[i] = norm
	}
	return out
}

func dedupeRecords(records []domain.GradeRecord) []domain.GradeRecord {
	seen := make(map[domain.GradeRecord]struct{}, len(records))
	out := make([]domain.GradeRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func projectColumns(columns, schema []string) ([]string, error) {
	allowed := make(map[string]struct{}, len(schema))
	for _, c := range schema {
		allowed[c] = struct{}{}
	}

	var unknown []string
	for _, c := range columns {
		if _, ok := allowed[c]; !ok {
			unknown = append(unknown, c)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: categories %q are not model features", domain.ErrInconsistentSchema, unknown)
	}

	out := make([]string, len(schema))
	copy(out, schema)
	return out, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
