//go:build !integration

package cluster

import (
	"errors"
	"reflect"
	"testing"

	"sisrekomact/domain"
)

func grade(student, category string, g float64) domain.GradeRecord {
	return domain.GradeRecord{StudentID: student, Category: category, Grade: g}
}

func TestAggregate_TwoStudentExample(t *testing.T) {
	table, err := Aggregate([]domain.GradeRecord{
		grade("A", "Programming", 4),
		grade("A", "Design", 2),
		grade("B", "Programming", 0),
		grade("B", "Design", 4),
	}, AggregateOptions{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if want := []string{"Design", "Programming"}; !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("columns = %v, want %v", table.Columns, want)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(table.Students, want) {
		t.Fatalf("students = %v, want %v", table.Students, want)
	}

	// columns are (Design, Programming): A=(0,1), B=(1,0)
	want := [][]float64{{0, 1}, {1, 0}}
	if !reflect.DeepEqual(table.Normalized, want) {
		t.Fatalf("normalized = %v, want %v", table.Normalized, want)
	}
}

func TestAggregate_MeanPerCategoryAndDedupe(t *testing.T) {
	table, err := Aggregate([]domain.GradeRecord{
		{StudentID: "A", CourseCode: "IF101", Category: "Programming", Grade: 4},
		{StudentID: "A", CourseCode: "IF101", Category: "Programming", Grade: 4}, // exact duplicate
		{StudentID: "A", CourseCode: "IF102", Category: "Programming", Grade: 2},
		{StudentID: "B", CourseCode: "IF101", Category: "Programming", Grade: 1},
	}, AggregateOptions{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if got := table.Vector(0)["Programming"]; got != 3 {
		t.Fatalf("mean for A = %v, want 3 (duplicate row must be dropped)", got)
	}
}

func TestAggregate_MissingCategoryIsZero(t *testing.T) {
	table, err := Aggregate([]domain.GradeRecord{
		grade("A", "Programming", 4),
		grade("B", "Design", 3),
	}, AggregateOptions{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if got := table.Vector(0)["Design"]; got != 0 {
		t.Fatalf("A never took Design, got %v want 0", got)
	}
	if got := table.Vector(1)["Programming"]; got != 0 {
		t.Fatalf("B never took Programming, got %v want 0", got)
	}
}

func TestAggregate_DropsExcludedCategory(t *testing.T) {
	table, err := Aggregate([]domain.GradeRecord{
		grade("A", "Programming", 4),
		grade("A", " Tugas Akhir ", 4),
		grade("B", "Programming", 2),
	}, AggregateOptions{ExcludedCategory: "Tugas Akhir"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if want := []string{"Programming"}; !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("columns = %v, want %v", table.Columns, want)
	}
}

func TestAggregate_CollapsesFormattingDuplicates(t *testing.T) {
	table, err := Aggregate([]domain.GradeRecord{
		grade("A", "Design", 4),
		grade("A", "Design ", 1),
		grade("B", "  Design", 2),
	}, AggregateOptions{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if want := []string{"Design"}; !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("columns = %v, want %v", table.Columns, want)
	}
	// "  Design" sorts first among the raw names, so its values win
	if got := table.Vector(1)["Design"]; got != 2 {
		t.Fatalf("B Design = %v, want 2", got)
	}
	if got := table.Vector(0)["Design"]; got != 0 {
		t.Fatalf("A Design = %v, want 0 from the first raw column", got)
	}
}

func TestAggregate_ConstantColumnNormalizesToZero(t *testing.T) {
	table, err := Aggregate([]domain.GradeRecord{
		grade("A", "Design", 3),
		grade("A", "Programming", 1),
		grade("B", "Design", 3),
		grade("B", "Programming", 4),
		grade("C", "Design", 3),
		grade("C", "Programming", 2),
	}, AggregateOptions{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	for i := range table.Students {
		if got := table.Normalized[i][0]; got != 0 {
			t.Fatalf("constant Design column: row %d = %v, want 0", i, got)
		}
	}
}

func TestAggregate_NormalizedValuesWithinUnitRange(t *testing.T) {
	var records []domain.GradeRecord
	categories := []string{"Programming", "Design", "Networking", "Math"}
	for s := 0; s < 25; s++ {
		for c, cat := range categories {
			records = append(records, grade(string(rune('A'+s)), cat, float64((s*7+c*3)%5)))
		}
	}

	table, err := Aggregate(records, AggregateOptions{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	for j := range table.Columns {
		seenZero, seenOne := false, false
		for i := range table.Students {
			v := table.Normalized[i][j]
			if v < 0 || v > 1 {
				t.Fatalf("value %v out of [0,1] at row %d col %d", v, i, j)
			}
			seenZero = seenZero || v == 0
			seenOne = seenOne || v == 1
		}
		if !seenZero || !seenOne {
			t.Fatalf("column %s should span the full range", table.Columns[j])
		}
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	table, err := Aggregate(nil, AggregateOptions{})
	if err != nil {
		t.Fatalf("empty input must not fail: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", table.Len())
	}
}

func TestAggregate_SchemaProjection(t *testing.T) {
	table, err := Aggregate([]domain.GradeRecord{
		grade("A", "Programming", 4),
		grade("B", "Programming", 2),
	}, AggregateOptions{Schema: []string{"Design", "Programming"}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if want := []string{"Design", "Programming"}; !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("columns = %v, want %v", table.Columns, want)
	}
	if table.Normalized[0][0] != 0 || table.Normalized[1][0] != 0 {
		t.Fatalf("absent schema column should be all zero: %v", table.Normalized)
	}
}

func TestAggregate_UnknownColumnIsInconsistentSchema(t *testing.T) {
	_, err := Aggregate([]domain.GradeRecord{
		grade("A", "Programming", 4),
		grade("A", "Robotics", 4),
	}, AggregateOptions{Schema: []string{"Design", "Programming"}})
	if !errors.Is(err, domain.ErrInconsistentSchema) {
		t.Fatalf("err = %v, want ErrInconsistentSchema", err)
	}
}
