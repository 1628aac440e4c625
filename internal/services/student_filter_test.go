package services

import (
	"reflect"
	"testing"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

func visibleNIS(c StudentCriteria) []string {
	var ids []string
	for _, s := range FilterStudents(models.SeedStudents(), c) {
		ids = append(ids, s.NIS)
	}
	return ids
}

func TestFilterStudents(t *testing.T) {
	tests := []struct {
		name     string
		criteria StudentCriteria
		want     []string
	}{
		{name: "no criteria", criteria: StudentCriteria{}, want: []string{"2024001", "2024002", "2024003", "2023001"}},
		{name: "query name case insensitive", criteria: StudentCriteria{Query: "SITI"}, want: []string{"2024002"}},
		{name: "query nis prefix", criteria: StudentCriteria{Query: "2023"}, want: []string{"2023001"}},
		{name: "query class", criteria: StudentCriteria{Query: "11a"}, want: []string{"2024003"}},
		{name: "class filter substring", criteria: StudentCriteria{ClassFilter: "10"}, want: []string{"2024001", "2024002"}},
		{name: "status enrollment badge", criteria: StudentCriteria{Status: "lulus"}, want: []string{"2023001"}},
		{name: "status payment badge", criteria: StudentCriteria{Status: "tunggakan"}, want: []string{"2024002"}},
		{name: "status paid", criteria: StudentCriteria{Status: "lunas"}, want: []string{"2024001", "2024003", "2023001"}},
		{name: "combined", criteria: StudentCriteria{Query: "a", ClassFilter: "1", Status: "aktif"}, want: []string{"2024001", "2024002", "2024003"}},
		{name: "status is exact", criteria: StudentCriteria{Status: "aktif"}, want: []string{"2024001", "2024002", "2024003"}},
		{name: "no match", criteria: StudentCriteria{Query: "zzz"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := visibleNIS(tt.criteria)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterStudents(%+v) = %v, want %v", tt.criteria, got, tt.want)
			}
		})
	}
}

func TestStudentCriteria_Apply(t *testing.T) {
	c := StudentCriteria{Query: "siti", ClassFilter: "10B", Status: "aktif"}

	got := c.Apply(CriteriaUpdate{ClassFilter: strPtr("")})
	want := StudentCriteria{Query: "siti", ClassFilter: "", Status: "aktif"}
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}

	if got := c.Apply(CriteriaUpdate{}); got != c {
		t.Errorf("empty update changed criteria: %+v", got)
	}
}
