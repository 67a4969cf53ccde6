package filter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
)

func TestParseTriageFilter(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	tests := []struct {
		name   string
		filter string
		want   SQLCondition
	}{
		{name: "blank", filter: "   ", want: SQLCondition{}},
		{
			name:   "status equals",
			filter: `status = "Resolved"`,
			want:   SQLCondition{Clause: "status = ?", Params: []any{"Resolved"}},
		},
		{
			name:   "complaint id",
			filter: `complaint_id = 42`,
			want:   SQLCondition{Clause: "complaint_id = ?", Params: []any{int64(42)}},
		},
		{
			name:   "not equals",
			filter: `session_id != "abc"`,
			want:   SQLCondition{Clause: "session_id != ?", Params: []any{"abc"}},
		},
		{
			name:   "timestamp",
			filter: `ts >= timestamp("2025-03-01T12:00:00Z")`,
			want:   SQLCondition{Clause: "ts >= ?", Params: []any{ts}},
		},
		{
			name:   "and or",
			filter: `status = "Pending" AND (complaint_id < 10 OR complaint_id > 20)`,
			want: SQLCondition{
				Clause: "(status = ? AND (complaint_id < ? OR complaint_id > ?))",
				Params: []any{"Pending", int64(10), int64(20)},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTriageFilter(tc.filter)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("condition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTriageFilterRejects(t *testing.T) {
	for _, filter := range []string{
		`unknown = "x"`,
		`status = `,
		`complaint_id = "abc"`,
		`ts > timestamp("yesterday")`,
	} {
		t.Run(filter, func(t *testing.T) {
			_, err := ParseTriageFilter(filter)
			if apperrors.CodeOf(err) != apperrors.CodeInvalidFilter {
				t.Fatalf("code = %q (%v)", apperrors.CodeOf(err), err)
			}
		})
	}
}

func TestSQLConditionEmpty(t *testing.T) {
	if !(SQLCondition{}).Empty() {
		t.Fatal("zero condition should be empty")
	}
	if (SQLCondition{Clause: "status = ?"}).Empty() {
		t.Fatal("clause should not be empty")
	}
}
