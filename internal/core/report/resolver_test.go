package report

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubFinder struct {
	found *Report
	err   error

	gotCode string
	gotDate time.Time
}

func (s *stubFinder) FindActiveByEmployeeAndDate(_ context.Context, code string, date time.Time) (*Report, error) {
	s.gotCode = code
	s.gotDate = date
	return s.found, s.err
}

func TestResolver_FindActiveCollision(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		finder    *stubFinder
		excludeID int64
		wantID    int64
		wantErr   bool
	}{
		{
			name:   "no active report",
			finder: &stubFinder{err: ErrReportNotFound},
		},
		{
			name:   "collision on create",
			finder: &stubFinder{found: &Report{ID: 7, EmployeeCode: "E1", ReportDate: date}},
			wantID: 7,
		},
		{
			name:      "self excluded on update",
			finder:    &stubFinder{found: &Report{ID: 7, EmployeeCode: "E1", ReportDate: date}},
			excludeID: 7,
		},
		{
			name:      "other report collides on update",
			finder:    &stubFinder{found: &Report{ID: 8, EmployeeCode: "E1", ReportDate: date}},
			excludeID: 7,
			wantID:    8,
		},
		{
			name:   "deleted report never collides",
			finder: &stubFinder{found: &Report{ID: 9, EmployeeCode: "E1", ReportDate: date, DeleteFlg: true}},
		},
		{
			name:    "store failure propagates",
			finder:  &stubFinder{err: errors.New("store unavailable")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := NewResolver(tt.finder)
			got, err := resolver.FindActiveCollision(context.Background(), "E1", date.Add(15*time.Hour), tt.excludeID)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if IsBusiness(err) {
					t.Fatalf("store failure must not become a business error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantID == 0 {
				if got != nil {
					t.Fatalf("expected no collision, got report %d", got.ID)
				}
			} else if got == nil || got.ID != tt.wantID {
				t.Fatalf("expected collision with %d, got %+v", tt.wantID, got)
			}

			if tt.finder.gotCode != "E1" {
				t.Fatalf("expected query for E1, got %s", tt.finder.gotCode)
			}
			if !tt.finder.gotDate.Equal(date) {
				t.Fatalf("expected normalized date %v, got %v", date, tt.finder.gotDate)
			}
		})
	}
}
