package model

import (
	"testing"
	"time"
)

func TestNewTimestampKeepsWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	ts := NewTimestamp(time.Date(2024, 3, 9, 23, 45, 10, 999, loc))
	if got := ts.String(); got != "2024-03-09 23:45:10" {
		t.Errorf("String() = %q, want %q", got, "2024-03-09 23:45:10")
	}
	if got := ts.Day().String(); got != "2024-03-09" {
		t.Errorf("Day() = %q, want %q", got, "2024-03-09")
	}
}

func TestTimestampScan(t *testing.T) {
	tests := []struct {
		input   any
		want    string
		wantErr bool
	}{
		{"2024-01-01 09:15:30", "2024-01-01 09:15:30", false},
		{[]byte("2024-01-01 10:00:00"), "2024-01-01 10:00:00", false},
		{time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), "2024-01-01 08:00:00", false},
		{"2024-01-01T09:15:30Z", "", true},
		{42, "", true},
	}
	for _, tt := range tests {
		var ts Timestamp
		err := ts.Scan(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Scan(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && ts.String() != tt.want {
			t.Errorf("Scan(%v) = %q, want %q", tt.input, ts.String(), tt.want)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if got := d.AddDays(30).String(); got != "2024-03-01" {
		t.Errorf("AddDays(30) = %q, want %q", got, "2024-03-01")
	}
	if !d.Before(d.AddDays(1)) || d.After(d.AddDays(1)) {
		t.Errorf("expected %s to be before the following day", d)
	}
	if !d.Equal(d.AddDays(0)) {
		t.Errorf("expected %s to equal itself", d)
	}
	v, err := d.Value()
	if err != nil || v != "2024-01-31" {
		t.Errorf("Value() = %v, %v; want 2024-01-31", v, err)
	}
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("")
	if err != nil || d != nil {
		t.Fatalf("ParseOptionalDate(\"\") = %v, %v; want nil, nil", d, err)
	}
	if _, err := ParseOptionalDate("01/02/2024"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestTodayUsesLocation(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+2", 2*3600)
	if got := Today(now, loc).String(); got != "2024-01-02" {
		t.Errorf("Today = %q, want %q", got, "2024-01-02")
	}
}

func TestTodoOverdue(t *testing.T) {
	today, _ := ParseDate("2024-05-10")
	due := today.AddDays(-1)
	todo := Todo{Status: TodoActive, DueDate: &due}
	if !todo.Overdue(today) {
		t.Errorf("expected active todo due yesterday to be overdue")
	}
	todo.Status = TodoFinished
	if todo.Overdue(today) {
		t.Errorf("finished todo must not be overdue")
	}
}
