package severity

import "testing"

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityError < SeverityWarning && SeverityWarning < SeverityInfo) {
		t.Error("severity constants should order Error < Warning < Info")
	}
}
