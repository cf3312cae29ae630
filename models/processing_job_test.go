package models

import "testing"

func TestJobFailureStatus(t *testing.T) {
	cases := []struct {
		attempts int
		want     ProcessingJobStatus
	}{
		{0, ProcessingJobStatusPending},
		{1, ProcessingJobStatusPending},
		{2, ProcessingJobStatusPending},
		{3, ProcessingJobStatusFailed},
		{4, ProcessingJobStatusFailed},
	}
	for _, tc := range cases {
		if got := jobFailureStatus(tc.attempts); got != tc.want {
			t.Errorf("jobFailureStatus(%d) = %s, want %s", tc.attempts, got, tc.want)
		}
	}
}
