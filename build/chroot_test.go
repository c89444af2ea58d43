package build

import (
	"os"
	"testing"
)

func TestPassthroughAssignmentsOnlyIncludesKnownVars(t *testing.T) {
	os.Setenv("MAKEFLAGS", "-j4")
	os.Setenv("HOME", "/root/should-not-leak")
	defer os.Unsetenv("MAKEFLAGS")

	got := passthroughAssignments()
	if !hasAssignment(got, "MAKEFLAGS") {
		t.Fatalf("expected MAKEFLAGS to pass through, got %v", got)
	}
	if hasAssignment(got, "HOME") {
		t.Fatalf("HOME must never leak into the chroot environment: %v", got)
	}
}
