package build

import (
	"context"
	"os"
	"strings"

	"github.com/Toxikuu/to/internal/shellexec"
)

// passthroughVars are the only host environment variables that leak
// into the chroot.
var passthroughVars = []string{
	"MAKEFLAGS", "CFLAGS", "CXXFLAGS", "FCFLAGS", "FFLAGS", "RUSTFLAGS", "TO_TEST",
}

// ChrootRun invokes "chroot merged/ env -i <flags> /runner", constructing
// env from scratch (env -i) and re-adding only passthroughVars from the
// host so no other host environment variable is visible inside.
func ChrootRun(ctx context.Context, o *Overlay) (string, error) {
	args := []string{o.Merged, "env", "-i"}
	args = append(args, passthroughAssignments()...)
	args = append(args, "/runner")

	return shellexec.Run(ctx, "", os.Environ(), "chroot", args...)
}

func passthroughAssignments() []string {
	var out []string
	for _, name := range passthroughVars {
		if v, ok := os.LookupEnv(name); ok {
			out = append(out, name+"="+v)
		}
	}
	return out
}

// hasAssignment reports whether env already sets key (used by tests to
// assert only intended variables cross the boundary).
func hasAssignment(env []string, key string) bool {
	for _, kv := range env {
		if strings.HasPrefix(kv, key+"=") {
			return true
		}
	}
	return false
}
