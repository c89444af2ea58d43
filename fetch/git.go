package fetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Masterminds/vcs"
)

// gitStrategy implements Source.Kind == Git: clone (shallow, recursive) or
// update in place, then check out the target ref. Wraps
// Masterminds/vcs.NewGitRepo for repo identity and r.RunFromDir/r.Update
// for routine operations, but shells out to "git" directly (via
// exec.Command with GIT_TERMINAL_PROMPT=0) for the flags the library's
// own Get() doesn't expose: --depth and --recursive on the initial clone.
type gitStrategy struct{}

// Fetch checks out req.Ref (the owning package's version_string, treated
// as a tag or ref). A Source carries no separate recipe-provided
// override field today; req.Ref is the only target.
func (g gitStrategy) Fetch(ctx context.Context, req Request) error {
	local := filepath.Join(req.DestDir, req.Source.Dest)
	url := req.Source.URL

	r, err := vcs.NewGitRepo(url, local)
	if err != nil {
		return fmt.Errorf("fetch: git repo %s: %w", url, err)
	}

	if !r.CheckLocal() {
		if err := g.cloneShallow(ctx, url, local); err != nil {
			return err
		}
	} else if err := r.Update(); err != nil {
		return fmt.Errorf("fetch: git update %s: %w", local, err)
	}

	if req.Ref == "" {
		return nil // no tag/ref requested; leave whatever HEAD the clone/update left
	}
	if out, err := r.RunFromDir("git", "checkout", req.Ref); err != nil {
		return fmt.Errorf("fetch: git checkout %s in %s: %s: %w", req.Ref, local, out, err)
	}
	return nil
}

func (gitStrategy) cloneShallow(ctx context.Context, url, local string) error {
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return fmt.Errorf("fetch: mkdir %s: %w", filepath.Dir(local), err)
	}

	c := exec.CommandContext(ctx, "git", "clone", "--depth=1", "--recursive", url, local)
	c.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if out, err := c.CombinedOutput(); err != nil {
		return fmt.Errorf("fetch: git clone %s: %s: %w", url, out, err)
	}
	return nil
}
