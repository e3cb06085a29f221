package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/reactive/internal/errors"
)

// DirTarget writes files below a local directory.
type DirTarget struct {
	Dir string
}

// Put implements Target. Names may contain slashes; missing directories are
// created.
func (d DirTarget) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := filepath.Join(d.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", errors.New("E160").WithDetailf("create %s", filepath.Dir(p)).Wrap(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", errors.New("E160").WithDetailf("write %s", p).Wrap(err)
	}
	return p, nil
}
