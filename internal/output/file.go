// internal/output/file.go
package output

import (
	"io"

	"github.com/shenwei356/xopen"
	"go.uber.org/multierr"
)

// WriteFile opens path (".gz" compresses, "-" is stdout), hands it to fn and
// closes it. Close errors are reported alongside fn's.
func WriteFile(path string, fn func(io.Writer) error) (err error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, w.Close()) }()
	return fn(w)
}
