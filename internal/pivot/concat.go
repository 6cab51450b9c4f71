// internal/pivot/concat.go
package pivot

import (
	"bufio"
	"errors"
	"io"

	"github.com/shenwei356/xopen"
)

// ConcatTables writes the tables at paths one after another, keeping only
// the first file's header line. Data lines are copied byte for byte.
func ConcatTables(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return ErrEmptyInput
	}
	bw := bufio.NewWriter(w)
	for i, p := range paths {
		if err := appendTable(bw, p, i == 0); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendTable(bw *bufio.Writer, path string, keepHeader bool) error {
	fh, err := xopen.Ropen(path)
	if errors.Is(err, xopen.ErrNoContent) {
		return nil
	}
	if err != nil {
		return err
	}
	defer fh.Close()

	first := true
	for {
		line, err := fh.ReadString('\n')
		if len(line) > 0 {
			if !first || keepHeader {
				if _, werr := bw.WriteString(line); werr != nil {
					return werr
				}
				if line[len(line)-1] != '\n' {
					if werr := bw.WriteByte('\n'); werr != nil {
						return werr
					}
				}
			}
			first = false
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
