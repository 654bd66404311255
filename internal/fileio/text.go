package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ExportText writes a rendered frame to path, one line per row with trailing
// blanks trimmed.
func ExportText(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteText(f, lines); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

func WriteText(w io.Writer, lines []string) error {
	if len(lines) == 0 {
		return ErrNothingToExport
	}
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
