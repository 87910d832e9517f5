package releaseflow

import (
	"fmt"
	"io"
	"os"
)

// WriteOutputs writes the computed version and tag as key=value lines for
// CI pipelines to consume.
func WriteOutputs(w io.Writer, meta ReleaseMeta) error {
	if _, err := fmt.Fprintf(w, "version=%s\ntag=%s\n", meta.NewVersion, meta.Tag); err != nil {
		return fmt.Errorf("writing outputs: %w", err)
	}
	return nil
}

// AppendGitHubOutput appends the outputs to the file named by GITHUB_OUTPUT
// in GitHub Actions. An empty path is a no-op.
func AppendGitHubOutput(path string, meta ReleaseMeta) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if err := WriteOutputs(f, meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
