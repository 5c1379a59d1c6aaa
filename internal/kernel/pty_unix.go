//go:build unix

package kernel

import (
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// runPTY executes cmd under a pseudo-terminal, copying the merged output
// stream to w until the child exits. The copy ends with EIO on Linux
// when the child closes the slave side; that is the normal shutdown
// path, not a failure.
func runPTY(cmd *exec.Cmd, w io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = ptmx.Close() }()
	_, _ = io.Copy(w, ptmx)
	return cmd.Wait()
}
