//go:build !unix

package kernel

import (
	"io"
	"os/exec"
)

func runPTY(_ *exec.Cmd, _ io.Writer) error {
	return ErrPTYUnsupported
}
