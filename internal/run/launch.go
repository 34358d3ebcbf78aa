package run

import (
	"os"
	"os/exec"
)

// handle owns a spawned child process and the parent-side read ends of its
// output pipes. It exists from launch until confirmed termination and is
// released on every exit path.
type handle struct {
	cmd    *exec.Cmd
	stdout *os.File // read end of the child's stdout pipe
	stderr *os.File // read end of the child's stderr pipe
}

// launch spawns the child process described by spec with stdout and stderr
// connected to fresh pipes. The write ends are handed to the child and
// closed in the parent immediately after a successful start, so the read
// ends reach EOF exactly when the child's descriptors close, whether it
// exits on its own or is killed.
//
// Pipes are created manually instead of via cmd.StdoutPipe for two
// reasons: StdoutPipe's descriptors are closed by cmd.Wait, which races
// against concurrent drain reads, and passing non-file writers to os/exec
// makes it spawn its own copy goroutines instead of using the injected
// task runner.
//
// Any failure before the process exists is a *LaunchError; nothing needs
// to be cleaned up by the caller in that case.
func launch(spec Spec) (*handle, error) {
	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	configureSysProcAttr(cmd)

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, &LaunchError{Path: spec.Argv[0], Err: err}
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		_ = stdoutR.Close()
		_ = stdoutW.Close()
		return nil, &LaunchError{Path: spec.Argv[0], Err: err}
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if err := cmd.Start(); err != nil {
		_ = stdoutR.Close()
		_ = stdoutW.Close()
		_ = stderrR.Close()
		_ = stderrW.Close()
		return nil, &LaunchError{Path: spec.Argv[0], Err: err}
	}

	// The child holds its own copies of the write ends; close ours so EOF
	// on the read ends tracks child termination.
	_ = stdoutW.Close()
	_ = stderrW.Close()

	return &handle{cmd: cmd, stdout: stdoutR, stderr: stderrR}, nil
}

// closePipes releases the parent-side read ends. Idempotent. Closing while
// a drain is still blocked in a read is safe and makes that read fail,
// which is how the engine unblocks drains when the child cannot be
// confirmed dead.
func (h *handle) closePipes() {
	if h.stdout != nil {
		_ = h.stdout.Close()
		h.stdout = nil
	}
	if h.stderr != nil {
		_ = h.stderr.Close()
		h.stderr = nil
	}
}
