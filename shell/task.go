package shell

import (
	"bytes"
	"io"
	"os"
	"os/exec"

	"github.com/google/shlex"
	"github.com/veldtlabs/sbomstage/common"
)

type Task struct {
	environment []string
	directory   string
	executable  string
	args        []string
	stderronly  bool
}

func New(environment []string, directory string, task ...string) *Task {
	executable, args := task[0], task[1:]
	return &Task{
		environment: environment,
		directory:   directory,
		executable:  executable,
		args:        args,
	}
}

func (it *Task) StderrOnly() *Task {
	it.stderronly = true
	return it
}

func (it *Task) stderr() io.Writer {
	if it.stderronly {
		return os.Stderr
	}
	return NewLogWriter("stderr")
}

func (it *Task) execute(stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	common.Trace("Running %s with arguments: %q", it.executable, it.args)
	command := exec.Command(it.executable, it.args...)
	command.Env = it.environment
	command.Dir = it.directory
	command.Stdin = stdin
	command.Stdout = stdout
	command.Stderr = stderr
	err := command.Start()
	if err != nil {
		return -500, err
	}
	defer flush(stdout, stderr)
	err = command.Wait()
	exit, ok := err.(*exec.ExitError)
	if ok {
		return exit.ExitCode(), err
	}
	if err != nil {
		return -502, err
	}
	return 0, nil
}

// Execute runs the task passing output through to the process streams.
func (it *Task) Execute() (int, error) {
	return it.execute(os.Stdin, os.Stdout, os.Stderr)
}

// CaptureOutput runs the task, accumulating standard output in memory
// and forwarding standard error to the log, line by line.
func (it *Task) CaptureOutput() (string, int, error) {
	stdout := new(bytes.Buffer)
	code, err := it.execute(nil, stdout, it.stderr())
	return stdout.String(), code, err
}

func flush(writers ...io.Writer) {
	for _, writer := range writers {
		flusher, ok := writer.(interface{ Flush() })
		if ok {
			flusher.Flush()
		}
	}
}

// Split breaks a user supplied argument string into argv parts with
// shell quoting rules.
func Split(commandline string) ([]string, error) {
	return shlex.Split(commandline)
}

// logWriter forwards complete output lines to the common logger.
type logWriter struct {
	label  string
	buffer []byte
}

func NewLogWriter(label string) io.Writer {
	return &logWriter{
		label:  label,
		buffer: make([]byte, 0, 256),
	}
}

func (it *logWriter) Write(blob []byte) (int, error) {
	for _, octet := range blob {
		if octet == '\n' {
			it.Flush()
			continue
		}
		it.buffer = append(it.buffer, octet)
	}
	return len(blob), nil
}

func (it *logWriter) Flush() {
	if len(it.buffer) > 0 {
		common.Log("%s: %s", it.label, string(it.buffer))
		it.buffer = it.buffer[:0]
	}
}
