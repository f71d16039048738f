package launch

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Session owns one spawned game process: its assembled command line,
// its captured output, and its exit. Wait is the only exit observer;
// Close force-terminates and drains when the caller abandons the run.
type Session struct {
	InstanceID string
	VersionID  string
	WorkDir    string
	Classpath  string
	Args       []string

	cmd      *exec.Cmd
	ctx      context.Context
	ring     *ringBuffer
	pw       *io.PipeWriter
	scanDone chan struct{}

	sink    LogSink
	crash   CrashReporter
	window  WindowController
	onState func(State)
	logger  hclog.Logger

	mu       sync.Mutex
	state    State
	exitCode int

	waitOnce sync.Once
	waitErr  error

	hid         bool
	restoreOnce sync.Once
}

// State returns the current pipeline or terminal state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ExitCode returns the process exit code once the session is terminal
func (s *Session) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode
}

// Tail returns the most recent captured output lines
func (s *Session) Tail() []string {
	return s.ring.Tail()
}

func (s *Session) setState(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	if s.onState != nil {
		s.onState(next)
	}
}

func (s *Session) setExitCode(code int) {
	s.mu.Lock()
	s.exitCode = code
	s.mu.Unlock()
}

func (s *Session) hideWindow() {
	s.hid = true
	s.window.Hide()
}

// restoreWindow undoes hideWindow at most once. A window that was
// never hidden is left alone.
func (s *Session) restoreWindow() {
	s.restoreOnce.Do(func() {
		if s.hid {
			s.window.Restore()
		}
	})
}

// waitProcess observes the exit exactly once and drains the scanner
func (s *Session) waitProcess() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
		s.pw.Close()
		<-s.scanDone
	})
	return s.waitErr
}

// Wait blocks until the process exits, performs the crash hand-off for
// nonzero codes, and restores the host window. A nonzero exit is a
// terminal state, not an error. Calling Wait again after a terminal
// state returns that state without repeating the hand-off.
func (s *Session) Wait() (State, error) {
	if st := s.State(); st.Terminal() {
		return st, nil
	}

	err := s.waitProcess()
	defer s.restoreWindow()

	if err == nil {
		s.setExitCode(0)
		s.logger.Info("✅ Process completed successfully")
		s.setState(StateExited)
		return StateExited, nil
	}

	if s.ctx.Err() != nil {
		// Killed through the launch context, not a game failure: no
		// crash hand-off.
		s.logger.Info("⏹️ Process terminated by cancellation")
		s.setExitCode(-1)
		s.setState(StateExited)
		return StateExited, s.ctx.Err()
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		s.setExitCode(-1)
		s.setState(StateCrashed)
		return StateCrashed, fmt.Errorf("process error: %w", err)
	}

	code := exitErr.ExitCode()
	s.setExitCode(code)
	s.logger.Info("⏹️ Process exited", "code", code)
	s.crash.ReportCrash(code, s.ring.Tail())
	s.setState(StateCrashed)
	return StateCrashed, nil
}

// Close force-terminates a still-running process and drains its
// output. A session abandoned this way ends Exited with code -1.
// Safe after Wait and safe to call twice.
func (s *Session) Close() error {
	if s.cmd != nil && s.cmd.Process != nil {
		// Returns ErrProcessDone after a normal exit; ignorable.
		_ = s.cmd.Process.Kill()
	}
	if s.cmd != nil {
		_ = s.waitProcess()
	}

	if !s.State().Terminal() {
		s.setExitCode(-1)
		s.setState(StateExited)
	}
	s.restoreWindow()
	return nil
}
