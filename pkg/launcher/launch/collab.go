package launch

// LogSink receives every captured line of game output as it arrives
type LogSink interface {
	Line(text string)
}

// CrashReporter receives the exit code and trailing output of a run
// that ended with a nonzero code
type CrashReporter interface {
	ReportCrash(code int, tail []string)
}

// WindowController hides the host window while the game runs and
// restores it once the run reaches a terminal state
type WindowController interface {
	Hide()
	Restore()
}

type nopSink struct{}

func (nopSink) Line(string) {}

type nopCrash struct{}

func (nopCrash) ReportCrash(int, []string) {}

type nopWindow struct{}

func (nopWindow) Hide() {}

func (nopWindow) Restore() {}
