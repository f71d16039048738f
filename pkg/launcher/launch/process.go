package launch

import (
	"bufio"
	"io"
)

// start wires the merged output stream into the ring buffer and log
// sink, then starts the process. Stdout and stderr share one pipe so
// interleaved output keeps its order.
func (s *Session) start() error {
	pr, pw := io.Pipe()
	s.pw = pw
	s.cmd.Stdout = pw
	s.cmd.Stderr = pw
	s.scanDone = make(chan struct{})

	go s.scanOutput(pr)

	if err := s.cmd.Start(); err != nil {
		pw.Close()
		<-s.scanDone
		return err
	}
	return nil
}

// scanOutput forwards each output line to the ring buffer and sink
func (s *Session) scanOutput(r io.Reader) {
	defer close(s.scanDone)

	scanner := bufio.NewScanner(r)
	// Stack traces and chat spam can exceed the default token size
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		s.ring.Append(line)
		s.sink.Line(line)
	}
}
