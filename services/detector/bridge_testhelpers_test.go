package detector

import (
	"bufio"
	"io"
)

// newBridgeForTest builds a Bridge around an arbitrary stdin/stdout pair,
// bypassing exec.Command entirely, so the wire protocol can be exercised
// against an in-process fake instead of a real subprocess.
func newBridgeForTest(stdin io.WriteCloser, stdout io.Reader) *Bridge {
	b := &Bridge{
		stdin: stdin,
		out:   bufio.NewReader(stdout),
		reqCh: make(chan []byte, 1),
		done:  make(chan struct{}),
	}
	b.wg.Add(1)
	go b.worker()
	return b
}

// stopWorkerForTest halts the worker goroutine without touching cmd,
// which is nil for test-constructed bridges. Closing stdin unblocks a
// worker still stuck writing a request nobody reads.
func (b *Bridge) stopWorkerForTest() {
	close(b.done)
	_ = b.stdin.Close()
	b.wg.Wait()
}
