// Package detector bridges the capture loop to an optional external
// object-detection subprocess over a length-prefixed framing protocol
// (spec.md §4.9), the way the original detector.rs owns a background
// thread and an mpsc channel — here a buffered channel and a single
// worker goroutine play the same role, guaranteeing strict 1:1 FIFO
// pairing of requests and responses.
package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"imx415cam/logging"
	"imx415cam/models"
)

// ErrSpawnFailed is returned when the detector subprocess cannot be
// started or does not send the expected READY handshake.
var ErrSpawnFailed = errors.New("detector: spawn failed")

// ErrProtocol is returned when a request/response exchange with a live
// subprocess breaks framing — e.g. the child closed its pipes or sent
// malformed JSON.
var ErrProtocol = errors.New("detector: protocol error")

// Bridge owns one detector subprocess and its request queue. Submit is
// safe to call from the capture loop's own goroutine; it never blocks on
// the subprocess.
type Bridge struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *bufio.Reader

	reqCh chan []byte
	done  chan struct{}
	wg    sync.WaitGroup

	mu   sync.Mutex
	last models.DetectionResult
}

// Start spawns command with args, waits for its READY\n handshake on
// stdout, and launches the single worker goroutine that owns the
// subprocess pipes for the bridge's lifetime.
func Start(command string, args []string, queueDepth int) (*Bridge, error) {
	if queueDepth < 1 {
		queueDepth = 1
	}

	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %v", ErrSpawnFailed, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrSpawnFailed, err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	reader := bufio.NewReader(stdout)
	line, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "READY" {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("%w: expected READY handshake, got %q (%v)", ErrSpawnFailed, strings.TrimSpace(line), err)
	}

	b := &Bridge{
		cmd:   cmd,
		stdin: stdin,
		out:   reader,
		reqCh: make(chan []byte, queueDepth),
		done:  make(chan struct{}),
	}
	b.wg.Add(1)
	go b.worker()
	return b, nil
}

// Submit enqueues a JPEG frame for detection. If the queue is already
// full the frame is dropped silently — the bridge is a "best effort,
// latest interesting result" collaborator, not a guaranteed-delivery
// pipe (spec.md §4.9's "non-blocking submit").
func (b *Bridge) Submit(jpeg []byte) {
	select {
	case b.reqCh <- jpeg:
	default:
		logging.L().Debug("detector: queue full, dropping frame")
	}
}

// Latest returns the most recently decoded detection result. Its
// zero value (no detections, no error) is returned before the first
// response ever arrives.
func (b *Bridge) Latest() models.DetectionResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

func (b *Bridge) worker() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return
		case jpeg, ok := <-b.reqCh:
			if !ok {
				return
			}
			if err := b.exchange(jpeg); err != nil {
				logging.L().Warn("detector: %v", err)
				b.mu.Lock()
				b.last = models.DetectionResult{Error: err.Error()}
				b.mu.Unlock()
			}
		}
	}
}

func (b *Bridge) exchange(jpeg []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(jpeg)))
	if _, err := b.stdin.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("%w: write length prefix: %v", ErrProtocol, err)
	}
	if _, err := b.stdin.Write(jpeg); err != nil {
		return fmt.Errorf("%w: write payload: %v", ErrProtocol, err)
	}

	line, err := b.out.ReadString('\n')
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrProtocol, err)
	}

	var result models.DetectionResult
	if err := json.Unmarshal([]byte(line), &result); err != nil {
		return fmt.Errorf("%w: decode response json: %v", ErrProtocol, err)
	}

	b.mu.Lock()
	b.last = result
	b.mu.Unlock()
	return nil
}

// Close stops the worker goroutine, closes stdin (signaling the
// subprocess to exit if it's watching for EOF), and kills and waits for
// the subprocess.
func (b *Bridge) Close() error {
	close(b.done)
	_ = b.stdin.Close()
	_ = b.cmd.Process.Kill()
	b.wg.Wait()
	return b.cmd.Wait()
}
