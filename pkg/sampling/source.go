package sampling

import (
	"bytes"
	"runtime"
	"strconv"
	"strings"

	"github.com/stackfold/stackfold/pkg/collections"
	"github.com/stackfold/stackfold/pkg/frame"
)

// StackSource is the Go analogue of spec's opaque "thread_handle": something
// the timer can ask for a current stack snapshot, which may report that the
// target no longer exists.
type StackSource interface {
	Stack() (frame.Stack, bool)
}

// CurrentGoroutineID returns the id of the calling goroutine, parsed out of
// the header line runtime.Stack prints ("goroutine 123 [running]:"). The
// standard library does not expose this directly; parsing its own debug
// output is the documented workaround used throughout the Go ecosystem.
func CurrentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGoroutineHeader(buf[:n])
}

func parseGoroutineHeader(line []byte) uint64 {
	const prefix = "goroutine "
	line = bytes.TrimPrefix(line, []byte(prefix))
	end := bytes.IndexByte(line, ' ')
	if end < 0 {
		return 0
	}
	id, _ := strconv.ParseUint(string(line[:end]), 10, 64)
	return id
}

// GoroutineSource snapshots a specific goroutine's stack by dumping all
// goroutines (runtime.Stack(buf, true)) and extracting the block belonging
// to the tracked id. It is the extractor's "raw opaque snapshot" input,
// captured at begin() time and re-read on every tick.
type GoroutineSource struct {
	id        uint64
	extractor frame.Extractor
}

// NewGoroutineSource creates a source tracking the given goroutine id.
func NewGoroutineSource(id uint64, extractor frame.Extractor) *GoroutineSource {
	return &GoroutineSource{id: id, extractor: extractor}
}

// Stack returns the root-to-leaf frames for the tracked goroutine, or
// ok=false if that goroutine can no longer be found (it has exited).
func (s *GoroutineSource) Stack() (frame.Stack, bool) {
	raw, ok := captureGoroutineFrames(s.id)
	if !ok {
		return nil, false
	}

	stack, err := s.extractor.Extract(raw)
	if err != nil {
		return nil, false
	}
	return stack, true
}

// dumpBufferSize is the pooled buffer's starting capacity; it is sized
// generously so the common case allocates once per process, not once per
// tick.
const dumpBufferSize = 1 << 20

// dumpPool recycles the byte buffer runtime.Stack writes a full goroutine
// dump into. Every field captureGoroutineFrames derives from the dump is
// copied out via string(block) before the buffer is returned to the pool,
// so reuse is safe.
var dumpPool = collections.NewSlicePool[byte](dumpBufferSize)

// dumpAllGoroutines dumps every goroutine's stack into a pooled buffer,
// growing and re-pooling it if the dump doesn't fit. The caller must return
// the buffer to dumpPool once it is done reading from it.
func dumpAllGoroutines() *[]byte {
	bufp := dumpPool.Get()
	buf := (*bufp)[:cap(*bufp)]
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			*bufp = buf[:n]
			return bufp
		}
		dumpPool.Put(bufp)
		buf = make([]byte, len(buf)*2)
		bufp = &buf
	}
}

// captureGoroutineFrames locates the goroutine block for id within a full
// dump and parses it into root-to-leaf frames.
func captureGoroutineFrames(id uint64) ([]frame.Frame, bool) {
	bufp := dumpAllGoroutines()
	defer dumpPool.Put(bufp)
	dump := *bufp

	blocks := bytes.Split(dump, []byte("\n\n"))
	header := []byte("goroutine " + strconv.FormatUint(id, 10) + " ")
	for _, block := range blocks {
		if !bytes.HasPrefix(block, header) {
			continue
		}
		return parseGoroutineBlock(block), true
	}
	return nil, false
}

// parseGoroutineBlock parses one goroutine's text block (as produced by
// runtime.Stack) into root-to-leaf frames. Each stack entry is two lines: a
// call line ("pkg.Func(args)") followed by a location line
// ("\t/path/file.go:42 +0x1a"). A "created by" line ends the stack proper.
func parseGoroutineBlock(block []byte) []frame.Frame {
	lines := strings.Split(string(block), "\n")
	if len(lines) > 0 {
		lines = lines[1:] // drop the "goroutine N [state]:" header
	}

	var innermostFirst []frame.Frame
	for i := 0; i+1 < len(lines); i += 2 {
		callLine := lines[i]
		if callLine == "" || strings.HasPrefix(callLine, "created by") {
			break
		}
		locLine := strings.TrimSpace(lines[i+1])

		fn := callLine
		if idx := strings.IndexByte(fn, '('); idx >= 0 {
			fn = fn[:idx]
		}

		loc := locLine
		if idx := strings.Index(loc, " +0x"); idx >= 0 {
			loc = loc[:idx]
		}
		file, lineNo := splitFileLine(loc)

		innermostFirst = append(innermostFirst, frame.Frame{Function: fn, File: file, Line: lineNo})
	}

	// parseGoroutineBlock walks the dump innermost-first; flip to root-first.
	out := make([]frame.Frame, len(innermostFirst))
	for i, f := range innermostFirst {
		out[len(innermostFirst)-1-i] = f
	}
	return out
}

func splitFileLine(loc string) (string, uint32) {
	idx := strings.LastIndexByte(loc, ':')
	if idx < 0 {
		return loc, 0
	}
	line, err := strconv.ParseUint(loc[idx+1:], 10, 32)
	if err != nil {
		return loc[:idx], 0
	}
	return loc[:idx], uint32(line)
}
