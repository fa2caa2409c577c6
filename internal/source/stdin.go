package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/daehyun-ko/feedsweep/internal/logger"
	"github.com/daehyun-ko/feedsweep/internal/parser"
)

// stdin protocol markers. A blank line closes the current batch; the more
// marker appends a load-more control to it. Invoking that control writes the
// continue marker to the output so a cooperating producer knows to emit the
// next page.
const (
	moreMarker     = "::more::"
	continueMarker = "::continue::"
)

// StdinSource reads serialized feed-node lines from a reader (pipe mode),
// parsing each into an entry via a NodeParser.
type StdinSource struct {
	in     io.Reader
	out    io.Writer
	parser *parser.NodeParser
	seq    atomic.Uint64
}

// NewStdinSource creates a source reading from stdin and acknowledging
// control invocations on stdout.
func NewStdinSource(p *parser.NodeParser) *StdinSource {
	return &StdinSource{in: os.Stdin, out: os.Stdout, parser: p}
}

// NewPipeSource creates a stdin-protocol source over arbitrary streams.
func NewPipeSource(in io.Reader, out io.Writer, p *parser.NodeParser) *StdinSource {
	return &StdinSource{in: in, out: out, parser: p}
}

// Name returns the source identifier.
func (s *StdinSource) Name() string { return "stdin" }

// Start reads batches from the input stream.
func (s *StdinSource) Start(ctx context.Context) (<-chan Batch, error) {
	ch := make(chan Batch, 16)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var nodes []Node
		batchSeq := 0

		flush := func() bool {
			if len(nodes) == 0 {
				return true
			}
			batchSeq++
			b := Batch{Seq: batchSeq, Nodes: nodes}
			nodes = nil
			select {
			case ch <- b:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line := strings.TrimRight(scanner.Text(), "\r")
			switch {
			case line == "":
				if !flush() {
					return
				}
			case line == moreMarker:
				nodes = append(nodes, &stdinControl{out: s.out})
			default:
				nodes = append(nodes, s.parser.Parse(line))
			}
		}

		if err := scanner.Err(); err != nil {
			logger.Warn("stdin feed read failed", "error", err)
		}
		flush()
	}()

	return ch, nil
}

// stdinControl acknowledges a continue request to the upstream producer.
// The producer decides whether another page actually follows.
type stdinControl struct {
	out  io.Writer
	used atomic.Bool
}

// Invoke writes the continue marker. Reports false once used.
func (c *stdinControl) Invoke() bool {
	if c.used.Swap(true) {
		return false
	}
	_, err := fmt.Fprintln(c.out, continueMarker)
	return err == nil
}
