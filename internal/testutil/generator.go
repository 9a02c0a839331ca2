package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/types"
)

// ErrStubGeneration is the default failure returned by StubGenerator.
var ErrStubGeneration = errors.New("stub generation failed")

// StubResult is one scripted generator outcome.
type StubResult struct {
	Content *types.GeneratedContent
	Err     error
}

// StubGenerator replays scripted results in order and records every request.
// When Block is set each call waits on Release (or ctx) before answering,
// which lets tests observe the pending state of a turn.
type StubGenerator struct {
	mu       sync.Mutex
	results  []StubResult
	requests []llm.GenerateRequest

	Block   bool
	Release chan struct{}
	Started chan struct{}
}

// NewStubGenerator creates a generator that answers with results in order.
// Once the script is exhausted it fails with ErrStubGeneration.
func NewStubGenerator(results ...StubResult) *StubGenerator {
	return &StubGenerator{
		results: results,
		Release: make(chan struct{}),
		Started: make(chan struct{}, 16),
	}
}

// Succeed is shorthand for a successful StubResult.
func Succeed(content *types.GeneratedContent) StubResult {
	return StubResult{Content: content}
}

// Fail is shorthand for a failed StubResult.
func Fail(err error) StubResult {
	if err == nil {
		err = ErrStubGeneration
	}
	return StubResult{Err: err}
}

func (g *StubGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (*types.GeneratedContent, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	var res StubResult
	if len(g.results) > 0 {
		res = g.results[0]
		g.results = g.results[1:]
	} else {
		res = Fail(nil)
	}
	block := g.Block
	g.mu.Unlock()

	if block {
		select {
		case g.Started <- struct{}{}:
		default:
		}
		select {
		case <-g.Release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if res.Err != nil {
		return nil, res.Err
	}
	return res.Content.Clone(), nil
}

// Requests returns a copy of every request received so far.
func (g *StubGenerator) Requests() []llm.GenerateRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]llm.GenerateRequest(nil), g.requests...)
}

// Calls returns the number of Generate calls.
func (g *StubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}
