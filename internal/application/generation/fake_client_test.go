package generation

import (
	"context"
	"sync"
	"time"
)

// scriptedClient 按顺序返回预设结果，最后一个结果重复使用
type scriptedClient struct {
	mu       sync.Mutex
	results  []scriptedResult
	requests []*Request
}

type scriptedResult struct {
	out string
	err error
}

func newScriptedClient(results ...scriptedResult) *scriptedClient {
	return &scriptedClient{results: results}
}

func (c *scriptedClient) Generate(_ context.Context, req *Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := len(c.requests)
	c.requests = append(c.requests, req)
	if idx >= len(c.results) {
		idx = len(c.results) - 1
	}
	r := c.results[idx]
	return r.out, r.err
}

func (c *scriptedClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// recordingSleep 记录退避时长但不真正等待
type recordingSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleep) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return nil
}

func (s *recordingSleep) Waits() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}

func fastPolicy(sleep *recordingSleep) Policy {
	p := DefaultPolicy()
	p.Sleep = sleep.Sleep
	return p
}
