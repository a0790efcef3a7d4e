package messaging

import (
	"context"
	"maps"
	"strconv"
	"sync"
	"sync/atomic"
)

// Memory is an in-process bus. Each consumer group of a topic receives every
// message once; members of a group share its deliveries round robin.
type Memory struct {
	mu     sync.RWMutex
	groups map[string]map[string]*memoryGroup
	seq    atomic.Int64
	closed bool
}

type memoryGroup struct {
	next    atomic.Uint64
	mu      sync.RWMutex
	members []chan *message
}

func NewMemory() *Memory {
	return &Memory{groups: map[string]map[string]*memoryGroup{}}
}

func (m *Memory) Publish(ctx context.Context, topic string, msg OutgoingMessage) error {
	if topic == "" {
		return ErrTopicRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	delivered := &message{
		id:      strconv.FormatInt(m.seq.Add(1), 10),
		body:    msg.Body,
		headers: maps.Clone(msg.Headers),
	}

	for _, g := range m.groups[topic] {
		g.mu.RLock()
		if n := len(g.members); n > 0 {
			ch := g.members[int(g.next.Add(1)-1)%n]
			select {
			case ch <- delivered:
			case <-ctx.Done():
				g.mu.RUnlock()
				return ctx.Err()
			}
		}
		g.mu.RUnlock()
	}

	return nil
}

func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validate(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts)

	ch := make(chan *message, 64)
	g, err := m.join(topic, co.group, ch)
	if err != nil {
		return err
	}
	defer m.leave(g, ch)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-ch:
					_ = handleSafe(ctx, DriverMemory, handler, msg)
				}
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

func (m *Memory) join(topic, group string, ch chan *message) (*memoryGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	if m.groups[topic] == nil {
		m.groups[topic] = map[string]*memoryGroup{}
	}
	g := m.groups[topic][group]
	if g == nil {
		g = &memoryGroup{}
		m.groups[topic][group] = g
	}

	g.mu.Lock()
	g.members = append(g.members, ch)
	g.mu.Unlock()

	return g, nil
}

func (m *Memory) leave(g *memoryGroup, ch chan *message) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, c := range g.members {
		if c == ch {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
