package events

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_SubscribePublish_TopicIsolation(t *testing.T) {
	b := NewBus[int]()
	var c1 int32

	cancel := b.Subscribe("t1", func(v int) {
		atomic.AddInt32(&c1, int32(v))
	})
	defer cancel()

	b.Publish("t1", 1)
	b.Publish("t1", 2)
	n := b.Publish("t2", 100) // no debe afectar

	assert.Equal(t, int32(3), atomic.LoadInt32(&c1))
	assert.Equal(t, 0, n)
}

func TestBus_MultipleHandlersKept(t *testing.T) {
	b := NewBus[string]()
	var got []string
	b.Subscribe("t", func(s string) { got = append(got, "a:"+s) })
	b.Subscribe("t", func(s string) { got = append(got, "b:"+s) })

	assert.Equal(t, 2, b.Publish("t", "x"))
	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestBus_Cancel_DetachesOnlyThatHandler(t *testing.T) {
	b := NewBus[int]()
	var first, second int32

	c1 := b.Subscribe("t", func(int) { atomic.AddInt32(&first, 1) })
	c2 := b.Subscribe("t", func(int) { atomic.AddInt32(&second, 1) })
	c1()
	c1() // idempotent

	b.Publish("t", 1)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first))
	assert.Equal(t, int32(1), atomic.LoadInt32(&second))

	c2()
	assert.Empty(t, b.Topics())
}

func TestBus_UnsubscribePrunesTopic(t *testing.T) {
	b := NewBus[int]()
	var hits int32
	b.Subscribe("t", func(int) { atomic.AddInt32(&hits, 1) })
	b.Subscribe("t", func(int) { atomic.AddInt32(&hits, 1) })
	b.Subscribe("other", func(int) {})

	assert.Equal(t, 2, b.Unsubscribe("t"))
	assert.Equal(t, 0, b.Publish("t", 1))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	assert.Equal(t, []string{"other"}, b.Topics())
	assert.Equal(t, 0, b.Unsubscribe("t"))
}

func TestBus_PanicIsolated(t *testing.T) {
	b := NewBus[int]()
	var reported string
	b.OnPanic = func(topic string, err error) { reported = topic + ": " + err.Error() }

	var ran bool
	b.Subscribe("t", func(int) { panic("boom") })
	b.Subscribe("t", func(int) { ran = true })

	b.Publish("t", 1)
	assert.True(t, ran)
	assert.Equal(t, "t: handler panic: boom", reported)
}

func TestBus_Concurrency_NoRaces(t *testing.T) {
	b := NewBus[int]()
	var hits int32

	cancel := b.Subscribe("t", func(int) {
		atomic.AddInt32(&hits, 1)
	})
	defer cancel()

	const G = 50
	const N = 100
	var wg sync.WaitGroup
	wg.Add(G)
	for g := 0; g < G; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < N; i++ {
				b.Publish("t", 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(G*N), atomic.LoadInt32(&hits))
}
