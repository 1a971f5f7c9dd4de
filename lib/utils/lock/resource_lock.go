package lock

import (
	"context"
	"sync"
	"sync/atomic"
)

// lock для получения доступа к ИИ и использование ресурсов Cpu/Mem.
// В отличие от блокировки сессии, ожидает освобождения ресурса (или завершения контекста).

var Resource = newResourceLock()

func InitResourceLock(ctx context.Context) {
	Resource = newResourceLock()

	go func() {
		<-ctx.Done()
		Resource.Stop()
	}()
}

/*
В AI функциях
func AIFunction(ctx context.Context) {
	if !Resource.Acquire(ctx, "AIFunction") {
		return // Контекст завершен
	}
	defer Resource.Release("AIFunction")

	// Работа с ИИ...
}
*/

type ResourceLock struct {
	mu        sync.Mutex
	slot      chan struct{}
	holder    string
	waitCount int32
	stopCh    chan struct{}
	stopOnce  sync.Once
}

func newResourceLock() *ResourceLock {
	return &ResourceLock{
		slot:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}
}

// Acquire пытается захватить ресурс для указанной функции
// Возвращает true если ресурс получен, false если контекст завершился
func (c *ResourceLock) Acquire(ctx context.Context, functionName string) bool {
	atomic.AddInt32(&c.waitCount, 1)
	defer atomic.AddInt32(&c.waitCount, -1)

	select {
	case <-c.stopCh:
		return false
	case <-ctx.Done():
		return false
	case c.slot <- struct{}{}:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.holder = functionName
	return true
}

// Release освобождает ресурс
func (c *ResourceLock) Release(functionName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.holder == functionName {
		c.holder = ""
		<-c.slot
	}
}

// Stop останавливает все ожидающие горутины
func (c *ResourceLock) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// WaitCount возвращает количество ожидающих горутин
func (c *ResourceLock) WaitCount() int {
	return int(atomic.LoadInt32(&c.waitCount))
}

func (c *ResourceLock) Holder() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holder
}
