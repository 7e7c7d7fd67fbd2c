package history

import "sync"

// Memory is an in-process Backend.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (mem *Memory) Get(key string) (value string, ok bool, err error) {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	value, ok = mem.data[key]
	return
}

func (mem *Memory) Set(key, value string) (err error) {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	mem.data[key] = value
	return
}

func (mem *Memory) Remove(key string) (err error) {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	delete(mem.data, key)
	return
}
