// Package pipeline runs independent per-item work across goroutines.
package pipeline

import "sync"

// Task calls fn on every element of data, splitting data into one contiguous chunk per worker.
// fn must only touch its own element; callers publish results afterwards in slice order.
// A single worker runs inline without spawning goroutines.
func Task[T any](workersCount int, data []T, fn func(data T)) {
	workersCount = max(1, workersCount)
	if workersCount == 1 || len(data) < 2 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, end)
	}
	wg.Wait()
}
