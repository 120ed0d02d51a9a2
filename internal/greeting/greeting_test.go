package greeting

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreet(t *testing.T) {
	require.Equal(t, "Hello World!", Greet())
}

func TestGreet_Repeated(t *testing.T) {
	for i := 0; i < 1000; i++ {
		if got := Greet(); got != "Hello World!" {
			t.Fatalf("call %d: got %q", i, got)
		}
	}
}

func TestGreet_Concurrent(t *testing.T) {
	const workers = 64

	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Greet()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, Message, r)
	}
}
