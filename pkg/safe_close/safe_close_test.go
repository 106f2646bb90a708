package safe_close

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeClose(t *testing.T) {
	sc := NewSafeClose()
	var stopped atomic.Int32

	for i := 0; i < 3; i++ {
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			stopped.Add(1)
		})
	}

	cause := errors.New("listener failed")
	sc.SendCloseSignal(cause)
	sc.SendCloseSignal(errors.New("ignored"))

	assert.Equal(t, cause, sc.WaitClosed())
	assert.Equal(t, int32(3), stopped.Load())
}
