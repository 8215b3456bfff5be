package ocr

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/model"
)

// ErrPoolClosed is returned by a Pool after Close.
var ErrPoolClosed = eris.New("ocr: pool closed")

// DefaultIdleTimeout is how long an unused engine stays loaded.
const DefaultIdleTimeout = 5 * time.Minute

// Recognizer is a loaded OCR engine instance.
type Recognizer interface {
	Recognize(data []byte) (string, error)
	Close() error
}

// Factory loads a Recognizer. It may be slow.
type Factory func() (Recognizer, error)

type acquireReply struct {
	rec Recognizer
	err error
}

type initResult struct {
	rec Recognizer
	err error
}

// Pool shares one lazily loaded Recognizer between concurrent callers.
//
// A single owner goroutine holds the engine handle. The first caller starts
// loading; callers arriving meanwhile queue behind that one load and all
// receive its result, including its error. Active users are counted, and the
// engine is closed once it has been unused for the idle timeout. Recognition
// calls are serialized.
type Pool struct {
	factory Factory
	idle    time.Duration

	acquireCh chan chan acquireReply
	releaseCh chan struct{}
	initCh    chan initResult
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// mu serializes Recognize on the shared engine.
	mu     sync.Mutex
	closed bool
}

// NewPool starts a Pool. idle <= 0 uses DefaultIdleTimeout.
func NewPool(factory Factory, idle time.Duration) *Pool {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	p := &Pool{
		factory:   factory,
		idle:      idle,
		acquireCh: make(chan chan acquireReply),
		releaseCh: make(chan struct{}),
		initCh:    make(chan initResult, 1),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Pool) run() {
	defer close(p.done)

	var (
		rec          Recognizer
		refs         int
		initializing bool
		waiters      []chan acquireReply
		idleTimer    *time.Timer
		idleC        <-chan time.Time
	)

	stopIdle := func() {
		if idleTimer != nil {
			idleTimer.Stop()
		}
		idleC = nil
	}
	startIdle := func() {
		stopIdle()
		idleTimer = time.NewTimer(p.idle)
		idleC = idleTimer.C
	}
	closeRec := func(reason string) {
		if rec == nil {
			return
		}
		if err := rec.Close(); err != nil {
			zap.L().Warn("ocr: close engine", zap.String("reason", reason), zap.Error(err))
		} else {
			zap.L().Debug("ocr: engine closed", zap.String("reason", reason))
		}
		rec = nil
	}

	for {
		select {
		case reply := <-p.acquireCh:
			switch {
			case rec != nil:
				refs++
				stopIdle()
				reply <- acquireReply{rec: rec}
			case initializing:
				waiters = append(waiters, reply)
			default:
				initializing = true
				waiters = append(waiters, reply)
				go func() {
					r, err := p.factory()
					p.initCh <- initResult{rec: r, err: err}
				}()
			}

		case res := <-p.initCh:
			initializing = false
			if res.err != nil {
				zap.L().Warn("ocr: engine init failed", zap.Int("waiters", len(waiters)), zap.Error(res.err))
				for _, w := range waiters {
					w <- acquireReply{err: eris.Wrap(res.err, "ocr: init engine")}
				}
				waiters = nil
				continue
			}
			rec = res.rec
			zap.L().Debug("ocr: engine loaded", zap.Int("waiters", len(waiters)))
			for _, w := range waiters {
				refs++
				w <- acquireReply{rec: rec}
			}
			waiters = nil
			if refs == 0 {
				startIdle()
			}

		case <-p.releaseCh:
			refs--
			if refs == 0 {
				startIdle()
			}

		case <-idleC:
			idleC = nil
			if refs == 0 {
				closeRec("idle")
			}

		case <-p.quit:
			stopIdle()
			if initializing {
				if res := <-p.initCh; res.rec != nil {
					_ = res.rec.Close()
				}
			}
			for _, w := range waiters {
				w <- acquireReply{err: ErrPoolClosed}
			}
			p.mu.Lock()
			p.closed = true
			closeRec("shutdown")
			p.mu.Unlock()
			return
		}
	}
}

// acquire returns the shared engine, loading it if needed. Every successful
// acquire must be paired with release.
func (p *Pool) acquire(ctx context.Context) (Recognizer, error) {
	reply := make(chan acquireReply, 1)
	select {
	case p.acquireCh <- reply:
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.rec, r.err
	case <-ctx.Done():
		// The owner still answers; give back whatever it hands out.
		go func() {
			if r := <-reply; r.err == nil {
				p.release()
			}
		}()
		return nil, ctx.Err()
	}
}

func (p *Pool) release() {
	select {
	case p.releaseCh <- struct{}{}:
	case <-p.done:
	}
}

// ExtractText recognizes the text of img with the shared engine.
func (p *Pool) ExtractText(ctx context.Context, img model.Image) (string, error) {
	if len(img.Data) == 0 {
		return "", model.ErrNoImage
	}

	rec, err := p.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer p.release()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", ErrPoolClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return rec.Recognize(img.Data)
}

// Close stops the owner goroutine and closes the engine. It waits for an
// in-flight load and any running recognition to finish. Calling Close more
// than once is safe.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() { close(p.quit) })
	<-p.done
	return nil
}
