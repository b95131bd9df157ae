//Package bacsync provides a synchronous read facade over an
//asynchronous bacnet engine. Callers hand in textual read
//specifications; the facade builds the protocol request, submits it
//and blocks until the matching response arrives or a bounded wait
//elapses
package bacsync

import (
	"sync"
	"time"

	"github.com/baclab/bacsync/bacnet"
	v2log "github.com/baetyl/baetyl-go/v2/log"
)

//DefaultTimeout bounds the wait for a response. Longer than any
//reasonable round trip, but a silent or dead device never hangs the
//caller indefinitely
const DefaultTimeout = 10 * time.Second

//Engine is the asynchronous side of the rendezvous. Submissions are
//fire-and-forget; results arrive later on the shared channel. The
//channel must be unbuffered so the producer observes consumption
type Engine interface {
	Started() bool
	SubmitRead(bacnet.ReadRequest) error
	SubmitReadMultiple(bacnet.ReadMultipleRequest) error
	Results() <-chan bacnet.Result
}

//Reader is the synchronous facade. The mutex admits a single
//in-flight exchange: responses are matched to requests purely by
//temporal ordering, which only holds while the sole waiter receives
//the sole next result. Concurrent callers therefore queue on the
//mutex rather than cross-talk on the channel
type Reader struct {
	engine  Engine
	reg     Registry
	resolve AddressResolver
	timeout time.Duration
	log     *v2log.Logger

	mu sync.Mutex
}

type Option func(*Reader)

//WithRegistry replaces the standard object/property tables
func WithRegistry(reg Registry) Option {
	return func(r *Reader) {
		r.reg = reg
	}
}

//WithResolver replaces the textual address resolver
func WithResolver(resolve AddressResolver) Option {
	return func(r *Reader) {
		r.resolve = resolve
	}
}

//WithTimeout replaces the response wait bound
func WithTimeout(d time.Duration) Option {
	return func(r *Reader) {
		r.timeout = d
	}
}

func NewReader(engine Engine, opts ...Option) *Reader {
	r := &Reader{
		engine:  engine,
		reg:     bacnet.StandardRegistry{},
		resolve: bacnet.ParseAddress,
		timeout: DefaultTimeout,
		log:     v2log.L().With(v2log.Any("module", "bacsync")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

//Read builds a single-property read request from a
//"<addr> <type> <inst> <prop> [ <indx> ]" specification, submits it
//and blocks until the value arrives.
//
//	value, err := reader.Read("2:5 analogInput 1 presentValue")
//
//reads the present value of analog input 1 of station 5 on network 2.
//An optional arrayIndex narrows an array property to one element; a
//fifth token in the specification takes precedence over it
func (r *Reader) Read(spec string, arrayIndex ...uint32) (interface{}, error) {
	if !r.engine.Started() {
		return nil, ErrNotStarted
	}
	var idx *uint32
	if len(arrayIndex) > 0 {
		idx = &arrayIndex[0]
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	req, err := buildReadRequest(r.reg, r.resolve, tokenize(spec), idx)
	if err != nil {
		return nil, err
	}
	if err := r.engine.SubmitRead(req); err != nil {
		//The response path is the authoritative source of the final
		//outcome: log and await it regardless
		r.log.Error("failed to submit read request", v2log.Error(err))
	}
	return r.await()
}

//ReadMultiple builds a multi-object read request from a
//"<addr> ( <type> <inst> ( <prop> [ <indx> ] )... )..." specification,
//submits it and blocks until the result list arrives.
//
//	value, err := reader.ReadMultiple("2:5 analogInput 1 presentValue units")
//
//asks station 5 on network 2 for the present value and the units of
//analog input 1 in a single exchange
func (r *Reader) ReadMultiple(spec string) (interface{}, error) {
	if !r.engine.Started() {
		return nil, ErrNotStarted
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	req, err := buildReadMultipleRequest(r.reg, r.resolve, tokenize(spec))
	if err != nil {
		return nil, err
	}
	if err := r.engine.SubmitReadMultiple(req); err != nil {
		r.log.Error("failed to submit readMultiple request", v2log.Error(err))
	}
	return r.await()
}

//await blocks on the result channel until the engine delivers the
//outcome of the in-flight exchange or the timeout elapses. Receiving
//from the unbuffered channel acknowledges consumption to the producer
func (r *Reader) await() (interface{}, error) {
	timer := time.NewTimer(r.timeout)
	defer timer.Stop()
	select {
	case res := <-r.engine.Results():
		if res.SegmentationNotSupported {
			return nil, ErrSegmentationNotSupported
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Value, nil
	case <-timer.C:
		return nil, ErrNoResponseFromController
	}
}
