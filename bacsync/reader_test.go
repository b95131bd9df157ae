package bacsync

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baclab/bacsync/bacnet"
)

//fakeEngine records submissions and lets tests script the delivery of
//results on an unbuffered channel, like the real engine
type fakeEngine struct {
	mu        sync.Mutex
	started   bool
	submitErr error
	reads     []bacnet.ReadRequest
	multis    []bacnet.ReadMultipleRequest
	results   chan bacnet.Result
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{started: true, results: make(chan bacnet.Result)}
}

func (f *fakeEngine) Started() bool { return f.started }

func (f *fakeEngine) SubmitRead(req bacnet.ReadRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, req)
	return f.submitErr
}

func (f *fakeEngine) SubmitReadMultiple(req bacnet.ReadMultipleRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.multis = append(f.multis, req)
	return f.submitErr
}

func (f *fakeEngine) Results() <-chan bacnet.Result { return f.results }

func (f *fakeEngine) deliver(res bacnet.Result) {
	f.results <- res
}

func TestReadNotStarted(t *testing.T) {
	engine := newFakeEngine()
	engine.started = false
	reader := NewReader(engine)
	_, err := reader.Read("2:5 analogInput 1 presentValue")
	assert.ErrorIs(t, err, ErrNotStarted)
	//nothing was submitted
	assert.Empty(t, engine.reads)
}

func TestReadValue(t *testing.T) {
	engine := newFakeEngine()
	reader := NewReader(engine)
	go engine.deliver(bacnet.Result{Value: float32(20.5)})

	value, err := reader.Read("2:5 analogInput 1 presentValue")
	require.NoError(t, err)
	assert.Equal(t, float32(20.5), value)

	require.Len(t, engine.reads, 1)
	req := engine.reads[0]
	assert.Equal(t, uint16(2), req.Destination.Net)
	assert.Equal(t, bacnet.AnalogInput, req.Object.Type)
	assert.Equal(t, bacnet.PresentValue, req.Property.Type)
}

func TestReadValidationError(t *testing.T) {
	engine := newFakeEngine()
	reader := NewReader(engine)
	_, err := reader.Read("2:5 analogBogus 1 presentValue")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, UnknownObjectType, verr.Kind)
	assert.Empty(t, engine.reads)
}

func TestReadTimeout(t *testing.T) {
	engine := newFakeEngine()
	reader := NewReader(engine, WithTimeout(20*time.Millisecond))
	_, err := reader.Read("2:5 analogInput 1 presentValue")
	assert.ErrorIs(t, err, ErrNoResponseFromController)

	//the guard is released: a later read succeeds
	go engine.deliver(bacnet.Result{Value: float32(1)})
	value, err := reader.Read("2:5 analogInput 1 presentValue")
	require.NoError(t, err)
	assert.Equal(t, float32(1), value)
}

func TestReadSegmentationNotSupported(t *testing.T) {
	engine := newFakeEngine()
	reader := NewReader(engine)
	go engine.deliver(bacnet.Result{SegmentationNotSupported: true})
	_, err := reader.Read("2:5 device 100 objectList")
	assert.ErrorIs(t, err, ErrSegmentationNotSupported)
}

func TestReadDeviceError(t *testing.T) {
	engine := newFakeEngine()
	reader := NewReader(engine)
	deviceErr := errors.New("unknown object")
	go engine.deliver(bacnet.Result{Err: deviceErr})
	_, err := reader.Read("2:5 analogInput 9 presentValue")
	assert.ErrorIs(t, err, deviceErr)
}

func TestReadSubmitErrorStillWaits(t *testing.T) {
	//the response path stays authoritative even when the submission
	//reported a failure
	engine := newFakeEngine()
	engine.submitErr = errors.New("socket closed")
	reader := NewReader(engine)
	go engine.deliver(bacnet.Result{Value: float32(3)})
	value, err := reader.Read("2:5 analogInput 1 presentValue")
	require.NoError(t, err)
	assert.Equal(t, float32(3), value)
}

func TestReadArrayIndex(t *testing.T) {
	engine := newFakeEngine()
	reader := NewReader(engine)
	go engine.deliver(bacnet.Result{Value: uint32(12)})
	_, err := reader.Read("2:5 device 100 objectList", 0)
	require.NoError(t, err)
	require.Len(t, engine.reads, 1)
	require.NotNil(t, engine.reads[0].Property.ArrayIndex)
	assert.Equal(t, uint32(0), *engine.reads[0].Property.ArrayIndex)
}

func TestReadMultiple(t *testing.T) {
	engine := newFakeEngine()
	reader := NewReader(engine)
	want := []bacnet.ReadAccessResult{{
		Object: bacnet.ObjectID{Type: bacnet.AnalogInput, Instance: 1},
		Results: []bacnet.PropertyResult{
			{Property: bacnet.PropertyIdentifier{Type: bacnet.PresentValue}, Value: float32(20.5)},
			{Property: bacnet.PropertyIdentifier{Type: bacnet.Units}, Value: uint32(62)},
		},
	}}
	go engine.deliver(bacnet.Result{Value: want})

	value, err := reader.ReadMultiple("2:5 analogInput 1 presentValue units")
	require.NoError(t, err)
	assert.Equal(t, want, value)

	require.Len(t, engine.multis, 1)
	require.Len(t, engine.multis[0].Specs, 1)
	assert.Len(t, engine.multis[0].Specs[0].Properties, 2)
}

func TestReadMultipleNotStarted(t *testing.T) {
	engine := newFakeEngine()
	engine.started = false
	reader := NewReader(engine)
	_, err := reader.ReadMultiple("2:5 analogInput 1 presentValue")
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Empty(t, engine.multis)
}

func TestReadSerializesCallers(t *testing.T) {
	//concurrent callers queue on the guard, so each result goes to
	//exactly one waiter and every caller gets exactly one answer
	engine := newFakeEngine()
	reader := NewReader(engine)

	const callers = 4
	go func() {
		for i := 0; i < callers; i++ {
			engine.deliver(bacnet.Result{Value: float32(i)})
		}
	}()

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reader.Read("2:5 analogInput 1 presentValue")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, engine.reads, callers)
}
