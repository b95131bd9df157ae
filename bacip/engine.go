//Package bacip implements an asynchronous Bacnet/IP engine: requests
//are submitted fire-and-forget and decoded responses are delivered on
//a result channel, on the engine's own schedule
package bacip

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/baclab/bacsync/bacnet"
)

type Logger interface {
	Info(...interface{})
	Error(...interface{})
}

type NoOpLogger struct{}

func (NoOpLogger) Info(...interface{})  {}
func (NoOpLogger) Error(...interface{}) {}

//Engine is a UDP Bacnet/IP endpoint. A started engine owns a listen
//goroutine that decodes inbound packets and publishes one
//bacnet.Result per completed exchange on Results(). The channel send
//is unbuffered: the engine knows a result has been consumed when the
//send returns, and only then reads the next packet outcome
type Engine struct {
	ipAddress        net.IP
	broadcastAddress net.IP
	udpPort          int
	udp              *net.UDPConn
	results          chan bacnet.Result
	done             chan struct{}
	Logger           Logger

	mu       sync.Mutex
	started  bool
	invokeID byte
}

func broadcastAddr(n *net.IPNet) (net.IP, error) {
	if n.IP.To4() == nil {
		return net.IP{}, errors.New("does not support IPv6 addresses")
	}
	ip := make(net.IP, len(n.IP.To4()))
	binary.BigEndian.PutUint32(ip, binary.BigEndian.Uint32(n.IP.To4())|^binary.BigEndian.Uint32(net.IP(n.Mask).To4()))
	return ip, nil
}

//NewEngine creates an engine bound on the given local IP and port. If
//port is 0, the default bacnet port is used. The engine does not
//listen until Start is called
func NewEngine(ip string, port int) (*Engine, error) {
	e := &Engine{
		results: make(chan bacnet.Result),
		done:    make(chan struct{}),
		Logger:  NoOpLogger{},
	}
	if port == 0 {
		port = bacnet.DefaultUDPPort
	}
	e.udpPort = port
	e.ipAddress = net.ParseIP(ip)
	if e.ipAddress == nil || e.ipAddress.To4() == nil {
		return nil, fmt.Errorf("invalid local IPv4 address %s", ip)
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	for _, ad := range addrs {
		if ipNet, ok := ad.(*net.IPNet); ok {
			if ipNet.Contains(e.ipAddress) {
				broadcast, err := broadcastAddr(ipNet)
				if err != nil {
					return nil, err
				}
				e.broadcastAddress = broadcast
				break
			}
		}
	}
	if e.broadcastAddress == nil {
		return nil, errors.New("broadcast address not found")
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{
		IP:   net.IPv4zero,
		Port: e.udpPort,
	})
	if err != nil {
		return nil, err
	}
	e.udp = conn
	return e, nil
}

//Start spawns the listen goroutine and marks the engine as started
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.listen()
}

//Started reports whether the engine accepts submissions
func (e *Engine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return nil
	}
	e.started = false
	close(e.done)
	return e.udp.Close()
}

//Results is the channel the engine delivers exchange outcomes on
func (e *Engine) Results() <-chan bacnet.Result {
	return e.results
}

//SubmitRead encodes and sends a readProperty request. The response,
//if any, arrives later on Results()
func (e *Engine) SubmitRead(req bacnet.ReadRequest) error {
	payload := &ReadProperty{
		ObjectID: req.Object,
		Property: req.Property,
	}
	return e.send(req.Destination, ServiceConfirmedReadProperty, payload)
}

//SubmitReadMultiple encodes and sends a readPropertyMultiple request
func (e *Engine) SubmitReadMultiple(req bacnet.ReadMultipleRequest) error {
	payload := &ReadPropertyMultiple{Specs: req.Specs}
	return e.send(req.Destination, ServiceConfirmedReadPropMultiple, payload)
}

func (e *Engine) nextInvokeID() byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invokeID++
	return e.invokeID
}

func (e *Engine) send(dest bacnet.Address, service ServiceType, payload Payload) error {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if !started {
		return errors.New("engine not started")
	}
	npdu := NPDU{
		Version:        Version1,
		ExpectingReply: true,
		Priority:       Normal,
		Destination:    &dest,
		Source: bacnet.AddressFromUDP(net.UDPAddr{
			IP:   e.ipAddress,
			Port: e.udpPort,
		}),
		HopCount: 255,
		APDU: &APDU{
			DataType:    ConfirmedServiceRequest,
			ServiceType: service,
			InvokeID:    e.nextInvokeID(),
			Payload:     payload,
		},
	}
	data, err := BVLC{
		Type:     TypeBacnetIP,
		Function: BacFuncUnicast,
		NPDU:     npdu,
	}.MarshalBinary()
	if err != nil {
		return err
	}
	//Routed destinations (net:station) have no IP MAC of their own:
	//the local router must pick the frame up from the segment broadcast
	if len(dest.Mac) < 6 {
		_, err = e.udp.WriteToUDP(data, &net.UDPAddr{
			IP:   e.broadcastAddress,
			Port: bacnet.DefaultUDPPort,
		})
		return err
	}
	addr := bacnet.UDPFromAddress(dest)
	_, err = e.udp.WriteToUDP(data, &addr)
	return err
}

// listen for incoming bacnet packets.
func (e *Engine) listen() {
	for {
		b := make([]byte, 2048)
		i, addr, err := e.udp.ReadFromUDP(b)
		if err != nil {
			select {
			case <-e.done:
				return
			default:
			}
			e.Logger.Error(err.Error())
			continue
		}
		go func() {
			defer func() {
				if r := recover(); r != nil {
					e.Logger.Error("panic in handle message: ", r)
				}
			}()
			err := e.handleMessage(addr, b[:i])
			if err != nil {
				e.Logger.Error("handle msg: ", err)
			}
		}()
	}
}

func (e *Engine) handleMessage(src *net.UDPAddr, b []byte) error {
	var bvlc BVLC
	err := bvlc.UnmarshalBinary(b)
	if err != nil {
		return err
	}
	apdu := bvlc.NPDU.APDU
	if apdu == nil {
		e.Logger.Info(fmt.Sprintf("received network packet %+v", bvlc.NPDU))
		return nil
	}
	res, ok := resultFromAPDU(apdu)
	if !ok {
		e.Logger.Info(fmt.Sprintf("ignoring apdu type 0x%x from %v", byte(apdu.DataType), src))
		return nil
	}
	select {
	case e.results <- res:
		return nil
	case <-e.done:
		return errors.New("engine closed while delivering result")
	}
}

//resultFromAPDU classifies an inbound APDU into the result envelope
//delivered to the waiting caller
func resultFromAPDU(apdu *APDU) (bacnet.Result, bool) {
	if apdu.Segmented {
		//This engine does not reassemble segmented responses
		return bacnet.Result{SegmentationNotSupported: true}, true
	}
	switch apdu.DataType {
	case ComplexAck:
		switch payload := apdu.Payload.(type) {
		case *ReadProperty:
			return bacnet.Result{Value: payload.Data}, true
		case *ReadPropertyMultipleACK:
			return bacnet.Result{Value: payload.Results}, true
		}
		return bacnet.Result{Err: fmt.Errorf("unexpected complex ack service %d", apdu.ServiceType)}, true
	case Error:
		apduErr, ok := apdu.Payload.(*ApduError)
		if !ok {
			return bacnet.Result{Err: errors.New("malformed error pdu")}, true
		}
		return bacnet.Result{Err: *apduErr}, true
	case Abort, Reject:
		abort, ok := apdu.Payload.(*AbortPayload)
		if !ok {
			return bacnet.Result{Err: errors.New("malformed abort pdu")}, true
		}
		if !abort.Rejected && abort.Reason == AbortSegmentationNotSupported {
			return bacnet.Result{SegmentationNotSupported: true}, true
		}
		return bacnet.Result{Err: fmt.Errorf("exchange aborted, reason %d", abort.Reason)}, true
	}
	return bacnet.Result{}, false
}
