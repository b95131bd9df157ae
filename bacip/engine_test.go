package bacip

import (
	"net"
	"testing"

	"github.com/matryer/is"

	"github.com/baclab/bacsync/bacnet"
)

func TestResultFromAPDUReadProperty(t *testing.T) {
	is := is.New(t)
	apdu := &APDU{
		DataType:    ComplexAck,
		ServiceType: ServiceConfirmedReadProperty,
		Payload:     &ReadProperty{Data: float32(20.5)},
	}
	res, ok := resultFromAPDU(apdu)
	is.True(ok)
	is.NoErr(res.Err)
	is.Equal(res.Value, float32(20.5))
}

func TestResultFromAPDUReadPropertyMultiple(t *testing.T) {
	is := is.New(t)
	results := []bacnet.ReadAccessResult{{
		Object: bacnet.ObjectID{Type: bacnet.AnalogInput, Instance: 1},
	}}
	apdu := &APDU{
		DataType:    ComplexAck,
		ServiceType: ServiceConfirmedReadPropMultiple,
		Payload:     &ReadPropertyMultipleACK{Results: results},
	}
	res, ok := resultFromAPDU(apdu)
	is.True(ok)
	is.Equal(res.Value, results)
}

func TestResultFromAPDUError(t *testing.T) {
	is := is.New(t)
	apdu := &APDU{
		DataType: Error,
		Payload: &ApduError{
			Class: bacnet.ErrorClassObject,
			Code:  bacnet.ErrorCodeUnknownObject,
		},
	}
	res, ok := resultFromAPDU(apdu)
	is.True(ok)
	apduErr, isApdu := res.Err.(ApduError)
	is.True(isApdu)
	is.Equal(apduErr.Code, bacnet.ErrorCodeUnknownObject)
}

func TestResultFromAPDUAbort(t *testing.T) {
	is := is.New(t)
	//abort for segmentation maps to the dedicated outcome
	apdu := &APDU{
		DataType: Abort,
		Payload:  &AbortPayload{Reason: AbortSegmentationNotSupported},
	}
	res, ok := resultFromAPDU(apdu)
	is.True(ok)
	is.True(res.SegmentationNotSupported)
	is.NoErr(res.Err)

	//any other abort reason is an error
	apdu.Payload = &AbortPayload{Reason: AbortBufferOverflow}
	res, ok = resultFromAPDU(apdu)
	is.True(ok)
	is.True(res.Err != nil)

	//a reject with the same reason code is not a segmentation abort
	apdu = &APDU{
		DataType: Reject,
		Payload:  &AbortPayload{Reason: AbortSegmentationNotSupported, Rejected: true},
	}
	res, ok = resultFromAPDU(apdu)
	is.True(ok)
	is.True(res.Err != nil)
	is.Equal(res.SegmentationNotSupported, false)
}

func TestResultFromAPDUSegmented(t *testing.T) {
	is := is.New(t)
	apdu := &APDU{DataType: ComplexAck, Segmented: true, Payload: &DataPayload{}}
	res, ok := resultFromAPDU(apdu)
	is.True(ok)
	is.True(res.SegmentationNotSupported)
}

func TestResultFromAPDUIgnored(t *testing.T) {
	is := is.New(t)
	apdu := &APDU{DataType: UnconfirmedServiceRequest, Payload: &DataPayload{}}
	_, ok := resultFromAPDU(apdu)
	is.Equal(ok, false)
}

func TestBroadcastAddr(t *testing.T) {
	is := is.New(t)
	_, ipNet, err := net.ParseCIDR("192.168.1.10/24")
	is.NoErr(err)
	broadcast, err := broadcastAddr(ipNet)
	is.NoErr(err)
	is.Equal(broadcast.String(), "192.168.1.255")

	_, ipNet, err = net.ParseCIDR("10.0.0.1/8")
	is.NoErr(err)
	broadcast, err = broadcastAddr(ipNet)
	is.NoErr(err)
	is.Equal(broadcast.String(), "10.255.255.255")
}
