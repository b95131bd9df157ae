package bacip

import (
	"encoding/hex"
	"testing"

	"github.com/matryer/is"

	"github.com/baclab/bacsync/bacnet"
)

func TestBVLCRequestMarshal(t *testing.T) {
	is := is.New(t)
	bvlc := BVLC{
		Type:     TypeBacnetIP,
		Function: BacFuncUnicast,
		NPDU: NPDU{
			Version:        Version1,
			ExpectingReply: true,
			Priority:       Normal,
			APDU: &APDU{
				DataType:    ConfirmedServiceRequest,
				ServiceType: ServiceConfirmedReadProperty,
				InvokeID:    1,
				Payload: &ReadProperty{
					ObjectID: bacnet.ObjectID{Type: bacnet.AnalogInput, Instance: 0},
					Property: bacnet.PropertyIdentifier{Type: bacnet.PresentValue},
				},
			},
		},
	}
	b, err := bvlc.MarshalBinary()
	is.NoErr(err)
	is.Equal(hex.EncodeToString(b), "810a001101040005010c0c000000001955")
}

func TestNPDURoutedDestinationMarshal(t *testing.T) {
	is := is.New(t)
	npdu := NPDU{
		Version:        Version1,
		ExpectingReply: true,
		Destination:    &bacnet.Address{Net: 2, Adr: []byte{5}},
		HopCount:       255,
		APDU: &APDU{
			DataType:    ConfirmedServiceRequest,
			ServiceType: ServiceConfirmedReadProperty,
			InvokeID:    1,
			Payload: &ReadProperty{
				ObjectID: bacnet.ObjectID{Type: bacnet.AnalogInput, Instance: 0},
				Property: bacnet.PropertyIdentifier{Type: bacnet.PresentValue},
			},
		},
	}
	b, err := npdu.MarshalBinary()
	is.NoErr(err)
	is.Equal(hex.EncodeToString(b), "012400020105ff0005010c0c000000001955")
}

func TestBVLCComplexAckUnmarshal(t *testing.T) {
	is := is.New(t)
	data, err := hex.DecodeString("810a0017010030010c0c0000000019553e4441a400003f")
	is.NoErr(err)
	var bvlc BVLC
	is.NoErr(bvlc.UnmarshalBinary(data))
	is.Equal(bvlc.Function, BacFuncUnicast)
	apdu := bvlc.NPDU.APDU
	is.True(apdu != nil)
	is.Equal(apdu.DataType, ComplexAck)
	is.Equal(apdu.InvokeID, byte(1))
	is.Equal(apdu.ServiceType, ServiceConfirmedReadProperty)
	rp, ok := apdu.Payload.(*ReadProperty)
	is.True(ok)
	is.Equal(rp.Data, float32(20.5))
}

func TestBVLCAbortUnmarshal(t *testing.T) {
	is := is.New(t)
	data, err := hex.DecodeString("810a00090100700104")
	is.NoErr(err)
	var bvlc BVLC
	is.NoErr(bvlc.UnmarshalBinary(data))
	apdu := bvlc.NPDU.APDU
	is.Equal(apdu.DataType, Abort)
	abort, ok := apdu.Payload.(*AbortPayload)
	is.True(ok)
	is.Equal(abort.Reason, AbortSegmentationNotSupported)
	is.Equal(abort.Rejected, false)
}

func TestBVLCErrorUnmarshal(t *testing.T) {
	is := is.New(t)
	data, err := hex.DecodeString("810a000d010050010c9101911f")
	is.NoErr(err)
	var bvlc BVLC
	is.NoErr(bvlc.UnmarshalBinary(data))
	apdu := bvlc.NPDU.APDU
	is.Equal(apdu.DataType, Error)
	apduErr, ok := apdu.Payload.(*ApduError)
	is.True(ok)
	is.Equal(apduErr.Class, bacnet.ErrorClassObject)
	is.Equal(apduErr.Code, bacnet.ErrorCodeUnknownObject)
}

func TestAPDUSegmentedUnmarshal(t *testing.T) {
	is := is.New(t)
	//ComplexAck with the segmented flag set: the payload is kept raw
	data, err := hex.DecodeString("3801000c0c00")
	is.NoErr(err)
	var apdu APDU
	is.NoErr(apdu.UnmarshalBinary(data))
	is.Equal(apdu.DataType, ComplexAck)
	is.True(apdu.Segmented)
	_, ok := apdu.Payload.(*DataPayload)
	is.True(ok)
}

func TestBVLCNotBacnetIP(t *testing.T) {
	is := is.New(t)
	var bvlc BVLC
	err := bvlc.UnmarshalBinary([]byte{0x42, 0x0a, 0x00, 0x04})
	is.Equal(err, ErrNotBacnetIP)
}

func TestBVLCIncoherentLength(t *testing.T) {
	is := is.New(t)
	var bvlc BVLC
	err := bvlc.UnmarshalBinary([]byte{0x81, 0x0a, 0x00, 0x20, 0x01, 0x00})
	is.True(err != nil)
}
