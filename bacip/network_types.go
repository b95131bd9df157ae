package bacip

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/baclab/bacsync/bacnet"
)

type Version byte

const Version1 Version = 1

type NPDUPriority byte

const (
	LifeSafety        NPDUPriority = 3
	CriticalEquipment NPDUPriority = 2
	Urgent            NPDUPriority = 1
	Normal            NPDUPriority = 0
)

type NPDU struct {
	Version Version //Always one
	// These 3 fields are packed in the control byte
	IsNetworkLayerMessage bool //If true, there is no APDU
	ExpectingReply        bool
	Priority              NPDUPriority

	Destination *bacnet.Address
	Source      *bacnet.Address
	HopCount    byte
	//The two are only significant if IsNetworkLayerMessage is true
	NetworkMessageType byte
	VendorID           uint16

	APDU *APDU
}

func (npdu NPDU) MarshalBinary() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteByte(byte(npdu.Version))
	var control byte
	var hasSrc, hasDest, isNetworkMessage bool
	if npdu.IsNetworkLayerMessage {
		control += 1 << 7
		isNetworkMessage = true
	}
	if npdu.ExpectingReply {
		control += 1 << 2
	}
	if npdu.Priority > 3 {
		return nil, fmt.Errorf("invalid Priority %d", npdu.Priority)
	}
	control += byte(npdu.Priority)
	if npdu.Destination != nil && npdu.Destination.Net != 0 {
		control += 1 << 5
		hasDest = true
	}
	if npdu.Source != nil && npdu.Source.Net != 0 {
		control += 1 << 3
		hasSrc = true
	}
	b.WriteByte(control)
	if hasDest {
		_ = binary.Write(b, binary.BigEndian, npdu.Destination.Net)
		_ = binary.Write(b, binary.BigEndian, byte(len(npdu.Destination.Adr)))
		_ = binary.Write(b, binary.BigEndian, npdu.Destination.Adr)
	}
	if hasSrc {
		_ = binary.Write(b, binary.BigEndian, npdu.Source.Net)
		_ = binary.Write(b, binary.BigEndian, byte(len(npdu.Source.Adr)))
		_ = binary.Write(b, binary.BigEndian, npdu.Source.Adr)
	}
	if hasDest {
		b.WriteByte(npdu.HopCount)
	}
	if isNetworkMessage {
		b.WriteByte(npdu.NetworkMessageType)
		if npdu.NetworkMessageType >= 0x80 {
			_ = binary.Write(b, binary.BigEndian, npdu.VendorID)
		}
	}
	out := b.Bytes()
	if npdu.APDU != nil {
		apduBytes, err := npdu.APDU.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, apduBytes...)
	}
	return out, nil
}

func (npdu *NPDU) UnmarshalBinary(data []byte) error {
	buf := bytes.NewBuffer(data)
	err := binary.Read(buf, binary.BigEndian, &npdu.Version)
	if err != nil {
		return fmt.Errorf("read NPDU version: %w", err)
	}
	if npdu.Version != Version1 {
		return fmt.Errorf("invalid NPDU version %d", npdu.Version)
	}
	control, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("read NPDU control byte: %w", err)
	}
	if control&(1<<7) > 0 {
		npdu.IsNetworkLayerMessage = true
	}
	if control&(1<<2) > 0 {
		npdu.ExpectingReply = true
	}
	npdu.Priority = NPDUPriority(control & 0x3)

	if control&(1<<5) > 0 {
		npdu.Destination = &bacnet.Address{}
		if err := readAddress(buf, npdu.Destination); err != nil {
			return fmt.Errorf("read NPDU destination: %w", err)
		}
	}
	if control&(1<<3) > 0 {
		npdu.Source = &bacnet.Address{}
		if err := readAddress(buf, npdu.Source); err != nil {
			return fmt.Errorf("read NPDU source: %w", err)
		}
	}
	if npdu.Destination != nil {
		err := binary.Read(buf, binary.BigEndian, &npdu.HopCount)
		if err != nil {
			return fmt.Errorf("read NPDU HopCount: %w", err)
		}
	}
	if npdu.IsNetworkLayerMessage {
		err := binary.Read(buf, binary.BigEndian, &npdu.NetworkMessageType)
		if err != nil {
			return fmt.Errorf("read NPDU NetworkMessageType: %w", err)
		}
		if npdu.NetworkMessageType > 0x80 {
			err := binary.Read(buf, binary.BigEndian, &npdu.VendorID)
			if err != nil {
				return fmt.Errorf("read NPDU VendorID: %w", err)
			}
		}
		return nil
	}
	npdu.APDU = &APDU{}
	return npdu.APDU.UnmarshalBinary(buf.Bytes())
}

func readAddress(buf *bytes.Buffer, addr *bacnet.Address) error {
	if err := binary.Read(buf, binary.BigEndian, &addr.Net); err != nil {
		return fmt.Errorf("read Address.Net: %w", err)
	}
	var length byte
	if err := binary.Read(buf, binary.BigEndian, &length); err != nil {
		return fmt.Errorf("read Address.Len: %w", err)
	}
	addr.Adr = make([]byte, int(length))
	if err := binary.Read(buf, binary.BigEndian, &addr.Adr); err != nil {
		return fmt.Errorf("read Address.Adr: %w", err)
	}
	return nil
}

type PDUType byte

const (
	ConfirmedServiceRequest   PDUType = 0
	UnconfirmedServiceRequest PDUType = 0x10
	SimpleAck                 PDUType = 0x20
	ComplexAck                PDUType = 0x30
	SegmentAck                PDUType = 0x40
	Error                     PDUType = 0x50
	Reject                    PDUType = 0x60
	Abort                     PDUType = 0x70
)

//segmentedFlag is set in the type byte of a ComplexAck that is the
//first part of a segmented response
const segmentedFlag byte = 0x08

type ServiceType byte

const (
	ServiceConfirmedReadProperty     ServiceType = 12
	ServiceConfirmedReadPropMultiple ServiceType = 14
	ServiceConfirmedWriteProperty    ServiceType = 15
)

//AbortReason is the reason carried by an Abort PDU
type AbortReason byte

const (
	AbortOther                     AbortReason = 0
	AbortBufferOverflow            AbortReason = 1
	AbortInvalidApduInThisState    AbortReason = 2
	AbortPreemptedByHigherPriority AbortReason = 3
	AbortSegmentationNotSupported  AbortReason = 4
)

type APDU struct {
	DataType    PDUType
	ServiceType ServiceType
	Payload     Payload
	//Only meaningful for confirmed requests and acks
	InvokeID byte
	//Set when a ComplexAck announces a segmented response, which this
	//engine does not reassemble
	Segmented bool
}

func (apdu APDU) MarshalBinary() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteByte(byte(apdu.DataType))
	if apdu.DataType == ConfirmedServiceRequest {
		b.WriteByte(5) //Max APDU length (1476 bytes)
		b.WriteByte(apdu.InvokeID)
	}
	b.WriteByte(byte(apdu.ServiceType))
	payload, err := apdu.Payload.MarshalBinary()
	if err != nil {
		return nil, err
	}
	b.Write(payload)
	return b.Bytes(), nil
}

func (apdu *APDU) UnmarshalBinary(data []byte) error {
	buf := bytes.NewBuffer(data)
	typeByte, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("read APDU DataType: %w", err)
	}
	apdu.DataType = PDUType(typeByte & 0xF0)
	apdu.Segmented = apdu.DataType == ComplexAck && typeByte&segmentedFlag > 0
	switch apdu.DataType {
	case ComplexAck, SimpleAck, Error:
		apdu.InvokeID, err = buf.ReadByte()
		if err != nil {
			return fmt.Errorf("read APDU InvokeID: %w", err)
		}
	case Abort, Reject:
		//Abort and Reject carry an invoke ID and a reason byte, no
		//service choice
		apdu.InvokeID, err = buf.ReadByte()
		if err != nil {
			return fmt.Errorf("read APDU InvokeID: %w", err)
		}
		reason, err := buf.ReadByte()
		if err != nil {
			return fmt.Errorf("read APDU abort/reject reason: %w", err)
		}
		apdu.Payload = &AbortPayload{Reason: AbortReason(reason), Rejected: apdu.DataType == Reject}
		return nil
	}
	if err := binary.Read(buf, binary.BigEndian, &apdu.ServiceType); err != nil {
		return fmt.Errorf("read APDU ServiceType: %w", err)
	}
	switch {
	case apdu.DataType == ComplexAck && apdu.ServiceType == ServiceConfirmedReadProperty:
		apdu.Payload = &ReadProperty{}
	case apdu.DataType == ComplexAck && apdu.ServiceType == ServiceConfirmedReadPropMultiple:
		apdu.Payload = &ReadPropertyMultipleACK{}
	case apdu.DataType == Error:
		apdu.Payload = &ApduError{}
	default:
		// Just pass raw data, decoding is not handled for this shape
		apdu.Payload = &DataPayload{}
	}
	if apdu.Segmented {
		//Do not try to decode a partial payload
		apdu.Payload = &DataPayload{}
	}
	return apdu.Payload.UnmarshalBinary(buf.Bytes())
}

type Payload interface {
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

//AbortPayload is the reason of an Abort or Reject PDU
type AbortPayload struct {
	Reason   AbortReason
	Rejected bool
}

func (p AbortPayload) MarshalBinary() ([]byte, error) {
	return []byte{byte(p.Reason)}, nil
}

func (p *AbortPayload) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return errors.New("empty abort payload")
	}
	p.Reason = AbortReason(data[0])
	return nil
}

type DataPayload struct {
	Bytes []byte
}

func (p DataPayload) MarshalBinary() ([]byte, error) {
	return p.Bytes, nil
}

func (p *DataPayload) UnmarshalBinary(data []byte) error {
	p.Bytes = make([]byte, len(data))
	copy(p.Bytes, data)
	return nil
}

type BVLCType byte

const TypeBacnetIP BVLCType = 0x81

type Function byte

const (
	BacFuncResult        Function = 0
	BacFuncForwardedNPDU Function = 4
	BacFuncUnicast       Function = 10
	BacFuncBroadcast     Function = 11
)

type BVLC struct {
	Type     BVLCType
	Function Function
	NPDU     NPDU
}

func (bvlc BVLC) MarshalBinary() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteByte(byte(bvlc.Type))
	b.WriteByte(byte(bvlc.Function))
	data, err := bvlc.NPDU.MarshalBinary()
	if err != nil {
		return nil, err
	}
	length := uint16(4 + len(data)) //length includes Type, Function and itself
	_ = binary.Write(b, binary.BigEndian, length)
	b.Write(data)
	return b.Bytes(), nil
}

var ErrNotBacnetIP = errors.New("packet isn't a bacnet/IP payload")

func (bvlc *BVLC) UnmarshalBinary(data []byte) error {
	buf := bytes.NewBuffer(data)
	bvlcType, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("read bvlc type: %w", err)
	}
	bvlc.Type = BVLCType(bvlcType)
	if bvlc.Type != TypeBacnetIP {
		return ErrNotBacnetIP
	}
	bvlcFunc, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("read bvlc func: %w", err)
	}
	var length uint16
	err = binary.Read(buf, binary.BigEndian, &length)
	if err != nil {
		return fmt.Errorf("read bvlc length: %w", err)
	}
	remaining := buf.Bytes()

	bvlc.Function = Function(bvlcFunc)
	if len(remaining) != int(length)-4 {
		return fmt.Errorf("incoherent length field in BVLC: advertised payload size is %d, real size %d", length-4, len(remaining))
	}
	return bvlc.NPDU.UnmarshalBinary(remaining)
}
