package encoding

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/baclab/bacsync/bacnet"
)

//Encoder is the struct used to turn bacnet types to byte arrays. All
//public methods of encoder can set the internal error value. If such
//error is set, all encoding methods will be no-ops. This allows to
//defer error checking after several encoding operations
type Encoder struct {
	buf *bytes.Buffer
	err error
}

func NewEncoder() Encoder {
	return Encoder{
		buf: new(bytes.Buffer),
		err: nil,
	}
}

func (e *Encoder) Error() error {
	return e.err
}

func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

//ContextUnsigned writes a (context)tag / value pair where the value
//type is an unsigned int
func (e *Encoder) ContextUnsigned(tagNumber byte, value uint32) {
	if e.err != nil {
		return
	}
	t := tag{
		ID:      tagNumber,
		Context: true,
		Value:   uint32(valueLength(value)),
	}
	encodeTag(e.buf, t)
	unsigned(e.buf, value)
}

//ContextObjectID writes a (context)tag / value pair where the value
//is an object identifier
func (e *Encoder) ContextObjectID(tagNumber byte, objectID bacnet.ObjectID) {
	if e.err != nil {
		return
	}
	t := tag{
		ID:      tagNumber,
		Context: true,
		Value:   4, //length of objectID is 4
	}
	encodeTag(e.buf, t)
	v, err := objectID.Encode()
	if err != nil {
		e.err = err
		return
	}
	_ = binary.Write(e.buf, binary.BigEndian, v)
}

//ContextOpening writes the opening tag of a constructed element
func (e *Encoder) ContextOpening(tagNumber byte) {
	if e.err != nil {
		return
	}
	encodeTag(e.buf, tag{ID: tagNumber, Context: true, Opening: true})
}

//ContextClosing writes the closing tag of a constructed element
func (e *Encoder) ContextClosing(tagNumber byte) {
	if e.err != nil {
		return
	}
	encodeTag(e.buf, tag{ID: tagNumber, Context: true, Closing: true})
}

//AppData writes a tag and value of any standard bacnet application
//data type. Sets the encoder error if v is of an invalid type
func (e *Encoder) AppData(v interface{}) {
	if e.err != nil {
		return
	}
	if v == nil {
		encodeTag(e.buf, tag{ID: applicationTagNull})
		return
	}
	switch val := v.(type) {
	case bool:
		t := tag{ID: applicationTagBoolean}
		if val {
			t.Value = 1
		}
		encodeTag(e.buf, t)
	case float32:
		encodeTag(e.buf, tag{ID: applicationTagReal, Value: 4})
		_ = binary.Write(e.buf, binary.BigEndian, val)
	case string:
		//+1 because there will be one byte for the string encoding format
		encodeTag(e.buf, tag{ID: applicationTagCharacterString, Value: uint32(len(val) + 1)})
		_ = e.buf.WriteByte(utf8Encoding)
		_, _ = e.buf.Write([]byte(val))
	case uint32:
		length := valueLength(val)
		encodeTag(e.buf, tag{ID: applicationTagUnsignedInt, Value: uint32(length)})
		unsigned(e.buf, val)
	case bacnet.SegmentationSupport:
		e.appEnumerated(uint32(val))
	case bacnet.ErrorClass:
		e.appEnumerated(uint32(val))
	case bacnet.ErrorCode:
		e.appEnumerated(uint32(val))
	case bacnet.ObjectID:
		encodeTag(e.buf, tag{ID: applicationTagObjectID, Value: 4})
		v, err := val.Encode()
		if err != nil {
			e.err = err
			return
		}
		_ = binary.Write(e.buf, binary.BigEndian, v)
	default:
		e.err = fmt.Errorf("encodeAppData: unknown type %T", v)
	}
}

func (e *Encoder) appEnumerated(v uint32) {
	length := valueLength(v)
	encodeTag(e.buf, tag{ID: applicationTagEnumerated, Value: uint32(length)})
	unsigned(e.buf, v)
}

// valueLength calculates how large the necessary value needs to be to fit in the appropriate
// packet length
func valueLength(value uint32) int {
	/* length of enumerated is variable, as per 20.2.11 */
	if value < 0x100 {
		return 1
	} else if value < 0x10000 {
		return 2
	} else if value < 0x1000000 {
		return 3
	}
	return 4
}

//unsigned writes the value in the buffer using a variable-sized encoding
func unsigned(buf *bytes.Buffer, value uint32) int {
	switch {
	case value < 0x100:
		buf.WriteByte(uint8(value))
		return 1
	case value < 0x10000:
		_ = binary.Write(buf, binary.BigEndian, uint16(value))
		return 2
	case value < 0x1000000:
		// There is no default 24 bit integer in go, so we have to
		// write it manually (in big endian)
		buf.WriteByte(byte(value >> 16))
		_ = binary.Write(buf, binary.BigEndian, uint16(value))
		return 3
	default:
		_ = binary.Write(buf, binary.BigEndian, value)
		return 4
	}
}
