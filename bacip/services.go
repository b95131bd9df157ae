package bacip

import (
	"errors"
	"fmt"

	"github.com/baclab/bacsync/bacnet"
	"github.com/baclab/bacsync/internal/encoding"
)

//ReadProperty is the payload of a readProperty request and of its
//acknowledgment
type ReadProperty struct {
	ObjectID bacnet.ObjectID
	Property bacnet.PropertyIdentifier
	//Data contains the response value
	Data interface{}
}

func (rp ReadProperty) MarshalBinary() ([]byte, error) {
	encoder := encoding.NewEncoder()
	encoder.ContextObjectID(0, rp.ObjectID)
	encoder.ContextUnsigned(1, uint32(rp.Property.Type))
	if rp.Property.ArrayIndex != nil {
		encoder.ContextUnsigned(2, *rp.Property.ArrayIndex)
	}
	return encoder.Bytes(), encoder.Error()
}

func (rp *ReadProperty) UnmarshalBinary(data []byte) error {
	decoder := encoding.NewDecoder(data)
	decoder.ContextObjectID(0, &rp.ObjectID)
	var val uint32
	decoder.ContextValue(1, &val)
	rp.Property.Type = bacnet.PropertyType(val)
	rp.Property.ArrayIndex = new(uint32)
	decoder.ContextValue(2, rp.Property.ArrayIndex)
	err := decoder.Error()
	var e encoding.ErrorIncorrectTagID
	//This tag is optional, maybe it doesn't exist
	if err != nil && errors.As(err, &e) {
		rp.Property.ArrayIndex = nil
		decoder.ResetError()
	}
	decoder.ContextAbstractType(3, &rp.Data)
	return decoder.Error()
}

//ReadPropertyMultiple is the payload of a readPropertyMultiple request
type ReadPropertyMultiple struct {
	Specs []bacnet.ReadAccessSpec
}

func (rpm ReadPropertyMultiple) MarshalBinary() ([]byte, error) {
	encoder := encoding.NewEncoder()
	for _, spec := range rpm.Specs {
		encoder.ContextObjectID(0, spec.Object)
		encoder.ContextOpening(1)
		for _, prop := range spec.Properties {
			encoder.ContextUnsigned(0, uint32(prop.Type))
			if prop.ArrayIndex != nil {
				encoder.ContextUnsigned(1, *prop.ArrayIndex)
			}
		}
		encoder.ContextClosing(1)
	}
	return encoder.Bytes(), encoder.Error()
}

func (rpm *ReadPropertyMultiple) UnmarshalBinary(data []byte) error {
	decoder := encoding.NewDecoder(data)
	for !decoder.Empty() && decoder.Error() == nil {
		spec := bacnet.ReadAccessSpec{}
		decoder.ContextObjectID(0, &spec.Object)
		decoder.ContextOpening(1)
		for decoder.Error() == nil && !decoder.ClosingNext(1) {
			var val uint32
			decoder.ContextValue(0, &val)
			prop := bacnet.PropertyIdentifier{Type: bacnet.PropertyType(val)}
			prop.ArrayIndex = new(uint32)
			decoder.ContextValue(1, prop.ArrayIndex)
			var e encoding.ErrorIncorrectTagID
			if err := decoder.Error(); err != nil && errors.As(err, &e) {
				prop.ArrayIndex = nil
				decoder.ResetError()
			}
			spec.Properties = append(spec.Properties, prop)
		}
		decoder.ContextClosing(1)
		rpm.Specs = append(rpm.Specs, spec)
	}
	return decoder.Error()
}

//ReadPropertyMultipleACK is the acknowledgment of a
//readPropertyMultiple request: one ReadAccessResult per requested
//object, each holding a value or a device-reported error per property
type ReadPropertyMultipleACK struct {
	Results []bacnet.ReadAccessResult
}

func (ack ReadPropertyMultipleACK) MarshalBinary() ([]byte, error) {
	encoder := encoding.NewEncoder()
	for _, res := range ack.Results {
		encoder.ContextObjectID(0, res.Object)
		encoder.ContextOpening(1)
		for _, pr := range res.Results {
			encoder.ContextUnsigned(2, uint32(pr.Property.Type))
			if pr.Property.ArrayIndex != nil {
				encoder.ContextUnsigned(3, *pr.Property.ArrayIndex)
			}
			if pr.Err != nil {
				var apduErr ApduError
				if !errors.As(pr.Err, &apduErr) {
					return nil, fmt.Errorf("property error %v is not an apdu error", pr.Err)
				}
				encoder.ContextOpening(5)
				encoder.AppData(apduErr.Class)
				encoder.AppData(apduErr.Code)
				encoder.ContextClosing(5)
			} else {
				encoder.ContextOpening(4)
				encoder.AppData(pr.Value)
				encoder.ContextClosing(4)
			}
		}
		encoder.ContextClosing(1)
	}
	return encoder.Bytes(), encoder.Error()
}

func (ack *ReadPropertyMultipleACK) UnmarshalBinary(data []byte) error {
	decoder := encoding.NewDecoder(data)
	for !decoder.Empty() && decoder.Error() == nil {
		res := bacnet.ReadAccessResult{}
		decoder.ContextObjectID(0, &res.Object)
		decoder.ContextOpening(1)
		for decoder.Error() == nil && !decoder.ClosingNext(1) {
			pr := bacnet.PropertyResult{}
			var val uint32
			decoder.ContextValue(2, &val)
			pr.Property.Type = bacnet.PropertyType(val)
			pr.Property.ArrayIndex = new(uint32)
			decoder.ContextValue(3, pr.Property.ArrayIndex)
			var e encoding.ErrorIncorrectTagID
			if err := decoder.Error(); err != nil && errors.As(err, &e) {
				pr.Property.ArrayIndex = nil
				decoder.ResetError()
			}
			if decoder.OpeningNext(5) {
				apduErr := ApduError{}
				decoder.ContextOpening(5)
				decoder.AppData(&apduErr.Class)
				decoder.AppData(&apduErr.Code)
				decoder.ContextClosing(5)
				pr.Err = apduErr
			} else {
				decoder.ContextAbstractType(4, &pr.Value)
			}
			res.Results = append(res.Results, pr)
		}
		decoder.ContextClosing(1)
		ack.Results = append(ack.Results, res)
	}
	return decoder.Error()
}

//ApduError is a device-reported error, both as the payload of an
//Error PDU and as the per-property error of a readPropertyMultiple
//acknowledgment
type ApduError struct {
	Class bacnet.ErrorClass
	Code  bacnet.ErrorCode
}

func (e ApduError) Error() string {
	return fmt.Sprintf("apdu error class %v code %v", e.Class, e.Code)
}

func (e ApduError) MarshalBinary() ([]byte, error) {
	encoder := encoding.NewEncoder()
	encoder.AppData(e.Class)
	encoder.AppData(e.Code)
	return encoder.Bytes(), encoder.Error()
}

func (e *ApduError) UnmarshalBinary(data []byte) error {
	decoder := encoding.NewDecoder(data)
	decoder.AppData(&e.Class)
	decoder.AppData(&e.Code)
	return decoder.Error()
}
