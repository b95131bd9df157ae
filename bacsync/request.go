package bacsync

import (
	"github.com/baclab/bacsync/bacnet"
)

//Registry answers the type questions request building needs. The
//standard tables in the bacnet package satisfy it; a custom registry
//can extend them with vendor objects
type Registry interface {
	ObjectType(name string) (bacnet.ObjectType, bool)
	Property(name string) (bacnet.PropertyType, bool)
	Datatype(object bacnet.ObjectType, property bacnet.PropertyType) (bacnet.PropertyValueType, bool)
}

//AddressResolver turns the textual destination of a read
//specification into a network address
type AddressResolver func(string) (bacnet.Address, error)

//resolveObjectType accepts either a raw numeric type code or a
//registry-known name
func resolveObjectType(reg Registry, t token) (bacnet.ObjectType, error) {
	if t.kind == tokenInteger {
		return bacnet.ObjectType(t.num), nil
	}
	ot, ok := reg.ObjectType(t.text)
	if !ok {
		return 0, ValidationError{Kind: UnknownObjectType, Token: t.text}
	}
	return ot, nil
}

//buildReadRequest builds a single-property read request from the
//tokens of a "<addr> <type> <inst> <prop> [ <indx> ]" specification.
//A trailing index token overrides the arrayIndex parameter
func buildReadRequest(reg Registry, resolve AddressResolver, tokens []token, arrayIndex *uint32) (bacnet.ReadRequest, error) {
	var req bacnet.ReadRequest
	if len(tokens) < 4 || len(tokens) > 5 {
		return req, ValidationError{Kind: Malformed}
	}
	dest, err := resolve(tokens[0].text)
	if err != nil {
		return req, ValidationError{Kind: Malformed, Token: tokens[0].text}
	}
	objectType, err := resolveObjectType(reg, tokens[1])
	if err != nil {
		return req, err
	}
	if tokens[2].kind != tokenInteger {
		return req, ValidationError{Kind: Malformed, Token: tokens[2].text}
	}
	property, err := resolveProperty(reg, tokens[3])
	if err != nil {
		return req, err
	}
	if _, ok := reg.Datatype(objectType, property); !ok {
		return req, ValidationError{Kind: InvalidProperty, Token: tokens[3].text}
	}
	if len(tokens) == 5 {
		if tokens[4].kind != tokenInteger {
			return req, ValidationError{Kind: Malformed, Token: tokens[4].text}
		}
		idx := tokens[4].num
		arrayIndex = &idx
	}
	req = bacnet.ReadRequest{
		Destination: dest,
		Object: bacnet.ObjectID{
			Type:     objectType,
			Instance: bacnet.ObjectInstance(tokens[2].num),
		},
		Property: bacnet.PropertyIdentifier{
			Type:       property,
			ArrayIndex: arrayIndex,
		},
	}
	return req, nil
}

func resolveProperty(reg Registry, t token) (bacnet.PropertyType, error) {
	if t.kind == tokenInteger {
		return bacnet.PropertyType(t.num), nil
	}
	p, ok := reg.Property(t.text)
	if !ok {
		return 0, ValidationError{Kind: InvalidProperty, Token: t.text}
	}
	return p, nil
}

//buildReadMultipleRequest builds a multi-object, multi-property read
//request from the tokens of a
//"<addr> ( <type> <inst> ( <prop> [ <indx> ] )... )..." specification.
//A cursor walks the token list; the property run of each object ends
//at the first token that is not a recognized property identifier,
//which is how one object group is delimited from the next
func buildReadMultipleRequest(reg Registry, resolve AddressResolver, tokens []token) (bacnet.ReadMultipleRequest, error) {
	var req bacnet.ReadMultipleRequest
	if len(tokens) == 0 {
		return req, ValidationError{Kind: Malformed}
	}
	dest, err := resolve(tokens[0].text)
	if err != nil {
		return req, ValidationError{Kind: Malformed, Token: tokens[0].text}
	}
	i := 1
	var specs []bacnet.ReadAccessSpec
	for i < len(tokens) {
		objectType, err := resolveObjectType(reg, tokens[i])
		if err != nil {
			return req, err
		}
		i++
		if i >= len(tokens) || tokens[i].kind != tokenInteger {
			return req, ValidationError{Kind: Malformed, Token: tokens[i-1].text}
		}
		instance := bacnet.ObjectInstance(tokens[i].num)
		i++

		var props []bacnet.PropertyIdentifier
		for i < len(tokens) {
			t := tokens[i]
			if t.kind != tokenIdent {
				break
			}
			property, ok := reg.Property(t.text)
			if !ok {
				break
			}
			i++
			if !bacnet.IsPropertySelector(property) {
				if _, ok := reg.Datatype(objectType, property); !ok {
					return req, ValidationError{Kind: InvalidProperty, Token: t.text}
				}
			}
			prop := bacnet.PropertyIdentifier{Type: property}
			if i < len(tokens) && tokens[i].kind == tokenInteger {
				idx := tokens[i].num
				prop.ArrayIndex = &idx
				i++
			}
			props = append(props, prop)
		}
		if len(props) == 0 {
			return req, ValidationError{Kind: EmptyPropertyList}
		}
		specs = append(specs, bacnet.ReadAccessSpec{
			Object: bacnet.ObjectID{
				Type:     objectType,
				Instance: instance,
			},
			Properties: props,
		})
	}
	if len(specs) == 0 {
		return req, ValidationError{Kind: EmptySpecList}
	}
	req = bacnet.ReadMultipleRequest{
		Destination: dest,
		Specs:       specs,
	}
	return req, nil
}
