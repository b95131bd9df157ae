package bacsync

import (
	"errors"
	"fmt"
)

var (
	//ErrNotStarted is returned when a read is attempted before the
	//engine is running
	ErrNotStarted = errors.New("engine not started, call Start before reading")
	//ErrNoResponseFromController is returned when the wait timeout
	//elapses without a response. The request is not retried
	ErrNoResponseFromController = errors.New("no response from controller")
	//ErrSegmentationNotSupported is returned when the device cannot
	//take part in the segmented transfer the request would need
	ErrSegmentationNotSupported = errors.New("segmentation not supported")
)

//ValidationKind classifies request-construction failures
type ValidationKind int

const (
	UnknownObjectType ValidationKind = iota
	InvalidProperty
	EmptyPropertyList
	EmptySpecList
	Malformed
)

func (k ValidationKind) String() string {
	switch k {
	case UnknownObjectType:
		return "unknown object type"
	case InvalidProperty:
		return "invalid property for object type"
	case EmptyPropertyList:
		return "provide at least one property"
	case EmptySpecList:
		return "at least one read access specification required"
	case Malformed:
		return "malformed read specification"
	default:
		return "invalid read specification"
	}
}

//ValidationError is a request-construction failure. It is always
//returned before anything is submitted to the engine
type ValidationError struct {
	Kind  ValidationKind
	Token string
}

func (e ValidationError) Error() string {
	if e.Token == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%v: %q", e.Kind, e.Token)
}
