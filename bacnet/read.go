package bacnet

//ReadRequest asks one device for a single property of a single object
type ReadRequest struct {
	Destination Address
	Object      ObjectID
	Property    PropertyIdentifier
}

//ReadAccessSpec groups one object with the properties requested from
//it. A valid spec carries at least one property reference
type ReadAccessSpec struct {
	Object     ObjectID
	Properties []PropertyIdentifier
}

//ReadMultipleRequest asks one device for several properties across
//several objects in a single exchange
type ReadMultipleRequest struct {
	Destination Address
	Specs       []ReadAccessSpec
}

//PropertyResult is the outcome for one property reference of a
//readPropertyMultiple exchange. Either Value or Err is set
type PropertyResult struct {
	Property PropertyIdentifier
	Value    interface{}
	Err      error
}

//ReadAccessResult is the per-object slice of a readPropertyMultiple
//acknowledgment
type ReadAccessResult struct {
	Object  ObjectID
	Results []PropertyResult
}

//Result is the envelope the engine delivers for each completed
//exchange. Exactly one of the three outcomes is meaningful: a decoded
//value, a device-reported error, or the segmentation limitation
type Result struct {
	Value interface{}
	Err   error
	//SegmentationNotSupported is set when the device aborted the
	//exchange because it cannot take part in segmented transfers
	SegmentationNotSupported bool
}
