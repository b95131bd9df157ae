package bacnet

//The registry answers the two questions request building needs: does
//this object type exist, and what is the application datatype of a
//given property on it. It mirrors the role the object class tables
//play in other stacks, with a static table covering the standard
//objects this engine reads from.

var objectTypeNames = map[string]ObjectType{
	"analogInput":       AnalogInput,
	"analogOutput":      AnalogOutput,
	"analogValue":       AnalogValue,
	"binaryInput":       BinaryInput,
	"binaryOutput":      BinaryOutput,
	"binaryValue":       BinaryValue,
	"calendar":          Calendar,
	"command":           Command,
	"device":            BacnetDevice,
	"eventEnrollment":   EventEnrollment,
	"file":              File,
	"group":             Group,
	"loop":              Loop,
	"multiStateInput":   MultiStateInput,
	"multiStateOutput":  MultiStateOutput,
	"multiStateValue":   MultiStateValue,
	"notificationClass": NotificationClass,
	"program":           Program,
	"schedule":          Schedule,
	"averaging":         Averaging,
	"trendLog":          Trendlog,
	"lifeSafetyPoint":   LifeSafetyPoint,
	"lifeSafetyZone":    LifeSafetyZone,
	"accumulator":       Accumulator,
	"pulseConverter":    PulseConverter,
}

//ObjectTypeFromName resolves a textual object type identifier
func ObjectTypeFromName(name string) (ObjectType, bool) {
	o, ok := objectTypeNames[name]
	return o, ok
}

//commonDatatypes are the properties every standard object carries
var commonDatatypes = map[PropertyType]PropertyValueType{
	ObjectIdentifier: TypeObjectID,
	ObjectName:       TypeCharacterString,
	ObjectTypeProp:   TypeEnumerated,
	Description:      TypeCharacterString,
	StatusFlags:      TypeBitString,
	EventState:       TypeEnumerated,
	Reliability:      TypeEnumerated,
	OutOfService:     TypeBoolean,
}

var analogDatatypes = map[PropertyType]PropertyValueType{
	PresentValue:   TypeReal,
	Units:          TypeEnumerated,
	MinPresValue:   TypeReal,
	MaxPresValue:   TypeReal,
	CovIncrement:   TypeReal,
	HighLimit:      TypeReal,
	LowLimit:       TypeReal,
	Deadband:       TypeReal,
	Resolution:     TypeReal,
	UpdateInterval: TypeUnsignedInt,
	DeviceType:     TypeCharacterString,
	TimeDelay:      TypeUnsignedInt,
	LimitEnable:    TypeBitString,
	EventEnable:    TypeBitString,
	PriorityArray:  TypeReal,
}

var binaryDatatypes = map[PropertyType]PropertyValueType{
	PresentValue:       TypeEnumerated,
	Polarity:           TypeEnumerated,
	ActiveText:         TypeCharacterString,
	InactiveText:       TypeCharacterString,
	ElapsedActiveTime:  TypeUnsignedInt,
	ChangeOfStateCount: TypeUnsignedInt,
	ChangeOfStateTime:  TypeTime,
	MinimumOffTime:     TypeUnsignedInt,
	MinimumOnTime:      TypeUnsignedInt,
	DeviceType:         TypeCharacterString,
	PriorityArray:      TypeEnumerated,
}

var multiStateDatatypes = map[PropertyType]PropertyValueType{
	PresentValue:   TypeUnsignedInt,
	NumberOfStates: TypeUnsignedInt,
	StateText:      TypeCharacterString,
	PriorityArray:  TypeUnsignedInt,
}

var deviceDatatypes = map[PropertyType]PropertyValueType{
	ObjectList:                   TypeObjectID,
	VendorName:                   TypeCharacterString,
	VendorIdentifier:             TypeUnsignedInt,
	ModelName:                    TypeCharacterString,
	FirmwareRevision:             TypeCharacterString,
	ApplicationSoftwareVersion:   TypeCharacterString,
	Location:                     TypeCharacterString,
	ProtocolVersion:              TypeUnsignedInt,
	ProtocolRevision:             TypeUnsignedInt,
	ProtocolServicesSupported:    TypeBitString,
	ProtocolObjectTypesSupported: TypeBitString,
	MaxApduLengthAccepted:        TypeUnsignedInt,
	SegmentationSupported:        TypeEnumerated,
	ApduTimeout:                  TypeUnsignedInt,
	NumberOfApduRetries:          TypeUnsignedInt,
	SystemStatus:                 TypeEnumerated,
	LocalTime:                    TypeTime,
	LocalDate:                    TypeDate,
	UtcOffset:                    TypeSignedInt,
	DaylightSavingsStatus:        TypeBoolean,
	DeviceAddressBinding:         TypeObjectID,
	DatabaseRevision:             TypeUnsignedInt,
	MaxMaster:                    TypeUnsignedInt,
	MaxInfoFrames:                TypeUnsignedInt,
}

var loopDatatypes = map[PropertyType]PropertyValueType{
	PresentValue:            TypeReal,
	Setpoint:                TypeReal,
	ControlledVariableValue: TypeReal,
	Units:                   TypeEnumerated,
	UpdateInterval:          TypeUnsignedInt,
}

var trendLogDatatypes = map[PropertyType]PropertyValueType{
	Enable:      TypeBoolean,
	RecordCount: TypeUnsignedInt,
	BufferSize:  TypeUnsignedInt,
}

var accumulatorDatatypes = map[PropertyType]PropertyValueType{
	PresentValue: TypeUnsignedInt,
	Units:        TypeEnumerated,
	MaxPresValue: TypeUnsignedInt,
}

var specificDatatypes = map[ObjectType]map[PropertyType]PropertyValueType{
	AnalogInput:      analogDatatypes,
	AnalogOutput:     analogDatatypes,
	AnalogValue:      analogDatatypes,
	BinaryInput:      binaryDatatypes,
	BinaryOutput:     binaryDatatypes,
	BinaryValue:      binaryDatatypes,
	MultiStateInput:  multiStateDatatypes,
	MultiStateOutput: multiStateDatatypes,
	MultiStateValue:  multiStateDatatypes,
	BacnetDevice:     deviceDatatypes,
	Loop:             loopDatatypes,
	Trendlog:         trendLogDatatypes,
	Accumulator:      accumulatorDatatypes,
}

//DatatypeOf returns the application datatype of a property for the
//given object type. The second return value is false when the
//property has no datatype for this object type
func DatatypeOf(object ObjectType, property PropertyType) (PropertyValueType, bool) {
	if dt, ok := commonDatatypes[property]; ok {
		return dt, true
	}
	if m, ok := specificDatatypes[object]; ok {
		if dt, ok := m[property]; ok {
			return dt, true
		}
	}
	//Proprietary objects accept any standard property: the device is
	//the only authority on what they expose
	if object >= ProprietaryMin {
		return TypeNull, true
	}
	return 0, false
}

//StandardRegistry exposes the static tables above through the
//interface the read facade consumes
type StandardRegistry struct{}

func (StandardRegistry) ObjectType(name string) (ObjectType, bool) {
	return ObjectTypeFromName(name)
}

func (StandardRegistry) Property(name string) (PropertyType, bool) {
	return PropertyTypeFromName(name)
}

func (StandardRegistry) Datatype(object ObjectType, property PropertyType) (PropertyValueType, bool) {
	return DatatypeOf(object, property)
}
