package bacnet

//PropertyType identifies one property of an object, per the standard
//property identifier numbering
type PropertyType uint32

const (
	ActiveText                   PropertyType = 4
	All                          PropertyType = 8
	ApduTimeout                  PropertyType = 11
	ApplicationSoftwareVersion   PropertyType = 12
	ChangeOfStateCount           PropertyType = 15
	ChangeOfStateTime            PropertyType = 16
	NotificationClassProp        PropertyType = 17
	ControlledVariableValue      PropertyType = 19
	CovIncrement                 PropertyType = 22
	DaylightSavingsStatus        PropertyType = 24
	Deadband                     PropertyType = 25
	Description                  PropertyType = 28
	DeviceAddressBinding         PropertyType = 30
	DeviceType                   PropertyType = 31
	ElapsedActiveTime            PropertyType = 33
	EventEnable                  PropertyType = 35
	EventState                   PropertyType = 36
	FirmwareRevision             PropertyType = 44
	HighLimit                    PropertyType = 45
	InactiveText                 PropertyType = 46
	LimitEnable                  PropertyType = 52
	LocalDate                    PropertyType = 56
	LocalTime                    PropertyType = 57
	Location                     PropertyType = 58
	LowLimit                     PropertyType = 59
	MaxApduLengthAccepted        PropertyType = 62
	MaxInfoFrames                PropertyType = 63
	MaxMaster                    PropertyType = 64
	MaxPresValue                 PropertyType = 65
	MinimumOffTime               PropertyType = 66
	MinimumOnTime                PropertyType = 67
	MinPresValue                 PropertyType = 69
	ModelName                    PropertyType = 70
	NumberOfApduRetries          PropertyType = 73
	NumberOfStates               PropertyType = 74
	ObjectIdentifier             PropertyType = 75
	ObjectList                   PropertyType = 76
	ObjectName                   PropertyType = 77
	ObjectTypeProp               PropertyType = 79
	Optional                     PropertyType = 80
	OutOfService                 PropertyType = 81
	Polarity                     PropertyType = 84
	PresentValue                 PropertyType = 85
	PriorityArray                PropertyType = 87
	ProtocolObjectTypesSupported PropertyType = 96
	ProtocolServicesSupported    PropertyType = 97
	ProtocolVersion              PropertyType = 98
	Reliability                  PropertyType = 103
	RelinquishDefault            PropertyType = 104
	Required                     PropertyType = 105
	Resolution                   PropertyType = 106
	SegmentationSupported        PropertyType = 107
	Setpoint                     PropertyType = 108
	StateText                    PropertyType = 110
	StatusFlags                  PropertyType = 111
	SystemStatus                 PropertyType = 112
	TimeDelay                    PropertyType = 113
	Units                        PropertyType = 117
	UpdateInterval               PropertyType = 118
	UtcOffset                    PropertyType = 119
	VendorIdentifier             PropertyType = 120
	VendorName                   PropertyType = 121
	BufferSize                   PropertyType = 126
	Enable                       PropertyType = 133
	ProtocolRevision             PropertyType = 139
	RecordCount                  PropertyType = 141
	DatabaseRevision             PropertyType = 155
)

//propertyNames maps the textual identifiers accepted in read
//specifications to property numbers. The names follow the usual
//lowerCamelCase form of the standard identifiers
var propertyNames = map[string]PropertyType{
	"activeText":                   ActiveText,
	"all":                          All,
	"apduTimeout":                  ApduTimeout,
	"applicationSoftwareVersion":   ApplicationSoftwareVersion,
	"changeOfStateCount":           ChangeOfStateCount,
	"changeOfStateTime":            ChangeOfStateTime,
	"notificationClass":            NotificationClassProp,
	"controlledVariableValue":      ControlledVariableValue,
	"covIncrement":                 CovIncrement,
	"daylightSavingsStatus":        DaylightSavingsStatus,
	"deadband":                     Deadband,
	"description":                  Description,
	"deviceAddressBinding":         DeviceAddressBinding,
	"deviceType":                   DeviceType,
	"elapsedActiveTime":            ElapsedActiveTime,
	"eventEnable":                  EventEnable,
	"eventState":                   EventState,
	"firmwareRevision":             FirmwareRevision,
	"highLimit":                    HighLimit,
	"inactiveText":                 InactiveText,
	"limitEnable":                  LimitEnable,
	"localDate":                    LocalDate,
	"localTime":                    LocalTime,
	"location":                     Location,
	"lowLimit":                     LowLimit,
	"maxApduLengthAccepted":        MaxApduLengthAccepted,
	"maxInfoFrames":                MaxInfoFrames,
	"maxMaster":                    MaxMaster,
	"maxPresValue":                 MaxPresValue,
	"minimumOffTime":               MinimumOffTime,
	"minimumOnTime":                MinimumOnTime,
	"minPresValue":                 MinPresValue,
	"modelName":                    ModelName,
	"numberOfApduRetries":          NumberOfApduRetries,
	"numberOfStates":               NumberOfStates,
	"objectIdentifier":             ObjectIdentifier,
	"objectList":                   ObjectList,
	"objectName":                   ObjectName,
	"objectType":                   ObjectTypeProp,
	"optional":                     Optional,
	"outOfService":                 OutOfService,
	"polarity":                     Polarity,
	"presentValue":                 PresentValue,
	"priorityArray":                PriorityArray,
	"protocolObjectTypesSupported": ProtocolObjectTypesSupported,
	"protocolServicesSupported":    ProtocolServicesSupported,
	"protocolVersion":              ProtocolVersion,
	"reliability":                  Reliability,
	"relinquishDefault":            RelinquishDefault,
	"required":                     Required,
	"resolution":                   Resolution,
	"segmentationSupported":        SegmentationSupported,
	"setpoint":                     Setpoint,
	"stateText":                    StateText,
	"statusFlags":                  StatusFlags,
	"systemStatus":                 SystemStatus,
	"timeDelay":                    TimeDelay,
	"units":                        Units,
	"updateInterval":               UpdateInterval,
	"utcOffset":                    UtcOffset,
	"vendorIdentifier":             VendorIdentifier,
	"vendorName":                   VendorName,
	"bufferSize":                   BufferSize,
	"enable":                       Enable,
	"protocolRevision":             ProtocolRevision,
	"recordCount":                  RecordCount,
	"databaseRevision":             DatabaseRevision,
}

//PropertyTypeFromName resolves a textual property identifier
func PropertyTypeFromName(name string) (PropertyType, bool) {
	p, ok := propertyNames[name]
	return p, ok
}

//IsPropertySelector reports whether p denotes a property-set selector
//(all/required/optional) rather than a single property. Selectors are
//only meaningful inside readPropertyMultiple requests and bypass
//datatype validation
func IsPropertySelector(p PropertyType) bool {
	return p == All || p == Required || p == Optional
}
