package xopbase

// DataTypeToString provides mapping from DataType to short,
// human-readable type strings.
var DataTypeToString = func() map[DataType]string {
	m := make(map[DataType]string)
	for k, v := range StringToDataType {
		m[v] = k
	}
	return m
}()

// StringToDataType reverses DataTypeToString
var StringToDataType = map[string]DataType{
	"i":     IntDataType,
	"u":     UintDataType,
	"f":     FloatDataType,
	"bool":  BoolDataType,
	"s":     StringDataType,
	"time":  TimeDataType,
	"dur":   DurationDataType,
	"error": ErrorDataType,
	"any":   AnyDataType,
	"null":  NullDataType,
}

func (dt DataType) String() string {
	if s, ok := DataTypeToString[dt]; ok {
		return s
	}
	return "unset"
}
