package helpers

import (
	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
)

// NoneValue is the explicit null.
func NoneValue() *gpb.Value {
	return &gpb.Value{}
}

func Int8Value(v int8) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_I8Value{I8Value: int32(v)}}
}

func Int16Value(v int16) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_I16Value{I16Value: int32(v)}}
}

func Int32Value(v int32) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_I32Value{I32Value: v}}
}

func Int64Value(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_I64Value{I64Value: v}}
}

func Uint8Value(v uint8) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_U8Value{U8Value: uint32(v)}}
}

func Uint16Value(v uint16) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_U16Value{U16Value: uint32(v)}}
}

func Uint32Value(v uint32) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_U32Value{U32Value: v}}
}

func Uint64Value(v uint64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_U64Value{U64Value: v}}
}

func Float32Value(v float32) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_F32Value{F32Value: v}}
}

func Float64Value(v float64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_F64Value{F64Value: v}}
}

func BoolValue(v bool) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_BoolValue{BoolValue: v}}
}

func StringValue(v string) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_StringValue{StringValue: v}}
}

func BinaryValue(v []byte) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_BinaryValue{BinaryValue: v}}
}

func DateValue(v int32) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_DateValue{DateValue: v}}
}

func DatetimeValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_DatetimeValue{DatetimeValue: v}}
}

func TimestampSecondValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_TimestampSecondValue{TimestampSecondValue: v}}
}

func TimestampMillisecondValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_TimestampMillisecondValue{TimestampMillisecondValue: v}}
}

func TimestampMicrosecondValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_TimestampMicrosecondValue{TimestampMicrosecondValue: v}}
}

func TimestampNanosecondValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_TimestampNanosecondValue{TimestampNanosecondValue: v}}
}

func TimeSecondValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_TimeSecondValue{TimeSecondValue: v}}
}

func TimeMillisecondValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_TimeMillisecondValue{TimeMillisecondValue: v}}
}

func TimeMicrosecondValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_TimeMicrosecondValue{TimeMicrosecondValue: v}}
}

func TimeNanosecondValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_TimeNanosecondValue{TimeNanosecondValue: v}}
}

func IntervalYearMonthValue(months int32) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_IntervalYearMonthValue{IntervalYearMonthValue: months}}
}

func IntervalDayTimeValue(v int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_IntervalDayTimeValue{IntervalDayTimeValue: v}}
}

func IntervalMonthDayNanoValue(months, days int32, nanoseconds int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_IntervalMonthDayNanoValue{
		IntervalMonthDayNanoValue: &gpb.IntervalMonthDayNano{
			Months:      months,
			Days:        days,
			Nanoseconds: nanoseconds,
		},
	}}
}

// Decimal128Value takes the value split into its high and low 64-bit halves.
func Decimal128Value(hi, lo int64) *gpb.Value {
	return &gpb.Value{ValueData: &gpb.Value_Decimal128Value{
		Decimal128Value: &gpb.Decimal128{Hi: hi, Lo: lo},
	}}
}
