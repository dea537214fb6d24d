package logging

// LogField creates a Field from a key-value pair.
func LogField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// StringField creates a Field with a string value.
func StringField(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int64Field creates a Field with an int64 value, such as a call
// ordinal.
func Int64Field(key string, value int64) Field {
	return Field{Key: key, Value: value}
}
