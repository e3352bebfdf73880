package constant

func MakeInt(v int32) Value { return intValue{v: v} }

func MakeString(v string) Value { return stringValue{v: v} }

func MakeBool(v bool) Value { return boolValue{v: v} }
