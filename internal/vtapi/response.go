package vtapi

// Kind tells which variant of a Response is populated.
type Kind int

const (
	// KindStructured means Value holds a decoded JSON value.
	KindStructured Kind = iota
	// KindBytes means Data holds a raw binary payload.
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindStructured:
		return "structured"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Response is the result of every API call: either a JSON-like value to be
// rendered or a binary payload to be persisted. Binary endpoints return a
// structured value when the lookup fails.
type Response struct {
	Kind  Kind
	Value any
	Data  []byte
}

// Structured wraps a decoded JSON value.
func Structured(v any) Response {
	return Response{Kind: KindStructured, Value: v}
}

// Bytes wraps a raw payload.
func Bytes(b []byte) Response {
	return Response{Kind: KindBytes, Data: b}
}

// IsBytes reports whether the response carries a binary payload.
func (r Response) IsBytes() bool {
	return r.Kind == KindBytes
}
