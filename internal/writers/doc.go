// Package writers turns aligned pairs into bytes on an output stream.
//
// Every format writes through a Sink, a fixed-capacity buffer that flushes
// only when the next record might not fit. Formats are looked up by name in
// a registry so callers never switch on format strings.
package writers
