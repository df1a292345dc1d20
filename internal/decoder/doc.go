// Package decoder parses SmartAPI V2 binary tick frames into quote records.
//
// The wire format is a fixed little-endian layout. An LTP frame is 51 bytes;
// a quote-mode frame extends it to 123 bytes with volume and day OHLC.
// Decoding is pure: no I/O, no state, and a malformed frame can never panic.
package decoder
