package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rgarg/angelone-data/internal/model"
)

// SmartAPI V2 binary layout (little-endian). Offsets are byte positions
// within one frame.
const (
	offToken  = 2   // 25 ASCII bytes, NUL-padded
	offLTP    = 43  // int64, paise
	offVolume = 67  // int64, plain magnitude
	offOpen   = 91  // int64, paise
	offHigh   = 99  // int64, paise
	offLow    = 107 // int64, paise
	offClose  = 115 // int64, paise

	tokenLen = 25

	// MinFrameLen is the length of an LTP-mode frame, the smallest frame
	// that carries a usable tick.
	MinFrameLen = 51

	// QuoteFrameLen is the length of a quote-mode frame, which adds
	// volume and day OHLC.
	QuoteFrameLen = 123
)

// priceScale converts wire paise to currency units.
const priceScale = 100.0

// ErrShortFrame indicates a buffer below the minimum frame length.
var ErrShortFrame = errors.New("frame shorter than minimum length")

// DecodeError reports a frame that could not be decoded.
type DecodeError struct {
	Reason string
	Err    error // wrapped sentinel, may be nil
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode frame: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode frame: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses one binary frame into a QuoteRecord.
//
// Frames at least MinFrameLen long always decode unless the token field is
// unparsable. Fields beyond the frame's actual length (OHLC, volume in an
// LTP frame) default to zero rather than failing the decode.
func Decode(raw []byte) (model.QuoteRecord, error) {
	if len(raw) < MinFrameLen {
		return model.QuoteRecord{}, &DecodeError{
			Reason: fmt.Sprintf("got %d bytes, need %d", len(raw), MinFrameLen),
			Err:    ErrShortFrame,
		}
	}

	token, err := parseToken(raw[offToken : offToken+tokenLen])
	if err != nil {
		return model.QuoteRecord{}, &DecodeError{Reason: "instrument token", Err: err}
	}

	rec := model.QuoteRecord{
		Token:           token,
		LastTradedPrice: priceAt(raw, offLTP),
	}

	// Quote-mode frames carry volume and day OHLC; anything shorter
	// leaves them zeroed.
	if len(raw) >= QuoteFrameLen {
		rec.Volume = float64(int64At(raw, offVolume))
		rec.Open = priceAt(raw, offOpen)
		rec.High = priceAt(raw, offHigh)
		rec.Low = priceAt(raw, offLow)
		rec.Close = priceAt(raw, offClose)
	}

	return rec, nil
}

// parseToken trims NUL padding and validates the token is printable ASCII.
func parseToken(field []byte) (string, error) {
	trimmed := bytes.TrimRight(field, "\x00")
	trimmed = bytes.TrimSpace(trimmed)
	if len(trimmed) == 0 {
		return "", errors.New("empty token field")
	}
	for _, b := range trimmed {
		if b < 0x21 || b > 0x7e {
			return "", fmt.Errorf("token contains non-printable byte 0x%02x", b)
		}
	}
	return string(trimmed), nil
}

func int64At(raw []byte, off int) int64 {
	return int64(binary.LittleEndian.Uint64(raw[off : off+8]))
}

func priceAt(raw []byte, off int) float64 {
	return float64(int64At(raw, off)) / priceScale
}
