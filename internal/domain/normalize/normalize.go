// Package normalize converts platform-specific raw analytics into the
// canonical PerformanceRecord.
//
// Each platform has one Normalizer. Raw rows are JSON objects; numeric fields
// may be numbers or numeric strings and are parsed as exact decimals.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/okian/adlens/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Normalizer maps one raw analytics row of its platform to a PerformanceRecord.
// Unknown keys are ignored, so the same normalizer reads campaign totals,
// daily rows, hourly rows and unit rows.
type Normalizer interface {
	Platform() model.Platform
	Normalize(raw json.RawMessage) (model.PerformanceRecord, error)
}

var registry = map[model.Platform]Normalizer{
	model.PlatformFacebook:  auction{platform: model.PlatformFacebook},
	model.PlatformInstagram: auction{platform: model.PlatformInstagram},
	model.PlatformTikTok:    shortVideo{},
	model.PlatformShopee:    marketplace{},
}

// For returns the normalizer registered for p.
func For(p model.Platform) (Normalizer, error) {
	n, ok := registry[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, string(p))
	}
	return n, nil
}

// Lookup resolves a free-form platform tag to its normalizer.
func Lookup(tag string) (Normalizer, error) {
	p, ok := model.ParsePlatform(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, tag)
	}
	return For(p)
}

// Normalize maps a raw payload of the tagged platform to a PerformanceRecord.
func Normalize(tag string, raw json.RawMessage) (model.PerformanceRecord, error) {
	n, err := Lookup(tag)
	if err != nil {
		return model.PerformanceRecord{}, err
	}
	return n.Normalize(raw)
}

// checkUpstream fails when the payload is a connector error object. The error
// value may be a plain string or an object with a message field.
func checkUpstream(p model.Platform, raw json.RawMessage) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: empty payload", ErrDecode)
	}
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(env.Error) == 0 || bytes.Equal(env.Error, []byte("null")) {
		return nil
	}
	var msg string
	if err := json.Unmarshal(env.Error, &msg); err == nil {
		if msg == "" {
			return nil
		}
		return &UpstreamError{Platform: p, Message: msg}
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
		return &UpstreamError{Platform: p, Message: obj.Message}
	}
	return &UpstreamError{Platform: p, Message: string(env.Error)}
}

func decodeRow(p model.Platform, raw json.RawMessage, dst any) error {
	if err := checkUpstream(p, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, p, err)
	}
	return nil
}

var maxCount = decimal.NewFromInt(math.MaxInt64)

// fields converts decoded decimals and keeps the first value that does not
// fit its target type.
type fields struct {
	platform model.Platform
	err      error
}

// count truncates a decimal to a non-negative integer.
func (f *fields) count(name string, d decimal.Decimal) uint64 {
	if d.Sign() <= 0 {
		return 0
	}
	if d.GreaterThan(maxCount) {
		f.fail(name, d)
		return 0
	}
	return uint64(d.IntPart())
}

// amount converts a decimal to a non-negative finite float.
func (f *fields) amount(name string, d decimal.Decimal) float64 {
	if d.Sign() <= 0 {
		return 0
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		f.fail(name, d)
		return 0
	}
	return v
}

func (f *fields) fail(name string, d decimal.Decimal) {
	if f.err == nil {
		f.err = fmt.Errorf("%w: %s: %s out of range: %s", ErrDecode, f.platform, name, d.String())
	}
}

// first returns the first present value.
func first(ds ...*decimal.Decimal) decimal.Decimal {
	for _, d := range ds {
		if d != nil {
			return *d
		}
	}
	return decimal.Zero
}
