// Package pcmconvert holds the small fixed-point/float conversions the
// engine needs at the boundary between AVAudioFormat's float32 node graph
// and the PCMBuffer's Int16 wire format. There's no sample-rate conversion
// or resampling here - that's the node graph's job once a source/sink node
// is connected at the hardware's negotiated format.
package pcmconvert

// Float32ToInt16 converts a buffer of [-1.0, 1.0] float32 samples to Int16,
// clamping instead of wrapping on out-of-range input.
func Float32ToInt16(in []float32) []int16 {
	out := make([]int16, len(in))
	for i, f := range in {
		switch {
		case f >= 1.0:
			out[i] = 32767
		case f <= -1.0:
			out[i] = -32768
		default:
			out[i] = int16(f * 32767)
		}
	}
	return out
}

// Int16ToFloat32 converts Int16 samples back to [-1.0, 1.0] float32, the
// inverse of Float32ToInt16.
func Int16ToFloat32(in []int16) []float32 {
	out := make([]float32, len(in))
	for i, s := range in {
		out[i] = float32(s) / 32768.0
	}
	return out
}
