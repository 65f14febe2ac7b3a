package video

// BT.601 luma/chroma to RGB coefficients.
const (
	redV   = 1.370705
	greenV = 0.698001
	greenU = 0.337633
	blueU  = 1.732446
)

// ConvertYCrCbToRGB converts one luma sample and one chroma pair to RGB,
// clamping each channel to [0, 255].
func ConvertYCrCbToRGB(y, u, v uint8) (r, g, b uint8) {
	yf := float64(y)
	uf := float64(u) - 128
	vf := float64(v) - 128
	return clampByte(yf + redV*vf),
		clampByte(yf - greenV*vf - greenU*uf),
		clampByte(yf + blueU*uf)
}

// convertYCrCbToRGBLegacy is the unclamped variant: out-of-range channels wrap
// modulo 256, matching the 8-bit truncation of older conversion code. Only
// useful when bit parity with that output matters.
func convertYCrCbToRGBLegacy(y, u, v uint8) (r, g, b uint8) {
	yf := float64(y)
	uf := float64(u) - 128
	vf := float64(v) - 128
	return uint8(int32(yf + redV*vf)),
		uint8(int32(yf - greenV*vf - greenU*uf)),
		uint8(int32(yf + blueU*uf))
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
