package conv

import (
	"testing"

	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// referenceConv2D is the naive triple-nested-loop reference the kernel is
// checked against:
//
//	out[b,o,y,x] = bias[o] + sum_{c,i,j} x[b,c,y+i,x+j] * w[o,c,i,j]
//
// It accumulates in float64 regardless of input dtype.
func referenceConv2D(t *testing.T, x, w, bias *tensor.RawTensor) *tensor.RawTensor {
	t.Helper()

	xs, ws := x.Shape(), w.Shape()
	batch, inC, h, width := xs[0], xs[1], xs[2], xs[3]
	outC, fh, fw := ws[0], ws[2], ws[3]
	outH, outW := h-fh+1, width-fw+1

	out, err := tensor.NewRaw(tensor.Shape{batch, outC, outH, outW}, x.DType())
	if err != nil {
		t.Fatalf("reference: %v", err)
	}

	xd := toFloat64(x)
	wd := toFloat64(w)
	bd := toFloat64(bias)

	outData := make([]float64, out.NumElements())
	for b := 0; b < batch; b++ {
		for o := 0; o < outC; o++ {
			for y := 0; y < outH; y++ {
				for xx := 0; xx < outW; xx++ {
					sum := bd[o]
					for c := 0; c < inC; c++ {
						for i := 0; i < fh; i++ {
							for j := 0; j < fw; j++ {
								sum += xd[((b*inC+c)*h+y+i)*width+xx+j] * wd[((o*inC+c)*fh+i)*fw+j]
							}
						}
					}
					outData[((b*outC+o)*outH+y)*outW+xx] = sum
				}
			}
		}
	}

	fromFloat64(out, outData)
	return out
}

func toFloat64(r *tensor.RawTensor) []float64 {
	if r.DType() == tensor.Float64 {
		return r.AsFloat64()
	}
	src := r.AsFloat32()
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

func fromFloat64(r *tensor.RawTensor, data []float64) {
	if r.DType() == tensor.Float64 {
		copy(r.AsFloat64(), data)
		return
	}
	dst := r.AsFloat32()
	for i, v := range data {
		dst[i] = float32(v)
	}
}
