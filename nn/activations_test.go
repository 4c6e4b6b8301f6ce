package nn

import (
	"math"
	"testing"

	"github.com/san-kum/tinytorch/autograd"
	"github.com/san-kum/tinytorch/tensor"
)

func TestSigmoidValues(t *testing.T) {
	in, _ := tensor.New([]float32{0, 100, -100})
	out := Sigmoid{}.Forward(in)

	if math.Abs(float64(out.Data()[0])-0.5) > 1e-6 {
		t.Errorf("sigmoid(0) = %f, expected 0.5", out.Data()[0])
	}
	if out.Data()[1] < 0.9999 {
		t.Errorf("sigmoid(100) = %f, expected ~1", out.Data()[1])
	}
	if out.Data()[2] > 0.0001 {
		t.Errorf("sigmoid(-100) = %f, expected ~0", out.Data()[2])
	}
}

func TestReLUValues(t *testing.T) {
	in, _ := tensor.New([]float32{-2, 0, 3})
	out := ReLU{}.Forward(in)

	expected := []float32{0, 0, 3}
	for i, v := range out.Data() {
		if v != expected[i] {
			t.Errorf("relu[%d] = %f, expected %f", i, v, expected[i])
		}
	}
}

func TestGELUValues(t *testing.T) {
	// gelu(0) = 0, gelu is ~x for large positive x, ~0 for large negative x
	in, _ := tensor.New([]float32{0, 5, -5})
	out := GELU{}.Forward(in)

	if out.Data()[0] != 0 {
		t.Errorf("gelu(0) = %f, expected 0", out.Data()[0])
	}
	if math.Abs(float64(out.Data()[1]-5)) > 1e-3 {
		t.Errorf("gelu(5) = %f, expected ~5", out.Data()[1])
	}
	if math.Abs(float64(out.Data()[2])) > 1e-3 {
		t.Errorf("gelu(-5) = %f, expected ~0", out.Data()[2])
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	in, _ := tensor.New([]float32{1, 2, 3, 1000, 1001, 1002}, 2, 3)
	out := Softmax{}.Forward(in)

	for r := 0; r < 2; r++ {
		sum := float32(0)
		for c := 0; c < 3; c++ {
			v, _ := out.At(r, c)
			sum += v
		}
		if math.Abs(float64(sum)-1) > 1e-5 {
			t.Errorf("row %d sums to %f, expected 1", r, sum)
		}
	}

	// Shifted rows give identical distributions (stability check).
	a, _ := out.At(0, 0)
	b, _ := out.At(1, 0)
	if math.Abs(float64(a-b)) > 1e-5 {
		t.Errorf("softmax not shift invariant: %f vs %f", a, b)
	}
}

// gradient check against central finite differences
func checkGradient(t *testing.T, name string, act Activation, x float32) {
	t.Helper()

	tape := autograd.NewTape()
	in, _ := tensor.New([]float32{x})
	v := tape.Var(in)

	out := act.Apply(v)
	loss := autograd.Sum(out)
	if err := tape.Backward(loss); err != nil {
		t.Fatalf("%s backward: %v", name, err)
	}

	h := float32(1e-2)
	fp, _ := tensor.New([]float32{x + h})
	fm, _ := tensor.New([]float32{x - h})
	numeric := (act.Forward(fp).Data()[0] - act.Forward(fm).Data()[0]) / (2 * h)

	got := v.Grad.Data()[0]
	if math.Abs(float64(got-numeric)) > 5e-3 {
		t.Errorf("%s'(%f): got %f, finite difference %f", name, x, got, numeric)
	}
}

func TestActivationGradients(t *testing.T) {
	points := []float32{-1.5, -0.3, 0.4, 1.2}
	for _, x := range points {
		checkGradient(t, "sigmoid", Sigmoid{}, x)
		checkGradient(t, "tanh", Tanh{}, x)
		checkGradient(t, "gelu", GELU{}, x)
	}
	checkGradient(t, "relu", ReLU{}, 0.7)
	checkGradient(t, "relu", ReLU{}, -0.7)
}

func TestSoftmaxBackward(t *testing.T) {
	// With loss = sum(softmax(x)) the gradient is exactly zero.
	tape := autograd.NewTape()
	in, _ := tensor.New([]float32{1, 2, 3}, 1, 3)
	v := tape.Var(in)

	out := Softmax{}.Apply(v)
	loss := autograd.Sum(out)
	if err := tape.Backward(loss); err != nil {
		t.Fatal(err)
	}

	for i, g := range v.Grad.Data() {
		if math.Abs(float64(g)) > 1e-6 {
			t.Errorf("grad[%d] = %g, expected 0", i, g)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"sigmoid", "relu", "tanh", "gelu", "softmax"} {
		act, ok := ByName(name)
		if !ok {
			t.Fatalf("missing activation %s", name)
		}
		if act.Name() != name {
			t.Errorf("name mismatch: %s != %s", act.Name(), name)
		}
	}
	if _, ok := ByName("swish"); ok {
		t.Error("unexpected activation")
	}
}
