package dataset_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tinytorch/internal/dataset"
	"github.com/san-kum/tinytorch/internal/dynamo"
	"github.com/san-kum/tinytorch/tensor"
)


// at reads one element and fails the test on an index error.
func at(t *tensor.Tensor, idx ...int) float32 {
	GinkgoHelper()
	v, err := t.At(idx...)
	Expect(err).NotTo(HaveOccurred())
	return v
}

var _ = Describe("ToTensors", func() {
	It("converts a trajectory to (samples, dim) and (samples,) tensors", func() {
		states := []dynamo.State{{1, 2}, {3, 4}, {5, 6}}
		times := []float64{0, 0.1, 0.2}

		x, t, err := dataset.ToTensors(states, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(x.Shape()).To(Equal([]int{3, 2}))
		Expect(t.Shape()).To(Equal([]int{3}))
		Expect(at(x, 1, 0)).To(BeNumerically("~", 3, 1e-6))
		Expect(at(t, 2)).To(BeNumerically("~", 0.2, 1e-6))
	})

	It("rejects empty and mismatched inputs", func() {
		_, _, err := dataset.ToTensors(nil, nil)
		Expect(err).To(HaveOccurred())

		_, _, err = dataset.ToTensors([]dynamo.State{{1}}, []float64{0, 1})
		Expect(err).To(HaveOccurred())

		_, _, err = dataset.ToTensors([]dynamo.State{{1, 2}, {3}}, []float64{0, 1})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Normalize", func() {
	It("z-scores each column to zero mean and unit variance", func() {
		x, err := tensor.New([]float32{1, 10, 2, 20, 3, 30}, 3, 2)
		Expect(err).NotTo(HaveOccurred())

		norm, mean, std, err := dataset.Normalize(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(mean.Shape()).To(Equal([]int{1, 2}))
		Expect(at(mean, 0, 0)).To(BeNumerically("~", 2, 1e-5))
		Expect(at(mean, 0, 1)).To(BeNumerically("~", 20, 1e-5))

		for c := 0; c < 2; c++ {
			sum := float32(0)
			for r := 0; r < 3; r++ {
				sum += at(norm, r, c)
			}
			Expect(sum).To(BeNumerically("~", 0, 1e-5))
		}

		// round-trip through Denormalize recovers the input
		back, err := dataset.Denormalize(norm, mean, std)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.AllClose(x, 1e-5)).To(BeTrue())
	})

	It("leaves zero-variance columns unscaled", func() {
		x, err := tensor.New([]float32{5, 1, 5, 2, 5, 3}, 3, 2)
		Expect(err).NotTo(HaveOccurred())

		norm, _, std, err := dataset.Normalize(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(at(std, 0, 0)).To(BeNumerically("==", 1))
		Expect(at(norm, 0, 0)).To(BeNumerically("~", 0, 1e-6))
	})

	It("rejects non-2D tensors", func() {
		x, err := tensor.New([]float32{1, 2, 3}, 3)
		Expect(err).NotTo(HaveOccurred())
		_, _, _, err = dataset.Normalize(x)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Split", func() {
	var x, y *tensor.Tensor

	BeforeEach(func() {
		xData := make([]float32, 20)
		yData := make([]float32, 10)
		for i := 0; i < 10; i++ {
			xData[2*i] = float32(i)
			xData[2*i+1] = float32(i)
			yData[i] = float32(i)
		}
		var err error
		x, err = tensor.New(xData, 10, 2)
		Expect(err).NotTo(HaveOccurred())
		y, err = tensor.New(yData, 10, 1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("splits rows by the training fraction", func() {
		trainX, trainY, testX, testY, err := dataset.Split(x, y, 0.8, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(trainX.Dim(0)).To(Equal(8))
		Expect(trainY.Dim(0)).To(Equal(8))
		Expect(testX.Dim(0)).To(Equal(2))
		Expect(testY.Dim(0)).To(Equal(2))
	})

	It("keeps X and Y rows paired through the shuffle", func() {
		trainX, trainY, _, _, err := dataset.Split(x, y, 0.8, 7)
		Expect(err).NotTo(HaveOccurred())
		for r := 0; r < trainX.Dim(0); r++ {
			Expect(at(trainX, r, 0)).To(Equal(at(trainY, r, 0)))
		}
	})

	It("is deterministic for a fixed seed", func() {
		a, _, _, _, err := dataset.Split(x, y, 0.5, 99)
		Expect(err).NotTo(HaveOccurred())
		b, _, _, _, err := dataset.Split(x, y, 0.5, 99)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Equal(b)).To(BeTrue())
	})

	It("rejects out-of-range fractions and mismatched rows", func() {
		_, _, _, _, err := dataset.Split(x, y, 1.0, 1)
		Expect(err).To(HaveOccurred())

		short, err := tensor.New([]float32{1, 2}, 2, 1)
		Expect(err).NotTo(HaveOccurred())
		_, _, _, _, err = dataset.Split(x, short, 0.5, 1)
		Expect(err).To(HaveOccurred())
	})
})
