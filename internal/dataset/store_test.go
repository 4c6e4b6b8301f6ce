package dataset_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tinytorch/internal/dataset"
	"github.com/san-kum/tinytorch/internal/dynamo"
)

var _ = Describe("Store", func() {
	var (
		store  *dataset.Store
		tmpDir string
		result *dynamo.Result
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		store = dataset.New(tmpDir)
		Expect(store.Init()).To(Succeed())

		result = &dynamo.Result{
			States:  []dynamo.State{{0.5, 0}, {0.49, -0.2}, {0.46, -0.39}},
			Times:   []float64{0, 0.01, 0.02},
			Metrics: map[string]float64{"energy": 1.19},
		}
	})

	It("creates both variant subtrees with derivatives dirs", func() {
		for _, dir := range []string{"full_system", "reduced_system"} {
			info, err := os.Stat(filepath.Join(tmpDir, dir, "derivatives"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		}
	})

	It("saves a run and loads its metadata back", func() {
		runID, err := store.Save("pendulum", "full", 0.01, 10, 42, "rk4", result)
		Expect(err).NotTo(HaveOccurred())
		Expect(runID).To(HavePrefix("pendulum_full_"))

		meta, err := store.Load(runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Family).To(Equal("pendulum"))
		Expect(meta.Variant).To(Equal("full"))
		Expect(meta.Seed).To(Equal(int64(42)))
		Expect(meta.Metrics).To(HaveKeyWithValue("energy", 1.19))
	})

	It("places runs under their variant's directory", func() {
		runID, err := store.Save("duffing", "reduced", 0.01, 5, 1, "euler", result)
		Expect(err).NotTo(HaveOccurred())

		_, err = os.Stat(filepath.Join(tmpDir, "reduced_system", runID, "states.csv"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("round-trips trajectory states", func() {
		runID, err := store.Save("pendulum", "full", 0.01, 10, 42, "rk4", result)
		Expect(err).NotTo(HaveOccurred())

		states, times, err := store.LoadStates(runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(states).To(HaveLen(3))
		Expect(times).To(Equal([]float64{0, 0.01, 0.02}))
		Expect(states[2][1]).To(BeNumerically("~", -0.39, 1e-6))
	})

	It("lists runs across both variants", func() {
		_, err := store.Save("pendulum", "full", 0.01, 10, 1, "rk4", result)
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Save("pendulum", "reduced", 0.01, 10, 2, "rk4", result)
		Expect(err).NotTo(HaveOccurred())

		runs, err := store.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(2))
	})

	It("stores and reloads derivative datasets", func() {
		runID, err := store.Save("pendulum", "reduced", 0.01, 10, 42, "rk4", result)
		Expect(err).NotTo(HaveOccurred())

		derivs := []dynamo.State{{-0.1, -2.0}, {-0.3, -1.9}, {-0.5, -1.7}}
		path, err := store.SaveDerivatives(runID, derivs, result.Times)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(ContainSubstring(filepath.Join("reduced_system", "derivatives")))

		loaded, times, err := store.LoadDerivatives(runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(times).To(HaveLen(3))
		Expect(loaded[0][1]).To(BeNumerically("~", -2.0, 1e-6))
	})

	It("fails to load unknown run IDs", func() {
		_, err := store.Load("pendulum_full_deadbeef")
		Expect(err).To(HaveOccurred())
	})

	It("generates distinct IDs for repeated saves", func() {
		a, err := store.Save("pendulum", "full", 0.01, 10, 1, "rk4", result)
		Expect(err).NotTo(HaveOccurred())
		b, err := store.Save("pendulum", "full", 0.01, 10, 1, "rk4", result)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})
})
