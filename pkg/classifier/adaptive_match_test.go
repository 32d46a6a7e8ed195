package classifier

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/VladimirLichonos/tess-two/pkg/matcher"
	"github.com/VladimirLichonos/tess-two/pkg/templates"
)

// warmSetup installs one permanent config for classID so the session takes
// the warm (baseline-first) path.
func warmSetup(env *testEnv, classID, fontID int, ambigIDs []int) *templates.IntClass {
	class, err := env.session.adapted.Class(classID)
	Expect(err).NotTo(HaveOccurred())
	intClass, err := env.session.adapted.IntClass(classID)
	Expect(err).NotTo(HaveOccurred())

	protoID, err := intClass.AddProto(templates.IntProto{})
	Expect(err).NotTo(HaveOccurred())
	configID, err := intClass.AddConfig()
	Expect(err).NotTo(HaveOccurred())
	intClass.SetConfigProtos(configID, env.session.masks.AllProtosOn)

	Expect(class.AppendConfig(&templates.PermConfig{Font: fontID, Ambigs: ambigIDs})).To(Equal(configID))
	class.PermConfigs().Set(configID)
	class.PermProtos().Set(protoID)
	class.NumPermConfigs = 1
	env.session.adapted.NumPermClasses++
	env.session.adapted.NumNonEmptyClasses++
	return intClass
}

var _ = Describe("Adaptive match pass policy", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv(GinkgoT())
	})

	Context("with no permanent adapted classes", func() {
		It("runs only the pre-trained charnorm pass", func() {
			pretrainedA, err := env.session.pretrained.Ints.Class(idA)
			Expect(err).NotTo(HaveOccurred())
			env.matcher.results[pretrainedA] = matcher.Result{Rating: 0.0, Config: 0, Config2: -1}
			env.pruner.candidates = []matcher.CPResult{{ClassID: idA}}

			choices := env.session.Classify(testBlob())

			stats := env.session.Stats()
			Expect(stats.CharNormClassifierCalls).To(Equal(1))
			Expect(stats.BaselineClassifierCalls).To(BeZero())
			Expect(stats.AmbigClassifierCalls).To(BeZero())
			Expect(choices).To(HaveLen(1))
			Expect(choices[0].ClassID).To(Equal(idA))
			Expect(choices[0].Adapted).To(BeFalse())
		})
	})

	Context("with a permanent adapted class", func() {
		var intClassA *templates.IntClass

		BeforeEach(func() {
			intClassA = warmSetup(env, idA, 2, nil)
			env.pruner.candidates = []matcher.CPResult{{ClassID: idA}}
		})

		It("stops after the baseline pass on a great match", func() {
			env.matcher.results[intClassA] = matcher.Result{Rating: 0.0, Config: 0, Config2: -1}

			choices := env.session.Classify(testBlob())

			stats := env.session.Stats()
			Expect(stats.BaselineClassifierCalls).To(Equal(1))
			Expect(stats.CharNormClassifierCalls).To(BeZero())
			Expect(stats.AmbigClassifierCalls).To(BeZero())
			Expect(choices).To(HaveLen(1))
			Expect(choices[0].ClassID).To(Equal(idA))
			Expect(choices[0].Adapted).To(BeTrue())
			Expect(choices[0].FontID).To(Equal(2))
		})

		It("falls through to charnorm on a marginal baseline match", func() {
			env.matcher.results[intClassA] = matcher.Result{Rating: 0.1, Config: 0, Config2: -1}

			env.session.Classify(testBlob())

			stats := env.session.Stats()
			Expect(stats.BaselineClassifierCalls).To(Equal(1))
			Expect(stats.CharNormClassifierCalls).To(Equal(1))
		})

		It("never escalates past baseline when forced to baseline only", func() {
			env.cfg.Classify.BaselineOnly = true
			env.matcher.results[intClassA] = matcher.Result{Rating: 0.1, Config: 0, Config2: -1}

			env.session.Classify(testBlob())

			stats := env.session.Stats()
			Expect(stats.BaselineClassifierCalls).To(Equal(1))
			Expect(stats.CharNormClassifierCalls).To(BeZero())
		})
	})

	Context("when the winning config carries an ambiguity list", func() {
		It("verifies exactly the listed classes against the pre-trained set", func() {
			intClassA := warmSetup(env, idA, 2, []int{idB})
			env.matcher.results[intClassA] = matcher.Result{Rating: 0.0, Config: 0, Config2: -1}
			pretrainedB, err := env.session.pretrained.Ints.Class(idB)
			Expect(err).NotTo(HaveOccurred())
			env.matcher.results[pretrainedB] = matcher.Result{Rating: 0.05, Config: 0, Config2: -1}
			env.pruner.candidates = []matcher.CPResult{{ClassID: idA}}

			choices := env.session.Classify(testBlob())

			stats := env.session.Stats()
			Expect(stats.AmbigClassifierCalls).To(Equal(1))
			Expect(stats.AmbigClassesTried).To(Equal(1))
			Expect(stats.CharNormClassifierCalls).To(BeZero())
			Expect(choices).To(HaveLen(2))
			Expect(choices[0].ClassID).To(Equal(idA))
			Expect(choices[1].ClassID).To(Equal(idB))
			Expect(choices[1].Adapted).To(BeFalse())
		})
	})

	Context("when no class matches at all", func() {
		It("terminates with a single noise candidate rated by blob size", func() {
			env.pruner.candidates = nil

			choices := env.session.Classify(testBlob())

			Expect(choices).To(HaveLen(1))
			Expect(choices[0].ClassID).To(Equal(NoClass))
			// BlobLength 12 over noise size 12: r=1, rating r²/(1+r²)=0.5,
			// then the usual output scaling.
			Expect(choices[0].Rating).To(BeNumerically("~", 9.0, 1e-4))
			Expect(choices[0].Certainty).To(BeNumerically("~", -10.0, 1e-4))
		})
	})
})

var _ = Describe("LooksLikeGarbage", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv(GinkgoT())
	})

	It("reports garbage when only the noise candidate remains", func() {
		env.pruner.candidates = nil
		Expect(env.session.LooksLikeGarbage(testBlob())).To(BeTrue())
	})

	It("accepts a blob with a confident whole-character match", func() {
		pretrainedA, err := env.session.pretrained.Ints.Class(idA)
		Expect(err).NotTo(HaveOccurred())
		env.matcher.results[pretrainedA] = matcher.Result{Rating: 0.0, Config: 0, Config2: -1}
		env.pruner.candidates = []matcher.CPResult{{ClassID: idA}}

		Expect(env.session.LooksLikeGarbage(testBlob())).To(BeFalse())
	})
})
