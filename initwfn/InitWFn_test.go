package initwfn_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/racingline/initwfn"
)

func TestHeNStdDev(t *testing.T) {
	init, err := initwfn.NewHeN(1.0)
	if err != nil {
		t.Fatal(err)
	}

	const fanIn, fanOut = 50, 400
	weights := mat.NewDense(fanIn, fanOut, nil)
	init.Init(rand.New(rand.NewPCG(7, 8)), weights)

	mean, std := stat.MeanStdDev(weights.RawMatrix().Data, nil)
	want := math.Sqrt(2.0 / fanIn)
	if math.Abs(mean) > 0.01 {
		t.Errorf("mean: want(≈0) have(%v)", mean)
	}
	if math.Abs(std-want)/want > 0.05 {
		t.Errorf("std: want(≈%v) have(%v)", want, std)
	}
}

func TestUniformBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	inits := map[string]func() (*initwfn.InitWFn, error){
		"Uniform": func() (*initwfn.InitWFn, error) {
			return initwfn.NewUniform(-0.5, 0.25)
		},
		"HeU":     func() (*initwfn.InitWFn, error) { return initwfn.NewHeU(1) },
		"GlorotU": func() (*initwfn.InitWFn, error) { return initwfn.NewGlorotU(1) },
	}
	limits := map[string][2]float64{
		"Uniform": {-0.5, 0.25},
		"HeU":     {-math.Sqrt(6.0 / 10), math.Sqrt(6.0 / 10)},
		"GlorotU": {-math.Sqrt(6.0 / 30), math.Sqrt(6.0 / 30)},
	}

	for name, create := range inits {
		init, err := create()
		if err != nil {
			t.Fatal(err)
		}
		weights := mat.NewDense(10, 20, nil)
		init.Init(rng, weights)

		for _, w := range weights.RawMatrix().Data {
			if w < limits[name][0] || w > limits[name][1] {
				t.Errorf("%v: weight %v outside %v", name, w, limits[name])
			}
		}
	}
}

func TestConstant(t *testing.T) {
	tests := []struct {
		create func() (*initwfn.InitWFn, error)
		want   float64
	}{
		{initwfn.NewZeroes, 0},
		{initwfn.NewOnes, 1},
		{func() (*initwfn.InitWFn, error) { return initwfn.NewConstant(-2.5) },
			-2.5},
	}

	for _, test := range tests {
		init, err := test.create()
		if err != nil {
			t.Fatal(err)
		}
		weights := mat.NewDense(3, 4, nil)
		init.Init(nil, weights)

		for _, w := range weights.RawMatrix().Data {
			if w != test.want {
				t.Errorf("%v: want(%v) have(%v)", init.Type, test.want, w)
			}
		}
	}
}

func TestInvalid(t *testing.T) {
	if _, err := initwfn.NewHeN(0); err == nil {
		t.Error("expected an error for a zero gain")
	}
	if _, err := initwfn.NewGaussian(0, -1); err == nil {
		t.Error("expected an error for a negative standard deviation")
	}
	if _, err := initwfn.NewUniform(1, 0); err == nil {
		t.Error("expected an error for an empty interval")
	}
	if _, err := initwfn.NewConstant(math.NaN()); err == nil {
		t.Error("expected an error for a NaN constant")
	}
}

func TestYAML(t *testing.T) {
	gaussian, err := initwfn.NewGaussian(0.5, 2)
	if err != nil {
		t.Fatal(err)
	}
	zeroes, err := initwfn.NewZeroes()
	if err != nil {
		t.Fatal(err)
	}

	for _, init := range []*initwfn.InitWFn{gaussian, zeroes} {
		data, err := yaml.Marshal(init)
		if err != nil {
			t.Fatal(err)
		}

		var decoded initwfn.InitWFn
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("%v: %v", init.Type, err)
		}
		if decoded.Type != init.Type {
			t.Errorf("type: want(%v) have(%v)", init.Type, decoded.Type)
		}
		if diff := cmp.Diff(init.Config, decoded.Config); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
		if decoded.InitWFn() == nil {
			t.Error("decoded InitWFn has no function")
		}
	}

	data := []byte("type: HeN\nconfig: {gain: 2}\n")
	var decoded initwfn.InitWFn
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(initwfn.HeNConfig{Gain: 2}, decoded.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if err := yaml.Unmarshal([]byte("type: Orthogonal\n"),
		&decoded); err == nil {
		t.Error("expected an error for an unknown type")
	}
}
