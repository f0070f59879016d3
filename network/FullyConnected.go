package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network. Weights are stored inputs × outputs.
type fcLayer struct {
	weights *mat.Dense
	bias    *mat.VecDense
	act     *Activation
}

func newFCLayer(inputs, outputs int, act *Activation) *fcLayer {
	return &fcLayer{
		weights: mat.NewDense(inputs, outputs, nil),
		bias:    mat.NewVecDense(outputs, nil),
		act:     act,
	}
}

// fwd computes the forward pass of the layer, returning both the
// pre-activations and the activations
func (f *fcLayer) fwd(x mat.Vector) (pre, out *mat.VecDense) {
	_, outputs := f.weights.Dims()

	pre = mat.NewVecDense(outputs, nil)
	pre.MulVec(f.weights.T(), x)
	pre.AddVec(pre, f.bias)

	out = mat.NewVecDense(outputs, nil)
	for i := 0; i < outputs; i++ {
		out.SetVec(i, f.act.fwd(pre.AtVec(i)))
	}
	return pre, out
}

// clone returns a deep copy of the layer
func (f *fcLayer) clone() *fcLayer {
	return &fcLayer{
		weights: mat.DenseCopyOf(f.weights),
		bias:    mat.VecDenseCopyOf(f.bias),
		act:     f.act,
	}
}

// set copies the weights of other into f
func (f *fcLayer) set(other *fcLayer) error {
	r, c := f.weights.Dims()
	otherR, otherC := other.weights.Dims()
	if r != otherR || c != otherC {
		return fmt.Errorf("set: layer shapes differ\n\twant(%v×%v)\n\t"+
			"have(%v×%v)", r, c, otherR, otherC)
	}
	if f.act.activationType != other.act.activationType {
		return fmt.Errorf("set: activations differ\n\twant(%v)\n\thave(%v)",
			f.act, other.act)
	}

	f.weights.Copy(other.weights)
	f.bias.CopyVec(other.bias)
	return nil
}

func (f *fcLayer) Activation() *Activation {
	return f.act
}

func (f *fcLayer) Bias() *mat.VecDense {
	return f.bias
}

func (f *fcLayer) Weights() *mat.Dense {
	return f.weights
}
