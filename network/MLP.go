package network

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/racingline/initwfn"
)

// MLP implements a multi-layered perceptron with a single ReLU hidden
// layer and a linear output layer with one output head per predicted
// value:
//
//	q = W2ᵀ relu(W1ᵀ x + b1) + b2
//
// Weights are drawn from the weight initializer at construction and
// biases start at zero. MLP is not safe for concurrent use.
type MLP struct {
	hidden *fcLayer
	output *fcLayer
}

// NewMLP creates and returns a new MLP with the given number of input
// features, hidden units, and output heads. The init parameter
// determines the weight initialization scheme; if nil, He normal
// initialization with unit gain is used.
func NewMLP(features, hidden, outputs int, init *initwfn.InitWFn,
	rng *rand.Rand) (*MLP, error) {
	if features <= 0 || hidden <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("newMLP: layer sizes must be positive\n\t"+
			"have(features=%v, hidden=%v, outputs=%v)", features, hidden,
			outputs)
	}
	if rng == nil {
		return nil, fmt.Errorf("newMLP: nil random number generator")
	}

	if init == nil {
		var err error
		if init, err = initwfn.NewHeN(1.0); err != nil {
			return nil, fmt.Errorf("newMLP: %w", err)
		}
	}

	net := &MLP{
		hidden: newFCLayer(features, hidden, ReLU()),
		output: newFCLayer(hidden, outputs, Identity()),
	}
	init.Init(rng, net.hidden.weights)
	init.Init(rng, net.output.weights)

	return net, nil
}

// Features returns the number of input features
func (m *MLP) Features() int {
	r, _ := m.hidden.weights.Dims()
	return r
}

// Hidden returns the number of hidden units
func (m *MLP) Hidden() int {
	_, c := m.hidden.weights.Dims()
	return c
}

// Outputs returns the number of output heads
func (m *MLP) Outputs() int {
	_, c := m.output.weights.Dims()
	return c
}

// Predict returns the output of the network for input x. Predict does
// not modify the network. It panics if x does not have Features()
// elements.
func (m *MLP) Predict(x mat.Vector) *mat.VecDense {
	_, h := m.hidden.fwd(x)
	_, out := m.output.fwd(h)
	return out
}

// Train takes one stochastic gradient descent step on the squared
// error ½(q[head] - target)² for input x.
//
// Only the weights into the output head and its bias change in the
// output layer, and they change first. The error is then propagated
// through the updated output weights of that head, gated by the ReLU
// derivative, to update every weight and bias of the hidden layer.
func (m *MLP) Train(x mat.Vector, head int, target, learningRate float64) {
	if head < 0 || head >= m.Outputs() {
		panic(fmt.Sprintf("train: output head %v out of range [0, %v)",
			head, m.Outputs()))
	}

	hiddenPre, h := m.hidden.fwd(x)
	_, q := m.output.fwd(h)

	δ := q.AtVec(head) - target

	// Output layer, head column only
	for j := 0; j < m.Hidden(); j++ {
		w := m.output.weights.At(j, head)
		m.output.weights.Set(j, head, w-learningRate*δ*h.AtVec(j))
	}
	b := m.output.bias.AtVec(head)
	m.output.bias.SetVec(head, b-learningRate*δ)

	// Backpropagate to the hidden layer through the updated weights of
	// the output head
	hiddenErr := mat.NewVecDense(m.Hidden(), nil)
	for j := 0; j < m.Hidden(); j++ {
		g := δ * m.output.weights.At(j, head) *
			m.hidden.act.grad(hiddenPre.AtVec(j))
		hiddenErr.SetVec(j, g)
	}

	// Hidden layer: W1 -= lr · x ⊗ hiddenErr
	m.hidden.weights.RankOne(m.hidden.weights, -learningRate, x, hiddenErr)
	m.hidden.bias.AddScaledVec(m.hidden.bias, -learningRate, hiddenErr)
}

// CopyFrom sets the weights of the network to a deep copy of the
// weights of src. The networks share no storage afterwards.
func (m *MLP) CopyFrom(src *MLP) error {
	if err := m.hidden.set(src.hidden); err != nil {
		return fmt.Errorf("copyFrom: hidden layer: %w", err)
	}
	if err := m.output.set(src.output); err != nil {
		return fmt.Errorf("copyFrom: output layer: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the network
func (m *MLP) Clone() *MLP {
	return &MLP{
		hidden: m.hidden.clone(),
		output: m.output.clone(),
	}
}

// Weights returns copies of the hidden layer weights and biases and
// the output layer weights and biases
func (m *MLP) Weights() (w1 *mat.Dense, b1 *mat.VecDense, w2 *mat.Dense,
	b2 *mat.VecDense) {
	return mat.DenseCopyOf(m.hidden.Weights()),
		mat.VecDenseCopyOf(m.hidden.Bias()),
		mat.DenseCopyOf(m.output.Weights()),
		mat.VecDenseCopyOf(m.output.Bias())
}

// String returns a string representation of the network
func (m *MLP) String() string {
	return fmt.Sprintf("MLP  |  %v → %v (%v) → %v", m.Features(), m.Hidden(),
		m.hidden.Activation(), m.Outputs())
}
