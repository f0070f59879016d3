// Package network implements small feed forward neural networks with
// hand-written forward and backward passes
package network

import "gonum.org/v1/gonum/mat"

// NeuralNet is a function approximator that predicts one value per
// output head and is trained one head at a time
type NeuralNet interface {
	Features() int
	Outputs() int
	Predict(x mat.Vector) *mat.VecDense
	Train(x mat.Vector, head int, target, learningRate float64)
}
