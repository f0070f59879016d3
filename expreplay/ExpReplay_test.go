package expreplay_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/racingline/expreplay"
	ts "github.com/samuelfneumann/racingline/timestep"
)

const features = 2

func transition(i int) ts.Transition {
	return ts.Transition{
		State:     mat.NewVecDense(features, []float64{float64(i), 0}),
		Action:    i % 3,
		Reward:    float64(i),
		NextState: mat.NewVecDense(features, []float64{float64(i + 1), 0}),
		Done:      i%2 == 0,
	}
}

func rewards(batch []ts.Transition) []float64 {
	out := make([]float64, len(batch))
	for i, t := range batch {
		out[i] = t.Reward
	}
	return out
}

func TestNewInvalid(t *testing.T) {
	sampler := expreplay.NewUniformSelector(4, 1)

	tests := []struct {
		name                  string
		sampler               expreplay.Selector
		min, max, featureSize int
	}{
		{"nil sampler", nil, 1, 10, features},
		{"zero min", sampler, 0, 10, features},
		{"zero max", sampler, 1, 0, features},
		{"min above max", sampler, 11, 10, features},
		{"batch above max", sampler, 1, 3, features},
		{"zero features", sampler, 1, 10, 0},
		{"zero batch", expreplay.NewUniformSelector(0, 1), 1, 10, features},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := expreplay.New(test.sampler, test.min, test.max,
				test.featureSize)
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCapacityAndEviction(t *testing.T) {
	const capacity = 3
	buffer, err := expreplay.New(expreplay.NewFifoSelector(capacity), 1,
		capacity, features)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		if err := buffer.Add(transition(i)); err != nil {
			t.Fatal(err)
		}
		if buffer.Capacity() > capacity {
			t.Fatalf("buffer size %v exceeds capacity %v", buffer.Capacity(),
				capacity)
		}

		// After capacity+1 insertions
		if i == capacity {
			batch, err := buffer.Sample()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]float64{1, 2, 3}, rewards(batch)); diff != "" {
				t.Errorf("oldest should be evicted (-want +got):\n%s", diff)
			}
		}
	}

	batch, err := buffer.Sample()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{7, 8, 9}, rewards(batch)); diff != "" {
		t.Errorf("insertion order (-want +got):\n%s", diff)
	}
}

func TestUniformSample(t *testing.T) {
	const capacity = 5
	buffer, err := expreplay.New(expreplay.NewUniformSelector(4, 42), 4,
		capacity, features)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i <= capacity; i++ {
		if err := buffer.Add(transition(i)); err != nil {
			t.Fatal(err)
		}
	}

	seen := map[float64]int{}
	for i := 0; i < 500; i++ {
		batch, err := buffer.Sample()
		if err != nil {
			t.Fatal(err)
		}
		if len(batch) != buffer.BatchSize() {
			t.Fatalf("batch size: want(%v) have(%v)", buffer.BatchSize(),
				len(batch))
		}
		for _, tr := range batch {
			seen[tr.Reward]++
		}
	}

	if seen[0] != 0 {
		t.Error("evicted transition was sampled")
	}
	for i := 1; i <= capacity; i++ {
		if seen[float64(i)] == 0 {
			t.Errorf("transition %v was never sampled", i)
		}
	}
}

func TestSampleCopies(t *testing.T) {
	buffer, err := expreplay.New(expreplay.NewFifoSelector(1), 1, 4, features)
	if err != nil {
		t.Fatal(err)
	}

	in := transition(5)
	if err := buffer.Add(in); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's vectors does not reach the buffer
	in.State.SetVec(0, -100)

	batch, _ := buffer.Sample()
	got := batch[0]
	if got.State.AtVec(0) != 5 || got.NextState.AtVec(0) != 6 {
		t.Errorf("stored states changed: %v, %v", got.State, got.NextState)
	}
	if got.Action != 2 || got.Reward != 5 || got.Done {
		t.Errorf("transition mismatch: have(%+v)", got)
	}

	// Nor does mutating a sampled transition
	got.NextState.SetVec(0, -100)
	batch, _ = buffer.Sample()
	if batch[0].NextState.AtVec(0) != 6 {
		t.Error("sampled transitions share storage with the buffer")
	}
}

func TestSampleErrors(t *testing.T) {
	buffer, err := expreplay.New(expreplay.NewUniformSelector(2, 1), 3, 10,
		features)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := buffer.Sample(); !expreplay.IsEmptyBuffer(err) {
		t.Errorf("want empty buffer error, have(%v)", err)
	}

	buffer.Add(transition(0))
	buffer.Add(transition(1))
	_, err = buffer.Sample()
	if !expreplay.IsInsufficientSamples(err) {
		t.Errorf("want insufficient samples error, have(%v)", err)
	}
	if expreplay.IsEmptyBuffer(err) {
		t.Error("buffer is not empty")
	}

	if err := buffer.Add(ts.Transition{
		State:     mat.NewVecDense(3, nil),
		NextState: mat.NewVecDense(3, nil),
	}); err == nil {
		t.Error("expected an error for the wrong feature size")
	}
}

func TestConfigCreate(t *testing.T) {
	c := expreplay.Config{
		SampleMethod:      expreplay.Uniform,
		BatchSize:         32,
		MinReplayCapacity: 32,
		MaxReplayCapacity: 2000,
	}
	buffer, err := c.Create(5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if buffer.BatchSize() != 32 || buffer.MaxCapacity() != 2000 ||
		buffer.MinCapacity() != 32 {
		t.Errorf("buffer does not match config %+v", c)
	}

	c.SampleMethod = "Prioritized"
	if _, err := c.Create(5, 0); err == nil {
		t.Error("expected an error for an unknown sampler")
	}
}

func BenchmarkAdd(b *testing.B) {
	buffer, err := expreplay.New(expreplay.NewUniformSelector(32, 1), 32,
		2000, features)
	if err != nil {
		b.Fatal(err)
	}
	tr := transition(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buffer.Add(tr)
	}
}
