package force

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkleist/shearmd/internal/box"
	"github.com/jkleist/shearmd/internal/md"
)

func TestHessianIsolatedPair(t *testing.T) {
	const (
		side = 10.0
		dist = 1.2
		rCut = 2.5
	)
	e, err := NewEngine([]float64{rCut}, 0.3)
	require.NoError(t, err)

	b := &box.State{Side: side}
	r := []md.Vec{{0, 0, 0}, {dist / side, 0, 0}}
	field := NewField(2, 1)
	_, err = e.Evaluate(r, b, field)
	require.NoError(t, err)

	// expected quadratic forms for a pair aligned on x
	f := field.Shell(1)
	df := f[0].Sub(f[1])
	d := md.Vec{-dist, 0, 0}
	rf := d.Dot(df)

	sr2 := 1.0 / (dist * dist)
	sr6 := sr2 * sr2 * sr2
	sr8 := sr6 * sr2
	sr10 := sr8 * sr2
	v1 := 24.0 * (1.0 - 2.0*sr6) * sr8
	v2 := 96.0 * (7.0*sr6 - 2.0) * sr10
	want := v1*df.Norm2() + v2*rf*rf

	got := Hessian(r, field, b, rCut)
	assert.InDelta(t, want, got, 1e-9)
	assert.NotZero(t, got)
}

func TestHessianBeyondCutoff(t *testing.T) {
	e, err := NewEngine([]float64{3.0}, 0.3)
	require.NoError(t, err)

	b := &box.State{Side: 10.0}
	r := []md.Vec{{0, 0, 0}, {0.28, 0, 0}} // 2.8 sigma apart
	field := NewField(2, 1)
	_, err = e.Evaluate(r, b, field)
	require.NoError(t, err)

	// forces exist out to 3.0 but the estimator is asked for 2.5
	assert.Zero(t, Hessian(r, field, b, 2.5))
}

func TestHessianUsesShellSum(t *testing.T) {
	const side = 10.0
	b := &box.State{Side: side}
	// 1.6 sigma: inside the switch zone shared by the two shells
	r := []md.Vec{{0, 0, 0}, {0.16, 0, 0}}

	multi, err := NewEngine([]float64{1.8, 2.5}, 0.3)
	require.NoError(t, err)
	single, err := NewEngine([]float64{2.5}, 0.0)
	require.NoError(t, err)

	multiField := NewField(2, 2)
	_, err = multi.Evaluate(r, b, multiField)
	require.NoError(t, err)
	singleField := NewField(2, 1)
	_, err = single.Evaluate(r, b, singleField)
	require.NoError(t, err)

	// shell-summed forces telescope, so the estimates must agree
	assert.InDelta(t,
		Hessian(r, singleField, b, 2.5),
		Hessian(r, multiField, b, 2.5), 1e-9)
}
