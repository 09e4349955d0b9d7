package service

import (
	"os"
	"testing"

	"aura/config"
)

func TestMain(m *testing.M) {
	// Set up test config once for all tests
	config.SetTestConfig(config.NewTestConfig())

	code := m.Run()
	os.Exit(code)
}

// scriptedRand feeds predetermined draws to game logic so outcomes are
// exact. It panics when a script runs dry or a draw is out of range, which
// catches tests scripting the wrong sequence.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		panic("scriptedRand: out of ints")
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		panic("scriptedRand: scripted int out of range")
	}
	return v
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		panic("scriptedRand: out of floats")
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}
