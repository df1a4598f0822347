// Package stats accumulates named scalar observables into fixed-size
// blocks and reports block-averaged means and standard errors. The
// core only supplies values; all averaging lives here.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Collector gathers one sample per observable per step and closes a
// block every blockSize samples. Run statistics are computed over the
// closed block means, which decorrelates consecutive steps.
type Collector struct {
	names     []string
	index     map[string]int
	blockSize int

	current [][]float64 // open block, per variable
	blocks  [][]float64 // closed block means, per variable
}

func New(blockSize int, names ...string) *Collector {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	c := &Collector{
		names:     append([]string(nil), names...),
		index:     index,
		blockSize: blockSize,
		current:   make([][]float64, len(names)),
		blocks:    make([][]float64, len(names)),
	}
	for i := range c.current {
		c.current[i] = make([]float64, 0, blockSize)
	}
	return c
}

func (c *Collector) Names() []string { return c.names }

// Observe records one sample per variable, in declaration order.
func (c *Collector) Observe(values ...float64) error {
	if len(values) != len(c.names) {
		return fmt.Errorf("stats: got %d values for %d variables", len(values), len(c.names))
	}
	for i, v := range values {
		c.current[i] = append(c.current[i], v)
		if len(c.current[i]) == c.blockSize {
			c.blocks[i] = append(c.blocks[i], stat.Mean(c.current[i], nil))
			c.current[i] = c.current[i][:0]
		}
	}
	return nil
}

// Blocks is the number of closed blocks.
func (c *Collector) Blocks() int {
	if len(c.blocks) == 0 {
		return 0
	}
	return len(c.blocks[0])
}

// Mean is the mean of the closed block means for one variable.
func (c *Collector) Mean(name string) float64 {
	i, ok := c.index[name]
	if !ok || len(c.blocks[i]) == 0 {
		return math.NaN()
	}
	return stat.Mean(c.blocks[i], nil)
}

// StdErr is the standard error of the block means.
func (c *Collector) StdErr(name string) float64 {
	i, ok := c.index[name]
	if !ok || len(c.blocks[i]) < 2 {
		return math.NaN()
	}
	return stat.StdDev(c.blocks[i], nil) / math.Sqrt(float64(len(c.blocks[i])))
}

// BlockMeans returns a copy of the closed block means for one variable.
func (c *Collector) BlockMeans(name string) []float64 {
	i, ok := c.index[name]
	if !ok {
		return nil
	}
	return append([]float64(nil), c.blocks[i]...)
}

// Summary returns means and standard errors keyed by variable name.
func (c *Collector) Summary() (means, errs map[string]float64) {
	means = make(map[string]float64, len(c.names))
	errs = make(map[string]float64, len(c.names))
	for _, n := range c.names {
		means[n] = c.Mean(n)
		errs[n] = c.StdErr(n)
	}
	return means, errs
}
