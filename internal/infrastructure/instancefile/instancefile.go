// Package instancefile reads and writes the plain-text exchange format for
// wave-selection instances and solutions.
//
// An instance file carries a header "numOrders numItems numAisles", one
// line per order and per aisle of the form "k item qty item qty ..." with
// k item-quantity pairs, and a trailer "lowerBound upperBound". A solution
// file lists the selected order count and indices followed by the visited
// aisle count and indices.
package instancefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
)

// Read parses an instance from its text representation
func Read(r io.Reader) (*domain.Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	numOrders, err := nextCount(sc, "order count")
	if err != nil {
		return nil, err
	}
	numItems, err := nextCount(sc, "item count")
	if err != nil {
		return nil, err
	}
	numAisles, err := nextCount(sc, "aisle count")
	if err != nil {
		return nil, err
	}

	orders, err := readMappings(sc, numOrders, "order")
	if err != nil {
		return nil, err
	}
	aisles, err := readMappings(sc, numAisles, "aisle")
	if err != nil {
		return nil, err
	}

	lower, err := nextInt64(sc, "lower bound")
	if err != nil {
		return nil, err
	}
	upper, err := nextInt64(sc, "upper bound")
	if err != nil {
		return nil, err
	}

	return domain.NewInstance(orders, aisles, numItems, lower, upper)
}

// ReadFile parses an instance file
func ReadFile(path string) (*domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instance file: %w", err)
	}
	defer f.Close()

	inst, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

func readMappings(sc *bufio.Scanner, n int, kind string) ([]map[int]int64, error) {
	mappings := make([]map[int]int64, n)
	for i := 0; i < n; i++ {
		pairs, err := nextCount(sc, fmt.Sprintf("%s %d pair count", kind, i))
		if err != nil {
			return nil, err
		}

		m := make(map[int]int64, pairs)
		for p := 0; p < pairs; p++ {
			item, err := nextInt(sc, fmt.Sprintf("%s %d item index", kind, i))
			if err != nil {
				return nil, err
			}
			qty, err := nextInt64(sc, fmt.Sprintf("%s %d quantity", kind, i))
			if err != nil {
				return nil, err
			}
			m[item] += qty
		}
		mappings[i] = m
	}
	return mappings, nil
}

func nextInt(sc *bufio.Scanner, what string) (int, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("unexpected end of input reading %s", what)
	}
	v, err := strconv.Atoi(sc.Text())
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, sc.Text())
	}
	return v, nil
}

// nextCount reads a token that sizes an allocation, so it must not be
// negative.
func nextCount(sc *bufio.Scanner, what string) (int, error) {
	v, err := nextInt(sc, what)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative %s %d", what, v)
	}
	return v, nil
}

func nextInt64(sc *bufio.Scanner, what string) (int64, error) {
	v, err := nextInt(sc, what)
	return int64(v), err
}

// Write renders an instance in its text representation. Item pairs are
// written in ascending item order so output is deterministic.
func Write(w io.Writer, inst *domain.Instance) error {
	bw := bufio.NewWriter(w)

	lower, upper := inst.Bounds()
	fmt.Fprintf(bw, "%d %d %d\n", inst.NumOrders(), inst.NumItems(), inst.NumAisles())

	for i := 0; i < inst.NumOrders(); i++ {
		writeMapping(bw, inst.OrderItems(i), inst.NumItems())
	}
	for j := 0; j < inst.NumAisles(); j++ {
		writeMapping(bw, inst.AisleItems(j), inst.NumItems())
	}

	fmt.Fprintf(bw, "%d %d\n", lower, upper)
	return bw.Flush()
}

func writeMapping(bw *bufio.Writer, m map[int]int64, items int) {
	fmt.Fprintf(bw, "%d", len(m))
	for item := 0; item < items; item++ {
		if qty, ok := m[item]; ok {
			fmt.Fprintf(bw, " %d %d", item, qty)
		}
	}
	fmt.Fprintln(bw)
}

// WriteSolution renders a wave solution in its text representation
func WriteSolution(w io.Writer, s domain.WaveSolution) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d\n", len(s.Orders))
	for _, i := range s.Orders {
		fmt.Fprintf(bw, "%d\n", i)
	}
	fmt.Fprintf(bw, "%d\n", len(s.Aisles))
	for _, j := range s.Aisles {
		fmt.Fprintf(bw, "%d\n", j)
	}

	return bw.Flush()
}

// WriteSolutionFile renders a wave solution to a file
func WriteSolutionFile(path string, s domain.WaveSolution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create solution file: %w", err)
	}
	defer f.Close()

	return WriteSolution(f, s)
}
