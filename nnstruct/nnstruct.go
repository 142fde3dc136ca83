// Package nnstruct predicts per-residue secondary structure from a
// normalized PSSM using a two-stage sliding-window feed-forward network,
// grounded on
// original_source/src/app/core/Services/NNStructureTool.cpp (the sliding
// window and stage wiring) and original_source/src/app/core/Services/NNStructureTool.h
// (the window and array size constants). The original tool drove its
// inference through a C FANN binding; this package keeps the same
// window/stage structure but runs each layer as a gonum matrix-vector
// product, since no FANN binding exists in the Go ecosystem this corpus
// reaches for.
package nnstruct

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lukeulrich/alignshop/grammar"
	"github.com/lukeulrich/alignshop/pssm"
	"github.com/lukeulrich/alignshop/q3"
	"gonum.org/v1/gonum/mat"
)

const (
	// WindowSize is the number of PSSM positions considered for each
	// prediction, centered on the position being predicted.
	WindowSize = 15
	// HalfWindow is WindowSize/2, the number of flanking positions on
	// either side of center.
	HalfWindow = WindowSize / 2

	pssmWidth = pssm.Width

	// stage1InputsPerRow is one normalized score per amino acid plus a
	// boundary flag marking positions that fall off either terminus.
	stage1InputsPerRow = pssmWidth + 1
	stage1InputSize    = stage1InputsPerRow * WindowSize

	nOutputs = 3

	// stage2InputsPerRow is one stage-1 output per class plus the same
	// boundary flag.
	stage2InputsPerRow = nOutputs + 1
	stage2InputSize    = stage2InputsPerRow * WindowSize
)

// Layer is one fully connected layer of a NeuralNet: an (outputs x inputs)
// weight matrix, a per-output bias, and a logistic sigmoid activation.
type Layer struct {
	Weights *mat.Dense
	Biases  *mat.VecDense
}

func (l Layer) run(input *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(l.Biases.Len(), nil)
	out.MulVec(l.Weights, input)
	out.AddVec(out, l.Biases)
	for i := 0; i < out.Len(); i++ {
		out.SetVec(i, sigmoid(out.AtVec(i)))
	}
	return out
}

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

// NeuralNet is a stack of fully connected layers run in sequence.
type NeuralNet struct {
	Layers []Layer
}

// NInputs returns the input width of the network's first layer, or 0 for
// an empty network.
func (n NeuralNet) NInputs() int {
	if len(n.Layers) == 0 {
		return 0
	}
	_, cols := n.Layers[0].Weights.Dims()
	return cols
}

// NOutputs returns the output width of the network's last layer, or 0 for
// an empty network.
func (n NeuralNet) NOutputs() int {
	if len(n.Layers) == 0 {
		return 0
	}
	rows, _ := n.Layers[len(n.Layers)-1].Weights.Dims()
	return rows
}

// Run feeds input through every layer in sequence and returns the final
// layer's output.
func (n NeuralNet) Run(input []float64) []float64 {
	v := mat.NewVecDense(len(input), append([]float64(nil), input...))
	for _, layer := range n.Layers {
		v = layer.run(v)
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// LoadNet reads a network from the line-oriented format:
//
//	layers: <n>
//	layer <inputs> <outputs>
//	<outputs lines of <inputs> space-separated weights>
//	bias <outputs space-separated biases>
//	... (repeated per layer)
func LoadNet(r io.Reader) (NeuralNet, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	nLayers, err := readKeyedInt(scanner, "layers:")
	if err != nil {
		return NeuralNet{}, err
	}

	net := NeuralNet{Layers: make([]Layer, 0, nLayers)}
	for l := 0; l < nLayers; l++ {
		if !scanner.Scan() {
			return NeuralNet{}, fmt.Errorf("nnstruct: missing layer %d header", l)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 || fields[0] != "layer" {
			return NeuralNet{}, fmt.Errorf("nnstruct: invalid layer %d header %q", l, scanner.Text())
		}
		inputs, err1 := strconv.Atoi(fields[1])
		outputs, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || inputs <= 0 || outputs <= 0 {
			return NeuralNet{}, fmt.Errorf("nnstruct: invalid layer %d dimensions %q", l, scanner.Text())
		}

		weights := make([]float64, 0, inputs*outputs)
		for row := 0; row < outputs; row++ {
			if !scanner.Scan() {
				return NeuralNet{}, fmt.Errorf("nnstruct: layer %d missing weight row %d", l, row)
			}
			values, err := parseFloats(scanner.Text(), inputs)
			if err != nil {
				return NeuralNet{}, fmt.Errorf("nnstruct: layer %d weight row %d: %w", l, row, err)
			}
			weights = append(weights, values...)
		}

		if !scanner.Scan() {
			return NeuralNet{}, fmt.Errorf("nnstruct: layer %d missing bias line", l)
		}
		biasFields := strings.Fields(scanner.Text())
		if len(biasFields) == 0 || biasFields[0] != "bias" {
			return NeuralNet{}, fmt.Errorf("nnstruct: layer %d missing bias line", l)
		}
		biases, err := parseFloats(strings.Join(biasFields[1:], " "), outputs)
		if err != nil {
			return NeuralNet{}, fmt.Errorf("nnstruct: layer %d biases: %w", l, err)
		}

		net.Layers = append(net.Layers, Layer{
			Weights: mat.NewDense(outputs, inputs, weights),
			Biases:  mat.NewVecDense(outputs, biases),
		})
	}
	if err := scanner.Err(); err != nil {
		return NeuralNet{}, fmt.Errorf("nnstruct: %w", err)
	}
	return net, nil
}

func readKeyedInt(scanner *bufio.Scanner, key string) (int, error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("nnstruct: missing %q line", key)
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 2 || fields[0] != key {
		return 0, fmt.Errorf("nnstruct: expected %q line, got %q", key, scanner.Text())
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("nnstruct: invalid %q value: %w", key, err)
	}
	return n, nil
}

func parseFloats(line string, want int) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d values, got %d", want, len(fields))
	}
	out := make([]float64, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", f)
		}
		out[i] = v
	}
	return out, nil
}

// Tool runs the two-stage sliding window prediction described by
// NNStructureTool.cpp: Stage1 classifies a 15-residue window of normalized
// PSSM scores, then Stage2 classifies a 15-position window of Stage1's own
// outputs.
type Tool struct {
	stage1 NeuralNet
	stage2 NeuralNet
}

// NewTool builds a Tool from its two stage networks.
func NewTool(stage1, stage2 NeuralNet) (*Tool, error) {
	if stage1.NInputs() != stage1InputSize {
		return nil, fmt.Errorf("nnstruct: stage1 network expects %d inputs, got %d", stage1InputSize, stage1.NInputs())
	}
	if stage2.NOutputs() != nOutputs {
		return nil, fmt.Errorf("nnstruct: stage2 network expects %d outputs, got %d", nOutputs, stage2.NOutputs())
	}
	return &Tool{stage1: stage1, stage2: stage2}, nil
}

// WindowSize returns the sliding window width used by this Tool.
func (t *Tool) WindowSize() int { return WindowSize }

// Predict runs the two-stage sliding window procedure over np and returns
// one Q3 call and confidence value per PSSM row. An empty np predicts an
// empty Prediction.
func (t *Tool) Predict(np pssm.NormalizedPssm) (q3.Prediction, error) {
	length := len(np.Rows)
	if length == 0 {
		return q3.Prediction{}, nil
	}

	scoreMap, err := buildScoreMap(np.Mapping)
	if err != nil {
		return q3.Prediction{}, err
	}

	stage1Outputs := make([][]float64, length)
	stage1Inputs := make([]float64, stage1InputSize)

	// Prime the window: the first HalfWindow+1 row-slots are off the left
	// edge, so mark their boundary flag and leave their scores at zero.
	for i := 0; i < HalfWindow+1; i++ {
		stage1Inputs[i*stage1InputsPerRow+pssmWidth] = 1
	}
	for i := 0; i <= HalfWindow-1 && i < length; i++ {
		writeStage1Row(stage1Inputs, HalfWindow+1+i, np.Rows[i], scoreMap)
	}

	for i := 0; i < length; i++ {
		copy(stage1Inputs, stage1Inputs[stage1InputsPerRow:])
		lastRowStart := stage1InputSize - stage1InputsPerRow
		column := i + HalfWindow
		if column < length {
			writeStage1Row(stage1Inputs, lastRowStart/stage1InputsPerRow, np.Rows[column], scoreMap)
		} else {
			for j := 0; j < stage1InputsPerRow; j++ {
				stage1Inputs[lastRowStart+j] = 0
			}
			stage1Inputs[lastRowStart+pssmWidth] = 1
		}
		stage1Outputs[i] = t.stage1.Run(stage1Inputs)
	}

	prediction := q3.Prediction{
		Q3:         make([]byte, length),
		Confidence: make([]float64, length),
	}

	stage2Inputs := make([]float64, stage2InputSize)
	for i := 0; i < HalfWindow+1; i++ {
		stage2Inputs[i*stage2InputsPerRow+nOutputs] = 1
	}
	for i := 0; i <= HalfWindow-1 && i < length; i++ {
		writeStage2Row(stage2Inputs, HalfWindow+1+i, stage1Outputs[i])
	}

	for i := 0; i < length; i++ {
		copy(stage2Inputs, stage2Inputs[stage2InputsPerRow:])
		lastRowStart := stage2InputSize - stage2InputsPerRow
		column := i + HalfWindow
		if column < length {
			writeStage2Row(stage2Inputs, lastRowStart/stage2InputsPerRow, stage1Outputs[column])
		} else {
			for j := 0; j < stage2InputsPerRow; j++ {
				stage2Inputs[lastRowStart+j] = 0
			}
			stage2Inputs[lastRowStart+nOutputs] = 1
		}
		result := t.stage2.Run(stage2Inputs)

		ssChar := byte(q3.Loop)
		max := result[0]
		if result[1] > max {
			ssChar = q3.Helix
			max = result[1]
		}
		if result[2] > max {
			ssChar = q3.Strand
			max = result[2]
		}
		prediction.Q3[i] = ssChar
		prediction.Confidence[i] = max
	}

	return prediction, nil
}

// buildScoreMap returns, for each alphabetically ordered canonical amino
// acid, the index of its score within a NormalizedPssm row using mapping's
// column order.
func buildScoreMap(mapping [pssm.Width]byte) ([pssmWidth]int, error) {
	var scoreMap [pssmWidth]int
	for i, aa := range grammar.CanonicalAminoAcids {
		idx := -1
		for j, m := range mapping {
			if m == aa {
				idx = j
				break
			}
		}
		if idx < 0 {
			return scoreMap, fmt.Errorf("nnstruct: normalized PSSM mapping is missing amino acid %q", aa)
		}
		scoreMap[i] = idx
	}
	return scoreMap, nil
}

func writeStage1Row(inputs []float64, rowSlot int, row pssm.NormalizedRow, scoreMap [pssmWidth]int) {
	base := rowSlot * stage1InputsPerRow
	for j := 0; j < pssmWidth; j++ {
		inputs[base+j] = row.Scores[scoreMap[j]]
	}
	inputs[base+pssmWidth] = 0
}

func writeStage2Row(inputs []float64, rowSlot int, stage1Output []float64) {
	base := rowSlot * stage2InputsPerRow
	for j := 0; j < nOutputs; j++ {
		inputs[base+j] = stage1Output[j]
	}
	inputs[base+nOutputs] = 0
}
