package cmd

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/james-bowman/sparse"
	"github.com/spf13/cobra"

	"github.com/notargets/gopdes/operators"
)

type OperatorType uint8

const (
	OpMass OperatorType = iota
	OpStiffness
	OpDiv
	OpCurl
)

var OperatorNameMap = map[string]OperatorType{
	"mass":      OpMass,
	"stiffness": OpStiffness,
	"div":       OpDiv,
	"curl":      OpCurl,
}

func NewOperatorType(label string) (op OperatorType, err error) {
	var ok bool
	if op, ok = OperatorNameMap[label]; !ok {
		err = fmt.Errorf("unknown operator %q, must be one of mass, stiffness, div, curl", label)
	}
	return
}

// AssembleCmd represents the assemble command
var AssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble a Galerkin operator of a space on its mesh",
	Long: `
Assembles the mass, stiffness, div-div or curl-curl matrix of the space on
itself and prints its size, number of non zeros and the sum of its entries.

gopdes assemble -M mesh.yaml -S space.yaml --operator stiffness`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			in    *Inputs
			label string
			op    OperatorType
		)
		if in, err = readInputs(cmd); err != nil {
			return
		}
		if len(in.SpaceFile) == 0 {
			return fmt.Errorf("must supply a space record file (-S, --spaceFile)")
		}
		label, _ = cmd.Flags().GetString("operator")
		if op, err = NewOperatorType(label); err != nil {
			return
		}
		countPerf, _ := cmd.Flags().GetBool("perf")
		return Assemble(cmd.OutOrStdout(), in, op, countPerf)
	},
}

func init() {
	rootCmd.AddCommand(AssembleCmd)
	addInputFlags(AssembleCmd)
	AssembleCmd.Flags().StringP("operator", "o", "mass", "operator to assemble: mass, stiffness, div, curl")
	AssembleCmd.Flags().Bool("perf", false, "count CPU instructions spent assembling (linux only)")
}

func Assemble(w io.Writer, in *Inputs, op OperatorType, countPerf bool) (err error) {
	msh, sp, err := Load(in)
	if err != nil {
		return
	}
	var A *sparse.CSR
	run := func() (err error) {
		switch op {
		case OpStiffness:
			A, err = operators.OpGradUGradV(sp, sp, msh, nil)
		case OpDiv:
			A, err = operators.OpDivUDivV(sp, sp, msh, nil)
		case OpCurl:
			A, err = operators.OpCurlUCurlV(sp, sp, msh, nil)
		default:
			A, err = operators.OpUV(sp, sp, msh, nil)
		}
		return
	}
	start := time.Now()
	if countPerf {
		var instructions uint64
		if instructions, err = countInstructions(run); err != nil {
			return
		}
		log.Printf("Assembly used %d CPU instructions", instructions)
	} else if err = run(); err != nil {
		return
	}
	log.Printf("Assembly took %v", time.Since(start))
	nr, nc := A.Dims()
	var sum float64
	A.DoNonZero(func(i, j int, v float64) {
		sum += v
	})
	fmt.Fprintf(w, "Operator: %d x %d, nnz = %d, sum of entries = %.8g\n", nr, nc, A.NNZ(), sum)
	return
}
