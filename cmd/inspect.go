package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gopdes/geometry"
	"github.com/notargets/gopdes/record"
	"github.com/notargets/gopdes/space"
	"github.com/notargets/gopdes/utils"
)

type Inputs struct {
	MeshFile  string
	SpaceFile string
	Surface   bool
	Verbose   bool
}

// InspectCmd represents the inspect command
var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Build the mesh (and space) views from record files and report on them",
	Long: `
Reads a mesh record and optionally a space record, validates them, and prints
the shape parameters, element measures and the derivative data available.

gopdes inspect -M mesh.yaml -S space.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var in *Inputs
		if in, err = readInputs(cmd); err != nil {
			return
		}
		return Inspect(cmd.OutOrStdout(), in)
	},
}

func init() {
	rootCmd.AddCommand(InspectCmd)
	addInputFlags(InspectCmd)
	InspectCmd.Flags().Bool("surface", false, "the mesh record is a boundary mesh carrying normals")
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("meshFile", "M", "", "mesh record file (YAML or JSON)")
	cmd.Flags().StringP("spaceFile", "S", "", "space record file (YAML or JSON)")
}

func readInputs(cmd *cobra.Command) (in *Inputs, err error) {
	in = &Inputs{Verbose: viper.GetBool("verbose")}
	if in.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
		return
	}
	if in.SpaceFile, err = cmd.Flags().GetString("spaceFile"); err != nil {
		return
	}
	if cmd.Flags().Lookup("surface") != nil {
		in.Surface, _ = cmd.Flags().GetBool("surface")
	}
	if len(in.MeshFile) == 0 {
		err = fmt.Errorf("must supply a mesh record file (-M, --meshFile)")
	}
	return
}

// Load reads the records named by in and builds the views. sp is nil when
// no space file was given.
func Load(in *Inputs) (msh geometry.Mesh, sp *space.BufferSpace, err error) {
	var rec record.Record
	log.Printf("Reading mesh record from %s", in.MeshFile)
	if rec, err = record.ReadFile(in.MeshFile); err != nil {
		return
	}
	if in.Verbose {
		printRecord(in.MeshFile, rec)
	}
	if in.Surface {
		msh, err = geometry.NewNormalMesh(rec)
	} else {
		msh, err = geometry.NewQuadMesh(rec)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", in.MeshFile, err)
	}
	if len(in.SpaceFile) == 0 {
		return
	}
	log.Printf("Reading space record from %s", in.SpaceFile)
	if rec, err = record.ReadFile(in.SpaceFile); err != nil {
		return
	}
	if in.Verbose {
		printRecord(in.SpaceFile, rec)
	}
	if sp, err = space.NewBufferSpace(rec, msh); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", in.SpaceFile, err)
	}
	return
}

func printRecord(path string, rec record.Record) {
	fmt.Printf("%s:\n", path)
	rec.Print()
	for _, name := range rec.Names() {
		if utils.IsNan(rec[name].Data) {
			log.Printf("%s: field %q holds NaN values", path, name)
		}
	}
}

func Inspect(w io.Writer, in *Inputs) (err error) {
	var (
		msh   geometry.Mesh
		sp    *space.BufferSpace
		total float64
	)
	if msh, sp, err = Load(in); err != nil {
		return
	}
	fmt.Fprintf(w, "Mesh: %v\n", geometry.Shape(msh))
	if in.Verbose {
		for iel := 0; iel < msh.Nel(); iel++ {
			var m float64
			if m, err = geometry.Measure(msh, iel); err != nil {
				return
			}
			fmt.Fprintf(w, "  element %d: measure = %.8g\n", iel, m)
		}
	}
	if total, err = geometry.TotalMeasure(msh); err != nil {
		return
	}
	fmt.Fprintf(w, "Total measure = %.8g\n", total)
	if _, ok := msh.(geometry.SurfaceMesh); ok {
		fmt.Fprintf(w, "Normals: present\n")
	}
	if sp == nil {
		return
	}
	fmt.Fprintf(w, "Space: %v\n", sp)
	if in.Verbose {
		for iel := 0; iel < sp.Nel(); iel++ {
			var (
				ev   space.ElementView
				dofs utils.Index
			)
			if ev, err = sp.Element(iel); err != nil {
				return
			}
			if dofs, err = ev.Dofs(); err != nil {
				return
			}
			fmt.Fprintf(w, "  element %d: nsh = %d, dofs = %v\n", iel, ev.Nsh(), dofs)
		}
	}
	return
}
