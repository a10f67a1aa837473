// Command tensorgraph builds a small sample dataflow graph, runs it through the full
// construct -> optimize -> shape_infer -> data_malloc control flow, and prints a report of the
// resulting operators and memory layout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/gomlx/tensorgraph/dtypes"
	"github.com/gomlx/tensorgraph/graph"
	"github.com/gomlx/tensorgraph/runtime"
)

var (
	flagCompatPermutations = flag.Bool("compat_permutations", false,
		"Use the original equal-permutation rule for the identical-transpose collapse pass, "+
			"instead of the default (sound) inverse-permutation rule.")
	flagMemoryCapBytes = flag.Int("memory_cap_bytes", 0,
		"If > 0, caps the runtime's total outstanding allocation, to demonstrate AllocationFailed.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	rt := newRuntime()
	g := graph.New(rt)
	g.SetCompatPermutationMode(*flagCompatPermutations)

	buildSampleGraph(g)

	klog.Infof("constructed graph: %d tensors, %d ops", len(g.Tensors()), len(g.Ops()))
	printOpsTable("Before optimize", g)

	g.Optimize()
	must.M(g.TopoSort())
	must.M(g.ShapeInfer())
	if err := g.DataMalloc(); err != nil {
		klog.Errorf("data_malloc failed: %+v", err)
		os.Exit(1)
	}
	must.M(g.CheckValid())

	printOpsTable("After optimize", g)
	printMemoryReport(g)
}

func newRuntime() runtime.Runtime {
	if *flagMemoryCapBytes > 0 {
		return runtime.NewBoundedSimpleRuntime(*flagMemoryCapBytes)
	}
	return runtime.NewSimpleRuntime()
}

// buildSampleGraph constructs X -Transpose(swap last two)-> T -Matmul-> Y, the fusion scenario:
// after Optimize, the transpose folds into the matmul's TransA attribute.
func buildSampleGraph(g *graph.Graph) {
	x := g.AddTensor(dtypes.Float32, 5, 3)
	b := g.AddTensor(dtypes.Float32, 5, 7)

	transposeOp := must.M1(g.AddTranspose(x, []int{1, 0}))
	must.M1(g.AddMatmul(transposeOp.Outputs()[0], b, false, false))
}

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 1, 0, 1)
	oddRowStyle    = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	evenRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(1).PaddingRight(1)
)

func printOpsTable(title string, g *graph.Graph) {
	fmt.Println(title)
	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 1 {
				return headerRowStyle
			}
			if row%2 == 0 {
				return evenRowStyle
			}
			return oddRowStyle
		})
	t.Row("GUID", "Kind", "Inputs", "Outputs")
	for _, op := range g.Ops() {
		t.Row(fmt.Sprintf("%d", op.GUID()), op.Kind().String(), tensorList(op.Inputs()), tensorList(op.Outputs()))
	}
	fmt.Println(t.Render())
}

func tensorList(tensors []*graph.Tensor) string {
	s := ""
	for i, t := range tensors {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s
}

func printMemoryReport(g *graph.Graph) {
	a := g.Allocator()
	fmt.Printf("\nArena: used=%s, peak=%s\n", humanize.Bytes(uint64(a.Used())), humanize.Bytes(uint64(a.Peak())))
	for _, tensor := range g.Tensors() {
		blob := tensor.Blob()
		fmt.Printf("  %s -> offset %d, %s\n", tensor, blob.Offset, humanize.Bytes(uint64(blob.Size)))
	}
}
