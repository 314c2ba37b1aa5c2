// heapanalyzer loads a heap snapshot and reports on its object graph:
// per-class instance counts, a reference-edge CSV dump, and
// breadth-first path tracing between two classes.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/chazu/soupvm/heap"
	"github.com/chazu/soupvm/snapshot"
)

func main() {
	snapshotPath := flag.String("snapshot", "", "path to a heap snapshot file (required)")
	graphOut := flag.String("graph", "", "write a source,target reference-edge CSV to this path")
	traceFrom := flag.Int("trace-from", 0, "numeric class id to start a path trace from")
	traceTo := flag.Int("trace-to", 0, "numeric class id to search for while tracing")
	countInstances := flag.Bool("count", true, "print per-class instance and byte counts")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: heapanalyzer -snapshot <path> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  heapanalyzer -snapshot heap.cbor\n")
		fmt.Fprintf(os.Stderr, "  heapanalyzer -snapshot heap.cbor -graph /tmp/graph.csv\n")
		fmt.Fprintf(os.Stderr, "  heapanalyzer -snapshot heap.cbor -trace-from 14 -trace-to 20\n")
	}
	flag.Parse()

	if *snapshotPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	h, err := load(*snapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "heapanalyzer: %v\n", err)
		os.Exit(1)
	}

	if *countInstances {
		printInstanceCounts(h)
	}
	if *graphOut != "" {
		if err := writeGraph(h, *graphOut); err != nil {
			fmt.Fprintf(os.Stderr, "heapanalyzer: %v\n", err)
			os.Exit(1)
		}
	}
	if *traceFrom != 0 || *traceTo != 0 {
		trace(h, heap.ClassID(*traceFrom), heap.ClassID(*traceTo))
	}
}

func load(path string) (*heap.Heap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse snapshot: %w", err)
	}

	h := heap.New(heap.NewContext(), heap.Config{
		NurserySize:  1 << 20,
		OldSpaceSize: uintptr(len(data)) * 8,
	})
	roots := snapshot.Decode(h, snap)
	h.RegisterRoots(heap.RootWalkFunc(func(visit func(*heap.Ref)) {
		for i := range roots {
			visit(&roots[i])
		}
	}))
	return h, nil
}

type classTotals struct {
	count, bytes int
}

func printInstanceCounts(h *heap.Heap) {
	totals := map[heap.ClassID]*classTotals{}
	h.Walk(func(r heap.Ref) {
		t := totals[r.ClassIDOf()]
		if t == nil {
			t = &classTotals{}
			totals[r.ClassIDOf()] = t
		}
		t.count++
		t.bytes += int(r.HeapSize())
	})

	type row struct {
		cid heap.ClassID
		classTotals
	}
	rows := make([]row, 0, len(totals))
	for cid, t := range totals {
		rows = append(rows, row{cid, *t})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].bytes > rows[j].bytes })

	fmt.Printf("%60s %10s %10s\n", "Class", "Instances", "Bytes")
	totalCount, totalBytes := 0, 0
	for _, r := range rows {
		fmt.Printf("%60s %10d %10d\n", classLabel(r.cid), r.count, r.bytes)
		totalCount += r.count
		totalBytes += r.bytes
	}
	fmt.Printf("%60s %10d %10d\n", "Total", totalCount, totalBytes)
}

func writeGraph(h *heap.Heap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintln(f, "source,target")
	h.Walk(func(source heap.Ref) {
		heap.ForEachPointer(source, func(slot heap.Ref) heap.Ref {
			if slot.IsHeap() {
				fmt.Fprintf(f, "%s,%s\n", classLabel(source.ClassIDOf()), classLabel(slot.ClassIDOf()))
			}
			return slot
		})
	})
	return nil
}

type tracePath struct {
	head heap.Ref
	tail *tracePath
}

func (p *tracePath) length() int {
	if p.tail == nil {
		return 1
	}
	return 1 + p.tail.length()
}

func findByClassID(h *heap.Heap, cid heap.ClassID) []heap.Ref {
	var found []heap.Ref
	h.Walk(func(r heap.Ref) {
		if r.ClassIDOf() == cid {
			found = append(found, r)
		}
	})
	return found
}

// trace performs a breadth-first search from every instance of
// fromClass, printing the first path found to an instance of toClass.
func trace(h *heap.Heap, fromClass, toClass heap.ClassID) {
	type queued struct {
		ref  heap.Ref
		path *tracePath
	}
	var queue []queued
	seen := map[uintptr]bool{}

	for _, r := range findByClassID(h, fromClass) {
		queue = append(queue, queued{r, &tracePath{head: r}})
		seen[uintptr(r)] = true
	}

	steps := 0
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		steps++
		if steps%10000 == 0 {
			fmt.Printf("At %d steps, path is %d long\n", steps, next.path.length())
		}

		if next.ref.ClassIDOf() == toClass {
			printPath(next.path)
			return
		}

		heap.ForEachPointer(next.ref, func(slot heap.Ref) heap.Ref {
			if slot.IsHeap() && !seen[uintptr(slot)] {
				seen[uintptr(slot)] = true
				queue = append(queue, queued{slot, &tracePath{head: slot, tail: next.path}})
			}
			return slot
		})
	}
	fmt.Println("no path found")
}

func printPath(p *tracePath) {
	fmt.Print("Found path: ")
	for cur := p; cur != nil; cur = cur.tail {
		fmt.Printf("%s", classLabel(cur.head.ClassIDOf()))
		if cur.tail != nil {
			fmt.Print(" <- ")
		}
	}
	fmt.Println()
}

// classLabel names a class id. This core does not carry a symbol
// table linking class ids to source names the way a running VM image
// would, so the label is the numeric id itself.
func classLabel(cid heap.ClassID) string {
	return fmt.Sprintf("class#%d", cid)
}
