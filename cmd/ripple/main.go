// Package main provides the Ripple ML Framework CLI.
package main

import (
	"fmt"
	"os"

	"github.com/ripple-ml/ripple/op"
	"github.com/ripple-ml/ripple/ops"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Ripple ML Framework %s\n", version)
			return
		case "ops":
			listOps()
			return
		}
	}

	fmt.Println("Ripple ML Framework - Compute-Graph Operator Registry for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  ops        List registered operator kinds")
}

func listOps() {
	r := op.NewRegistry()
	if err := ops.Register(r); err != nil {
		fmt.Fprintf(os.Stderr, "register builtins: %v\n", err)
		os.Exit(1)
	}
	for _, kind := range r.Kinds() {
		proto, err := r.Proto(kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s  (%d inputs, %d outputs, %d attrs)\n",
			kind, len(proto.Inputs), len(proto.Outputs), len(proto.Attrs))
	}
}
