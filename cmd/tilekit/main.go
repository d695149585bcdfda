// Package main provides the TileKit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/tilekit-ml/tilekit/engine/cpu"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("TileKit %s\n", version)
			return
		case "features":
			eng := cpu.New()
			fmt.Printf("engine: %s\n", eng.Name())
			fmt.Printf("partition width: %d\n", eng.PartitionDim())
			fmt.Printf("matmul free-axis limit: %d\n", eng.MaxFreeDim())
			fmt.Printf("scratch capacity: %d bytes\n", eng.ScratchCapacity())
			fmt.Printf("vector extensions: %s\n", cpu.VectorExtensions())
			return
		}
	}

	fmt.Println("TileKit - Tiled Compute Kernels for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  features   Show engine geometry and CPU features")
}
