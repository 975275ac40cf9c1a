// Package pkg provides the libraries behind phylolayout.
//
// # Overview
//
// phylolayout converts a rooted phylogenetic tree into render-ready 2D
// coordinates. The pkg directory is organized into three areas:
//
//  1. [tree] and [layout] - Domain logic (tree model, transforms, layout passes)
//  2. [treeio] - Encodings for input trees and output records
//  3. [pipeline] - Orchestration (read → transform → layout → write)
//
// Supporting packages: [errors] for coded errors, [observability] for hooks,
// [buildinfo] for version data.
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML tree record
//	         ↓
//	    [treeio] + [tree.Build] (decode and build)
//	         ↓
//	    [tree] transforms (validate, collapse, thin)
//	         ↓
//	    [layout.Run] (stats → sort → order → coordinates → bounds → emit)
//	         ↓
//	    JSON/JSONL/MessagePack/DOT records
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/phylolayout/pkg/layout"
//	    "github.com/matzehuels/phylolayout/pkg/treeio"
//	)
//
//	t, _ := treeio.ReadFile("tree.json", "")
//	res, _ := layout.Run(t, layout.Options{Width: 800, Height: 600})
//	for _, r := range res.Records {
//	    fmt.Println(r.Name, r.X, r.Y)
//	}
//
// For the full pipeline with logging and config files, use [pipeline.Runner].
package pkg
